// SPDX-License-Identifier: MPL-2.0

// Package resource defines the record types describing buildable units of a
// packaged Python program: module source, package data files, distribution
// metadata, native extension modules, compiled bytecode, and plain files.
//
// Records are produced by discovery (or by script builtins) and treated as
// immutable inputs everywhere downstream; configuration state lives in the
// collection.Context attached alongside a record, never in the record
// itself. The Resource interface is a closed set: only the types in this
// package implement it.
package resource
