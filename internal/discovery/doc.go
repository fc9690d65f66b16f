// SPDX-License-Identifier: MPL-2.0

// Package discovery scans Python source trees and classifies their files
// into resource records: source modules, package data, distribution
// metadata, extension modules, compiled bytecode, and plain files.
//
// Scanning is tolerant. Entries that cannot be read or classified are
// reported as structured diagnostics for the caller to render, and the
// walk keeps going.
package discovery
