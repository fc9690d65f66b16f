// SPDX-License-Identifier: MPL-2.0

// Package script exposes resource records to Starlark configuration
// scripts.
//
// Each script-compatible record kind gets a wrapper value pairing the
// record with an optional collection.Context. Wrappers surface two kinds
// of attributes: intrinsic read-only fields of the record (name, source,
// package, ...) and the shared collection-context capability surface
// (add_include, add_location, ...) that context-bearing kinds opt into.
// Contexts are derived from a policy exactly once, when the wrapper is
// built; scripts then mutate them attribute by attribute.
//
// A Session owns the Starlark thread, the predeclared builtins
// (make_source_module, discover, collect, ...), and the set of resources
// the script chose to collect.
package script
