// SPDX-License-Identifier: MPL-2.0

// Package policy decides the default collection behavior for discovered
// resources.
//
// A Policy bundles a placement rule (where resources go by default) with
// per-kind include toggles and bytecode defaults. Policies derive a fresh
// collection.Context for each resource at wrapper construction time; the
// context is owned by the wrapper afterwards and later policy changes do
// not rewrite it.
//
// Placement rules have a canonical string form ("in-memory-only",
// "filesystem-relative-only:<prefix>",
// "prefer-in-memory-fallback-filesystem-relative:<prefix>") used in config
// files and on the command line. Policies can also be loaded from CUE
// files validated against an embedded schema.
package policy
