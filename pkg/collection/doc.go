// SPDX-License-Identifier: MPL-2.0

// Package collection models where and how a packaged resource is collected.
//
// A Location names a placement class for collected resources: embedded in
// memory, or on the filesystem relative to a prefix. Locations cross the
// scripting boundary as strings ("in-memory", "filesystem-relative:<prefix>"),
// so the package also owns the canonical string codec.
//
// A Context is the per-resource collection configuration: whether the
// resource is included, its placement (plus optional fallback), whether
// source text is retained, and which bytecode optimization levels are
// emitted. Contexts are derived from a packaging policy and then mutated
// attribute-by-attribute during script evaluation.
package collection
