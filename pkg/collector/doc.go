// SPDX-License-Identifier: MPL-2.0

// Package collector accumulates the resources submitted during script
// evaluation and materializes them afterwards: a TOML manifest describing
// every collected entry, plus an optional ZIP bundle holding the payloads
// of filesystem-backed entries.
//
// The collector is a name-keyed set: submitting a resource with the same
// identity twice replaces the earlier entry. Placement decisions are taken
// from each entry's collection context snapshot; the collector itself never
// reinterprets policy.
package collector
