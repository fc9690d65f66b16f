// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks over the hot paths of a packaging
// run, suitable for PGO profile generation:
//   - CUE policy and configuration parsing
//   - Starlark script evaluation and capability attribute dispatch
//   - source tree discovery and classification
//   - manifest and bundle emission
//
// To generate a PGO profile:
//
//	go test -bench=. -cpuprofile=default.pgo ./internal/benchmark/
package benchmark
