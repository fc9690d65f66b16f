// SPDX-License-Identifier: MPL-2.0

// Package build orchestrates a packaging run for the starpack command
// pipeline. It resolves the script path and policy from config plus CLI
// overrides, evaluates the script against a fresh collector, and writes
// the manifest and bundle outputs.
package build
