// SPDX-License-Identifier: MPL-2.0

// Package testutil builds throwaway file trees for tests: MustWriteFile and
// MustMkdirAll for single entries, WriteTree for whole source layouts. All
// helpers fail the test on error so call sites stay one line.
package testutil
