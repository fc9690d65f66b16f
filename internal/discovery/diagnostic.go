// SPDX-License-Identifier: MPL-2.0

package discovery

type (
	// Severity ranks a diagnostic. Warnings mean a file was skipped and the
	// scan went on; errors mean part of the tree could not be read at all.
	Severity string

	// Diagnostic records one non-fatal problem found while scanning a source
	// tree. Scan collects these instead of printing them so the CLI layer
	// decides how (and whether) to render them.
	Diagnostic struct {
		Severity Severity
		// Code identifies the problem class, e.g. "bytecode_name_skipped"
		// or "entry_unreadable". Stable across releases; tests key on it.
		Code    string
		Message string
		// Path names the offending file or directory when there is one.
		Path string
		// Cause carries the underlying error, if any.
		Cause error
	}
)

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)
