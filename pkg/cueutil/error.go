// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// ValidationError is a single schema violation with enough context to point
// the user at the offending field.
type ValidationError struct {
	// FilePath is the document being validated.
	FilePath string

	// CUEPath locates the invalid value in JSON-path notation, e.g.
	// "rules[0].prefix". Empty when the error is not tied to a field.
	CUEPath string

	// Message describes the violation.
	Message string

	// Suggestion optionally hints at a fix. It is carried for callers that
	// render richer output; Error() does not include it.
	Suggestion string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.CUEPath == "" {
		return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.FilePath, e.CUEPath, e.Message)
}

// Unwrap returns nil; a ValidationError is a leaf.
func (e *ValidationError) Unwrap() error {
	return nil
}

// FormatError rewrites a CUE error list into "<file>: <path>: <message>"
// lines, one per violation. Errors that did not come from CUE are wrapped
// with the file path and returned as-is otherwise.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrors := errors.Errors(err)
	if len(cueErrors) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	lines := make([]string, 0, len(cueErrors))
	for _, e := range cueErrors {
		pathStr := formatPath(errors.Path(e))
		msg := e.Error()

		// CUE often repeats the field path at the front of the message;
		// strip it so the line reads "path: message" exactly once.
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, pathStr), ":"))
		}

		if pathStr == "" {
			lines = append(lines, msg)
		} else {
			lines = append(lines, pathStr+": "+msg)
		}
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// formatPath renders a CUE error path as JSON-path notation. CUE reports
// paths as flat string slices where numeric elements are list indices, so
// ["rules", "0", "prefix"] becomes "rules[0].prefix".
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		switch {
		case i > 0 && isDecimal(part):
			b.WriteByte('[')
			b.WriteString(part)
			b.WriteByte(']')
		case i > 0:
			b.WriteByte('.')
			b.WriteString(part)
		default:
			b.WriteString(part)
		}
	}
	return b.String()
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize rejects data larger than maxSize. Callers that stream can
// use it on a prefix before committing to a full read.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
