// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidModuleName is the sentinel error wrapped by InvalidModuleNameError.
var ErrInvalidModuleName = errors.New("invalid module name")

type (
	// ModuleName represents a dotted Python module path such as "foo" or
	// "foo.bar.baz". The zero value ("") is invalid; a resource must always
	// be addressable by name.
	ModuleName string

	// InvalidModuleNameError is returned when a ModuleName value is empty,
	// whitespace-only, or contains an empty dotted segment.
	InvalidModuleNameError struct {
		Value ModuleName
	}
)

// String returns the string representation of the ModuleName.
func (n ModuleName) String() string { return string(n) }

// Validate returns an error if the ModuleName is empty or has an empty
// dotted segment (leading, trailing, or doubled dots).
func (n ModuleName) Validate() error {
	if strings.TrimSpace(string(n)) == "" {
		return &InvalidModuleNameError{Value: n}
	}
	for _, seg := range strings.Split(string(n), ".") {
		if strings.TrimSpace(seg) == "" {
			return &InvalidModuleNameError{Value: n}
		}
	}
	return nil
}

// Package returns the parent package of the module, or "" for a top-level
// module. Package("foo.bar.baz") is "foo.bar".
func (n ModuleName) Package() ModuleName {
	idx := strings.LastIndex(string(n), ".")
	if idx < 0 {
		return ""
	}
	return n[:idx]
}

// Leaf returns the final dotted segment of the module name.
// Leaf("foo.bar.baz") is "baz".
func (n ModuleName) Leaf() string {
	idx := strings.LastIndex(string(n), ".")
	if idx < 0 {
		return string(n)
	}
	return string(n[idx+1:])
}

// Error implements the error interface for InvalidModuleNameError.
func (e *InvalidModuleNameError) Error() string {
	return fmt.Sprintf("invalid module name %q: must be non-empty dotted segments", e.Value)
}

// Unwrap returns ErrInvalidModuleName for errors.Is() compatibility.
func (e *InvalidModuleNameError) Unwrap() error { return ErrInvalidModuleName }
