// SPDX-License-Identifier: MPL-2.0

package script

import (
	"errors"
	"fmt"
)

// ErrUnsupportedAttribute is the sentinel error wrapped by UnsupportedAttributeError.
var ErrUnsupportedAttribute = errors.New("unsupported attribute")

// ErrMissingContext is the sentinel error wrapped by MissingContextError.
var ErrMissingContext = errors.New("no collection context")

type (
	// UnsupportedAttributeError is returned when a script assigns to an
	// attribute a wrapper does not support: either a name outside the
	// wrapper's attribute set or a read-only intrinsic.
	UnsupportedAttributeError struct {
		TypeName string
		Attr     string
	}

	// MissingContextError is returned when a script assigns to a
	// collection-context attribute on a wrapper whose context is absent.
	MissingContextError struct {
		TypeName string
		Attr     string
	}
)

// Error implements the error interface for UnsupportedAttributeError.
func (e *UnsupportedAttributeError) Error() string {
	return fmt.Sprintf("cannot set .%s attribute on %s", e.Attr, e.TypeName)
}

// Unwrap returns ErrUnsupportedAttribute for errors.Is() compatibility.
func (e *UnsupportedAttributeError) Unwrap() error { return ErrUnsupportedAttribute }

// Error implements the error interface for MissingContextError.
func (e *MissingContextError) Error() string {
	return fmt.Sprintf("cannot set .%s on %s: no collection context attached", e.Attr, e.TypeName)
}

// Unwrap returns ErrMissingContext for errors.Is() compatibility.
func (e *MissingContextError) Unwrap() error { return ErrMissingContext }
