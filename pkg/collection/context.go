// SPDX-License-Identifier: MPL-2.0

package collection

import (
	"errors"
	"fmt"
)

// ErrInvalidContext is the sentinel error wrapped by InvalidContextError.
var ErrInvalidContext = errors.New("invalid collection context")

type (
	// Context is the collection configuration attached to a single
	// resource. Once a resource carries a Context it is only ever
	// replaced wholesale (by reapplying a policy) or mutated field by
	// field; it is never removed.
	//
	// Location always holds a concrete placement; "no placement" is not a
	// legal resting state for it. LocationFallback is genuinely optional
	// and may be cleared at any time.
	Context struct {
		// Include controls whether the resource is collected at all.
		Include bool

		// Location is the primary placement target.
		Location Location

		// LocationFallback is consulted when the primary placement is
		// unavailable downstream. Nil means no fallback.
		LocationFallback *Location

		// StoreSource controls whether source text is retained alongside
		// compiled form.
		StoreSource bool

		// OptimizeLevelZero, OptimizeLevelOne, and OptimizeLevelTwo
		// independently enable bytecode emission at each CPython
		// optimization level.
		OptimizeLevelZero bool
		OptimizeLevelOne  bool
		OptimizeLevelTwo  bool
	}

	// InvalidContextError is returned when a Context violates its resting
	// invariants.
	InvalidContextError struct {
		Reason string
	}
)

// Validate returns an error if the Context's primary location is not a
// concrete placement, or if a present fallback is not concrete.
func (c *Context) Validate() error {
	if err := c.Location.Validate(); err != nil {
		return &InvalidContextError{Reason: "location must be a concrete placement"}
	}
	if c.LocationFallback != nil {
		if err := c.LocationFallback.Validate(); err != nil {
			return &InvalidContextError{Reason: "location fallback must be a concrete placement when present"}
		}
	}
	return nil
}

// Clone returns an independent copy of the Context. Wrappers own their
// contexts exclusively, so every attach site copies rather than shares.
func (c *Context) Clone() *Context {
	if c == nil {
		return nil
	}
	out := *c
	if c.LocationFallback != nil {
		fb := *c.LocationFallback
		out.LocationFallback = &fb
	}
	return &out
}

// Error implements the error interface for InvalidContextError.
func (e *InvalidContextError) Error() string {
	return fmt.Sprintf("invalid collection context: %s", e.Reason)
}

// Unwrap returns ErrInvalidContext for errors.Is() compatibility.
func (e *InvalidContextError) Unwrap() error { return ErrInvalidContext }
