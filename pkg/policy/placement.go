// SPDX-License-Identifier: MPL-2.0

package policy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/starpack/starpack/pkg/collection"
)

// Canonical placement spec forms.
const (
	specInMemoryOnly             = "in-memory-only"
	specFilesystemRelativeOnly   = "filesystem-relative-only:"
	specPreferInMemoryFSFallback = "prefer-in-memory-fallback-filesystem-relative:"
)

// ErrInvalidPlacementSpec is the sentinel error wrapped by InvalidPlacementSpecError.
var ErrInvalidPlacementSpec = errors.New("invalid placement spec")

type (
	// Placement is a policy's default answer to "where do resources go":
	// a primary location plus an optional fallback. The zero value is
	// invalid; build one with the constructors or ParsePlacement.
	Placement struct {
		// Location is the primary placement for derived contexts.
		Location collection.Location

		// Fallback, when non-nil, is the placement to try if the primary
		// is unavailable downstream.
		Fallback *collection.Location
	}

	// InvalidPlacementSpecError is returned when a placement spec string
	// matches none of the canonical forms.
	InvalidPlacementSpecError struct {
		Value string
	}
)

// InMemoryOnly places every resource in memory with no fallback.
func InMemoryOnly() Placement {
	return Placement{Location: collection.InMemoryLocation()}
}

// FilesystemRelativeOnly places every resource on the filesystem under
// prefix, with no fallback.
func FilesystemRelativeOnly(prefix string) Placement {
	return Placement{Location: collection.FilesystemRelativeLocation(prefix)}
}

// PreferInMemory places resources in memory and falls back to the
// filesystem under prefix.
func PreferInMemory(prefix string) Placement {
	fb := collection.FilesystemRelativeLocation(prefix)
	return Placement{
		Location: collection.InMemoryLocation(),
		Fallback: &fb,
	}
}

// ParsePlacement decodes a placement spec from its canonical string form:
// "in-memory-only", "filesystem-relative-only:<prefix>", or
// "prefer-in-memory-fallback-filesystem-relative:<prefix>".
func ParsePlacement(s string) (Placement, error) {
	switch {
	case s == specInMemoryOnly:
		return InMemoryOnly(), nil
	case strings.HasPrefix(s, specFilesystemRelativeOnly):
		return FilesystemRelativeOnly(s[len(specFilesystemRelativeOnly):]), nil
	case strings.HasPrefix(s, specPreferInMemoryFSFallback):
		return PreferInMemory(s[len(specPreferInMemoryFSFallback):]), nil
	default:
		return Placement{}, &InvalidPlacementSpecError{Value: s}
	}
}

// String encodes the Placement in its canonical spec form. Placements not
// constructible from a spec string (e.g. a filesystem primary with a
// fallback) encode to a best-effort "primary|fallback" form for logs.
func (p Placement) String() string {
	switch {
	case p.Location.IsInMemory() && p.Fallback == nil:
		return specInMemoryOnly
	case p.Location.IsFilesystemRelative() && p.Fallback == nil:
		return specFilesystemRelativeOnly + p.Location.Prefix()
	case p.Location.IsInMemory() && p.Fallback != nil && p.Fallback.IsFilesystemRelative():
		return specPreferInMemoryFSFallback + p.Fallback.Prefix()
	default:
		if p.Fallback != nil {
			return fmt.Sprintf("%s|%s", p.Location, p.Fallback)
		}
		return p.Location.String()
	}
}

// Validate returns an error if the primary location is not concrete or a
// present fallback is not concrete.
func (p Placement) Validate() error {
	if err := p.Location.Validate(); err != nil {
		return &InvalidPlacementSpecError{Value: p.String()}
	}
	if p.Fallback != nil {
		if err := p.Fallback.Validate(); err != nil {
			return &InvalidPlacementSpecError{Value: p.String()}
		}
	}
	return nil
}

// Error implements the error interface for InvalidPlacementSpecError.
func (e *InvalidPlacementSpecError) Error() string {
	return fmt.Sprintf(
		"invalid placement spec %q: expected %q, %q, or %q",
		e.Value,
		specInMemoryOnly,
		specFilesystemRelativeOnly+"<prefix>",
		specPreferInMemoryFSFallback+"<prefix>",
	)
}

// Unwrap returns ErrInvalidPlacementSpec for errors.Is() compatibility.
func (e *InvalidPlacementSpecError) Unwrap() error { return ErrInvalidPlacementSpec }
