// SPDX-License-Identifier: MPL-2.0

package collection

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Canonical string forms understood by the location codec.
const (
	// LocationDefault is the string form that selects "no explicit
	// placement". It is only legal where an absent location is legal: it
	// never round-trips into a concrete Location value.
	LocationDefault = "default"

	// LocationInMemory is the string form of the in-memory placement.
	LocationInMemory = "in-memory"

	// LocationFilesystemRelativePrefix starts the string form of a
	// filesystem-relative placement. Everything after the colon is the
	// prefix, taken verbatim (an empty prefix is legal).
	LocationFilesystemRelativePrefix = "filesystem-relative:"
)

// ErrInvalidLocation is the sentinel error wrapped by InvalidLocationError.
var ErrInvalidLocation = errors.New("invalid resource location")

type (
	// locationKind discriminates the Location variants. The zero value is
	// deliberately invalid so an uninitialized Location never masquerades
	// as a real placement.
	locationKind int

	// Location is a concrete placement class for a collected resource:
	// either embedded in memory or written to the filesystem under a
	// prefix. Construct values with InMemoryLocation or
	// FilesystemRelativeLocation; the zero value is invalid.
	//
	// "No placement" is represented by the absence of a Location
	// (a nil *Location), never by a Location variant.
	Location struct {
		kind   locationKind
		prefix string
	}

	// InvalidLocationError is returned when a string (or script value)
	// cannot be decoded into a Location. Value holds the script-side
	// representation of the offending input, already quoted when it was a
	// string. AllowDefault reports whether "default" was an accepted shape
	// in the failing decode.
	InvalidLocationError struct {
		Value        string
		AllowDefault bool
	}
)

const (
	locationInvalid locationKind = iota
	locationInMemory
	locationFilesystemRelative
)

// InMemoryLocation returns the in-memory placement.
func InMemoryLocation() Location {
	return Location{kind: locationInMemory}
}

// FilesystemRelativeLocation returns a filesystem placement under prefix.
// The prefix is kept verbatim; it may be empty.
func FilesystemRelativeLocation(prefix string) Location {
	return Location{kind: locationFilesystemRelative, prefix: prefix}
}

// ParseLocation decodes a concrete placement from its canonical string
// form. It accepts exactly "in-memory" and "filesystem-relative:<prefix>";
// in particular "default" is rejected, because a concrete placement slot
// can never hold "no placement".
func ParseLocation(s string) (Location, error) {
	switch {
	case s == LocationInMemory:
		return InMemoryLocation(), nil
	case strings.HasPrefix(s, LocationFilesystemRelativePrefix):
		return FilesystemRelativeLocation(s[len(LocationFilesystemRelativePrefix):]), nil
	default:
		return Location{}, &InvalidLocationError{Value: strconv.Quote(s)}
	}
}

// ParseOptionalLocation decodes a placement that may be absent. "default"
// decodes to nil (no placement); the concrete shapes decode as in
// ParseLocation.
func ParseOptionalLocation(s string) (*Location, error) {
	if s == LocationDefault {
		return nil, nil
	}
	loc, err := ParseLocation(s)
	if err != nil {
		return nil, &InvalidLocationError{Value: strconv.Quote(s), AllowDefault: true}
	}
	return &loc, nil
}

// String encodes the Location in its canonical string form. The zero
// (invalid) Location encodes to "" so that misuse is visible in output
// rather than silently well-formed.
func (l Location) String() string {
	switch l.kind {
	case locationInMemory:
		return LocationInMemory
	case locationFilesystemRelative:
		return LocationFilesystemRelativePrefix + l.prefix
	default:
		return ""
	}
}

// Validate returns an error if the Location is the zero value.
func (l Location) Validate() error {
	if l.kind == locationInvalid {
		return &InvalidLocationError{Value: strconv.Quote("")}
	}
	return nil
}

// IsInMemory reports whether the Location is the in-memory placement.
func (l Location) IsInMemory() bool { return l.kind == locationInMemory }

// IsFilesystemRelative reports whether the Location is a filesystem
// placement.
func (l Location) IsFilesystemRelative() bool { return l.kind == locationFilesystemRelative }

// Prefix returns the filesystem prefix. It is "" for non-filesystem
// placements.
func (l Location) Prefix() string { return l.prefix }

// Error implements the error interface for InvalidLocationError.
func (e *InvalidLocationError) Error() string {
	accepted := `"in-memory" or "filesystem-relative:<prefix>"`
	if e.AllowDefault {
		accepted = `"default", "in-memory", or "filesystem-relative:<prefix>"`
	}
	return fmt.Sprintf("unable to convert %s to a resource location: expected %s", e.Value, accepted)
}

// Unwrap returns ErrInvalidLocation for errors.Is() compatibility.
func (e *InvalidLocationError) Unwrap() error { return ErrInvalidLocation }
