// SPDX-License-Identifier: MPL-2.0

package resource

import (
	"errors"
	"fmt"
)

// ErrInvalidDistributionResource is the sentinel error wrapped by
// InvalidDistributionResourceError.
var ErrInvalidDistributionResource = errors.New("invalid distribution resource")

type (
	// DistributionResource describes a metadata file belonging to a Python
	// package distribution, e.g. my-package's "METADATA". Distribution
	// names follow packaging conventions (dashes allowed), so Package is a
	// plain string rather than a dotted module name.
	DistributionResource struct {
		// Package is the distribution name, e.g. "my-package".
		Package string

		// Version is the distribution version string.
		Version string

		// Name is the metadata file name, e.g. "METADATA" or "RECORD".
		Name string

		// Data is the file payload.
		Data SourceData
	}

	// InvalidDistributionResourceError is returned when a
	// DistributionResource lacks a package or file name.
	InvalidDistributionResourceError struct {
		Package string
		Name    string
	}
)

// Kind returns KindDistributionResource.
func (r *DistributionResource) Kind() Kind { return KindDistributionResource }

// Description identifies the record in logs and error messages.
func (r *DistributionResource) Description() string {
	return fmt.Sprintf("package distribution resource %s:%s", r.Package, r.Name)
}

// Validate returns an error if the distribution or file name is empty.
func (r *DistributionResource) Validate() error {
	if r.Package == "" || r.Name == "" {
		return &InvalidDistributionResourceError{Package: r.Package, Name: r.Name}
	}
	return nil
}

func (*DistributionResource) resourceSigil() {}

// Error implements the error interface for InvalidDistributionResourceError.
func (e *InvalidDistributionResourceError) Error() string {
	return fmt.Sprintf("invalid distribution resource %q:%q: package and name must be non-empty", e.Package, e.Name)
}

// Unwrap returns ErrInvalidDistributionResource for errors.Is() compatibility.
func (e *InvalidDistributionResourceError) Unwrap() error { return ErrInvalidDistributionResource }
