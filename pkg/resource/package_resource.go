// SPDX-License-Identifier: MPL-2.0

package resource

import (
	"errors"
	"fmt"

	"github.com/starpack/starpack/pkg/types"
)

// ErrInvalidPackageResource is the sentinel error wrapped by InvalidPackageResourceError.
var ErrInvalidPackageResource = errors.New("invalid package resource")

type (
	// PackageResource describes a non-code data file belonging to a
	// Python package, e.g. foo.bar's "templates/index.html".
	PackageResource struct {
		// Package is the leaf package the resource belongs to.
		Package types.ModuleName

		// Name is the resource's path relative to the package, using
		// forward slashes.
		Name string

		// Data is the resource payload.
		Data SourceData
	}

	// InvalidPackageResourceError is returned when a PackageResource has
	// an empty relative name.
	InvalidPackageResourceError struct {
		Package types.ModuleName
	}
)

// Kind returns KindPackageResource.
func (r *PackageResource) Kind() Kind { return KindPackageResource }

// Description identifies the record in logs and error messages, in the
// form "package resource <package>:<name>".
func (r *PackageResource) Description() string {
	return fmt.Sprintf("package resource %s:%s", r.Package, r.Name)
}

// Validate returns an error if the leaf package name is invalid or the
// relative name is empty.
func (r *PackageResource) Validate() error {
	if err := r.Package.Validate(); err != nil {
		return err
	}
	if r.Name == "" {
		return &InvalidPackageResourceError{Package: r.Package}
	}
	return nil
}

func (*PackageResource) resourceSigil() {}

// Error implements the error interface for InvalidPackageResourceError.
func (e *InvalidPackageResourceError) Error() string {
	return fmt.Sprintf("invalid package resource in %s: relative name must be non-empty", e.Package)
}

// Unwrap returns ErrInvalidPackageResource for errors.Is() compatibility.
func (e *InvalidPackageResourceError) Unwrap() error { return ErrInvalidPackageResource }
