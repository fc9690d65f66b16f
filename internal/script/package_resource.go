// SPDX-License-Identifier: MPL-2.0

package script

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/starpack/starpack/pkg/collection"
	"github.com/starpack/starpack/pkg/resource"
)

var (
	_ starlark.Value       = (*PackageResourceValue)(nil)
	_ starlark.HasAttrs    = (*PackageResourceValue)(nil)
	_ starlark.HasSetField = (*PackageResourceValue)(nil)
)

const packageResourceTypeName = "PackageResource"

var packageResourceIntrinsics = []string{"name", "package"}

// PackageResourceValue exposes a package data file to scripts. It carries
// the same capability surface as source modules: the context attributes
// are readable and writable.
type PackageResourceValue struct {
	record *resource.PackageResource
	ctx    *collection.Context
	frozen bool
}

// Type implements starlark.Value.
func (v *PackageResourceValue) Type() string { return packageResourceTypeName }

// String implements starlark.Value.
func (v *PackageResourceValue) String() string {
	return fmt.Sprintf("%s<package=%s, name=%s>", packageResourceTypeName, v.record.Package, v.record.Name)
}

// Freeze implements starlark.Value. A frozen wrapper rejects all writes.
func (v *PackageResourceValue) Freeze() { v.frozen = true }

// Truth implements starlark.Value. A populated wrapper is always truthy.
func (v *PackageResourceValue) Truth() starlark.Bool { return starlark.True }

// Hash implements starlark.Value. Wrappers are mutable, hence unhashable.
func (v *PackageResourceValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: %s", packageResourceTypeName)
}

// Record returns the wrapped record.
func (v *PackageResourceValue) Record() *resource.PackageResource { return v.record }

// Context returns the wrapper's collection context, nil when absent.
func (v *PackageResourceValue) Context() *collection.Context { return v.ctx }

// Attr implements starlark.HasAttrs.
func (v *PackageResourceValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "package":
		return starlark.String(v.record.Package), nil
	case "name":
		return starlark.String(v.record.Name), nil
	}
	if val, ok := contextAttr(v.ctx, name); ok {
		return val, nil
	}
	return nil, noSuchAttr(packageResourceTypeName, name)
}

// AttrNames implements starlark.HasAttrs.
func (v *PackageResourceValue) AttrNames() []string {
	return mergeAttrNames(packageResourceIntrinsics, true)
}

// SetField implements starlark.HasSetField.
func (v *PackageResourceValue) SetField(name string, val starlark.Value) error {
	if v.frozen {
		return fmt.Errorf("cannot set .%s on frozen %s", name, packageResourceTypeName)
	}
	if ok, err := setContextAttr(packageResourceTypeName, v.ctx, name, val); ok {
		return err
	}
	return &UnsupportedAttributeError{TypeName: packageResourceTypeName, Attr: name}
}
