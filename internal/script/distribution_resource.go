// SPDX-License-Identifier: MPL-2.0

package script

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/starpack/starpack/pkg/collection"
	"github.com/starpack/starpack/pkg/resource"
)

var (
	_ starlark.Value       = (*DistributionResourceValue)(nil)
	_ starlark.HasAttrs    = (*DistributionResourceValue)(nil)
	_ starlark.HasSetField = (*DistributionResourceValue)(nil)
)

const distributionResourceTypeName = "DistributionResource"

var distributionResourceIntrinsics = []string{"name", "package"}

// DistributionResourceValue exposes a package distribution metadata file
// to scripts, with the full capability surface.
type DistributionResourceValue struct {
	record *resource.DistributionResource
	ctx    *collection.Context
	frozen bool
}

// Type implements starlark.Value.
func (v *DistributionResourceValue) Type() string { return distributionResourceTypeName }

// String implements starlark.Value.
func (v *DistributionResourceValue) String() string {
	return fmt.Sprintf("%s<package=%s, name=%s>", distributionResourceTypeName, v.record.Package, v.record.Name)
}

// Freeze implements starlark.Value. A frozen wrapper rejects all writes.
func (v *DistributionResourceValue) Freeze() { v.frozen = true }

// Truth implements starlark.Value. A populated wrapper is always truthy.
func (v *DistributionResourceValue) Truth() starlark.Bool { return starlark.True }

// Hash implements starlark.Value. Wrappers are mutable, hence unhashable.
func (v *DistributionResourceValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: %s", distributionResourceTypeName)
}

// Record returns the wrapped record.
func (v *DistributionResourceValue) Record() *resource.DistributionResource { return v.record }

// Context returns the wrapper's collection context, nil when absent.
func (v *DistributionResourceValue) Context() *collection.Context { return v.ctx }

// Attr implements starlark.HasAttrs.
func (v *DistributionResourceValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "package":
		return starlark.String(v.record.Package), nil
	case "name":
		return starlark.String(v.record.Name), nil
	}
	if val, ok := contextAttr(v.ctx, name); ok {
		return val, nil
	}
	return nil, noSuchAttr(distributionResourceTypeName, name)
}

// AttrNames implements starlark.HasAttrs.
func (v *DistributionResourceValue) AttrNames() []string {
	return mergeAttrNames(distributionResourceIntrinsics, true)
}

// SetField implements starlark.HasSetField.
func (v *DistributionResourceValue) SetField(name string, val starlark.Value) error {
	if v.frozen {
		return fmt.Errorf("cannot set .%s on frozen %s", name, distributionResourceTypeName)
	}
	if ok, err := setContextAttr(distributionResourceTypeName, v.ctx, name, val); ok {
		return err
	}
	return &UnsupportedAttributeError{TypeName: distributionResourceTypeName, Attr: name}
}
