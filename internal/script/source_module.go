// SPDX-License-Identifier: MPL-2.0

package script

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/starpack/starpack/pkg/collection"
	"github.com/starpack/starpack/pkg/resource"
)

var (
	_ starlark.Value       = (*SourceModuleValue)(nil)
	_ starlark.HasAttrs    = (*SourceModuleValue)(nil)
	_ starlark.HasSetField = (*SourceModuleValue)(nil)
)

const sourceModuleTypeName = "SourceModule"

var sourceModuleIntrinsics = []string{"is_package", "name", "source"}

// SourceModuleValue exposes a source-module record to scripts. Intrinsic
// attributes are read-only views of the record; the collection context is
// mutated in place through the shared capability attributes.
type SourceModuleValue struct {
	record *resource.SourceModule
	ctx    *collection.Context
	frozen bool
}

// Type implements starlark.Value.
func (v *SourceModuleValue) Type() string { return sourceModuleTypeName }

// String implements starlark.Value.
func (v *SourceModuleValue) String() string {
	return fmt.Sprintf("%s<name=%s>", sourceModuleTypeName, v.record.Name)
}

// Freeze implements starlark.Value. A frozen wrapper rejects all writes.
func (v *SourceModuleValue) Freeze() { v.frozen = true }

// Truth implements starlark.Value. A populated wrapper is always truthy.
func (v *SourceModuleValue) Truth() starlark.Bool { return starlark.True }

// Hash implements starlark.Value. Wrappers are mutable, hence unhashable.
func (v *SourceModuleValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: %s", sourceModuleTypeName)
}

// Record returns the wrapped record.
func (v *SourceModuleValue) Record() *resource.SourceModule { return v.record }

// Context returns the wrapper's collection context, nil when absent.
func (v *SourceModuleValue) Context() *collection.Context { return v.ctx }

// Attr implements starlark.HasAttrs. The source attribute resolves the
// record's payload on demand; resolution and text-decoding failures
// surface as distinct script errors.
func (v *SourceModuleValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "name":
		return starlark.String(v.record.Name), nil
	case "source":
		text, err := v.record.Source.ResolveText()
		if err != nil {
			return nil, fmt.Errorf("resolving source of %s: %w", v.record.Name, err)
		}
		return starlark.String(text), nil
	case "is_package":
		return starlark.Bool(v.record.IsPackage), nil
	}
	if val, ok := contextAttr(v.ctx, name); ok {
		return val, nil
	}
	return nil, noSuchAttr(sourceModuleTypeName, name)
}

// AttrNames implements starlark.HasAttrs.
func (v *SourceModuleValue) AttrNames() []string {
	return mergeAttrNames(sourceModuleIntrinsics, true)
}

// SetField implements starlark.HasSetField. Only capability attributes are
// assignable; intrinsics and unknown names fail as unsupported.
func (v *SourceModuleValue) SetField(name string, val starlark.Value) error {
	if v.frozen {
		return fmt.Errorf("cannot set .%s on frozen %s", name, sourceModuleTypeName)
	}
	if ok, err := setContextAttr(sourceModuleTypeName, v.ctx, name, val); ok {
		return err
	}
	return &UnsupportedAttributeError{TypeName: sourceModuleTypeName, Attr: name}
}
