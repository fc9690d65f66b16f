// SPDX-License-Identifier: MPL-2.0

package script

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/starpack/starpack/pkg/resource"
)

var (
	_ starlark.Value       = (*ExtensionModuleValue)(nil)
	_ starlark.HasAttrs    = (*ExtensionModuleValue)(nil)
	_ starlark.HasSetField = (*ExtensionModuleValue)(nil)
)

const extensionModuleTypeName = "ExtensionModule"

var extensionModuleIntrinsics = []string{"name"}

// ExtensionModuleValue exposes a native extension module to scripts.
// Extension modules carry no collection context, so the capability
// attributes do not exist on this kind at all: reads and writes of
// add_* names fail the same way any unknown attribute does.
type ExtensionModuleValue struct {
	record *resource.ExtensionModule
	frozen bool
}

// Type implements starlark.Value.
func (v *ExtensionModuleValue) Type() string { return extensionModuleTypeName }

// String implements starlark.Value.
func (v *ExtensionModuleValue) String() string {
	return fmt.Sprintf("%s<name=%s>", extensionModuleTypeName, v.record.Name)
}

// Freeze implements starlark.Value.
func (v *ExtensionModuleValue) Freeze() { v.frozen = true }

// Truth implements starlark.Value. A populated wrapper is always truthy.
func (v *ExtensionModuleValue) Truth() starlark.Bool { return starlark.True }

// Hash implements starlark.Value.
func (v *ExtensionModuleValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: %s", extensionModuleTypeName)
}

// Record returns the wrapped record.
func (v *ExtensionModuleValue) Record() *resource.ExtensionModule { return v.record }

// Attr implements starlark.HasAttrs.
func (v *ExtensionModuleValue) Attr(name string) (starlark.Value, error) {
	if name == "name" {
		return starlark.String(v.record.Name), nil
	}
	return nil, noSuchAttr(extensionModuleTypeName, name)
}

// AttrNames implements starlark.HasAttrs.
func (v *ExtensionModuleValue) AttrNames() []string {
	return mergeAttrNames(extensionModuleIntrinsics, false)
}

// SetField implements starlark.HasSetField. Nothing on this kind is
// assignable.
func (v *ExtensionModuleValue) SetField(name string, _ starlark.Value) error {
	if v.frozen {
		return fmt.Errorf("cannot set .%s on frozen %s", name, extensionModuleTypeName)
	}
	return &UnsupportedAttributeError{TypeName: extensionModuleTypeName, Attr: name}
}
