// SPDX-License-Identifier: MPL-2.0

package resource

import (
	"fmt"

	"github.com/starpack/starpack/pkg/types"
)

// ExtensionModule describes a native extension module (a compiled shared
// library importable by the interpreter). Extension modules are built by
// external toolchains; placement is dictated by the linking model, so they
// carry no collection context.
type ExtensionModule struct {
	// Name is the fully qualified, dotted module name.
	Name types.ModuleName

	// Path is the shared library file on disk, when known.
	Path types.FilesystemPath
}

// Kind returns KindExtensionModule.
func (m *ExtensionModule) Kind() Kind { return KindExtensionModule }

// Description identifies the record in logs and error messages.
func (m *ExtensionModule) Description() string {
	return fmt.Sprintf("extension module %s", m.Name)
}

// Validate returns an error if the module name is invalid.
func (m *ExtensionModule) Validate() error {
	return m.Name.Validate()
}

func (*ExtensionModule) resourceSigil() {}
