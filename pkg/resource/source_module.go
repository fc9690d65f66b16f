// SPDX-License-Identifier: MPL-2.0

package resource

import (
	"fmt"

	"github.com/starpack/starpack/pkg/types"
)

// SourceModule describes the source text of a single Python module.
type SourceModule struct {
	// Name is the fully qualified, dotted module name.
	Name types.ModuleName

	// Source is the module's source text.
	Source SourceData

	// IsPackage reports whether the module is a package (__init__).
	IsPackage bool

	// CacheTag is the interpreter cache tag used when naming compiled
	// bytecode for this module (e.g. "cpython-311").
	CacheTag string
}

// Kind returns KindSourceModule.
func (m *SourceModule) Kind() Kind { return KindSourceModule }

// Description identifies the record in logs and error messages.
func (m *SourceModule) Description() string {
	return fmt.Sprintf("source module %s", m.Name)
}

// Validate returns an error if the module name is invalid.
func (m *SourceModule) Validate() error {
	return m.Name.Validate()
}

// TopLevelPackage returns the first dotted segment of the module name.
func (m *SourceModule) TopLevelPackage() types.ModuleName {
	name := m.Name
	for name.Package() != "" {
		name = name.Package()
	}
	return name
}

func (*SourceModule) resourceSigil() {}
