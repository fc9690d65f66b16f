// SPDX-License-Identifier: MPL-2.0

package resource

import (
	"fmt"

	"github.com/starpack/starpack/pkg/types"
)

// ModuleBytecode describes already-compiled bytecode for a module at a
// single optimization level. Bytecode records are produced downstream of
// script evaluation (or found pre-compiled on disk); configuration scripts
// never see them directly.
type ModuleBytecode struct {
	// Name is the fully qualified, dotted module name.
	Name types.ModuleName

	// OptimizeLevel is the optimization level the bytecode was compiled
	// at.
	OptimizeLevel types.OptimizeLevel

	// Data is the compiled bytecode payload.
	Data SourceData

	// IsPackage reports whether the module is a package (__init__).
	IsPackage bool

	// CacheTag is the interpreter cache tag embedded in the compiled file
	// name (e.g. "cpython-311").
	CacheTag string
}

// Kind returns KindModuleBytecode.
func (m *ModuleBytecode) Kind() Kind { return KindModuleBytecode }

// Description identifies the record in logs and error messages.
func (m *ModuleBytecode) Description() string {
	return fmt.Sprintf("module bytecode %s (level %s)", m.Name, m.OptimizeLevel)
}

// Validate returns an error if the module name or optimization level is
// invalid.
func (m *ModuleBytecode) Validate() error {
	if err := m.Name.Validate(); err != nil {
		return err
	}
	return m.OptimizeLevel.Validate()
}

func (*ModuleBytecode) resourceSigil() {}
