// SPDX-License-Identifier: MPL-2.0

package policy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/starpack/starpack/pkg/types"
)

// ErrUnknownPolicy is the sentinel error wrapped by UnknownPolicyError.
var ErrUnknownPolicy = errors.New("unknown policy")

// Builtin policy names accepted by Named and Resolve.
const (
	NameInMemoryOnly           = "in-memory-only"
	NameFilesystemRelativeOnly = "filesystem-relative-only"
	NamePreferInMemory         = "prefer-in-memory"
)

// DefaultFilesystemPrefix is the installation prefix used by the builtin
// filesystem-backed policies.
const DefaultFilesystemPrefix = "lib"

// UnknownPolicyError is returned when a policy name matches no builtin.
type UnknownPolicyError struct {
	Name string
}

// Named returns a fresh copy of the builtin policy with the given name.
func Named(name string) (*Policy, error) {
	switch name {
	case NameInMemoryOnly:
		return Default(), nil
	case NameFilesystemRelativeOnly:
		return Default().WithPlacement(FilesystemRelativeOnly(DefaultFilesystemPrefix)), nil
	case NamePreferInMemory:
		return Default().WithPlacement(PreferInMemory(DefaultFilesystemPrefix)), nil
	default:
		return nil, &UnknownPolicyError{Name: name}
	}
}

// Names returns the builtin policy names in sorted order.
func Names() []string {
	return []string{NameFilesystemRelativeOnly, NameInMemoryOnly, NamePreferInMemory}
}

// Resolve loads a policy from a builtin name or, when the value ends in
// ".cue", from a policy document at that path.
func Resolve(nameOrPath string) (*Policy, error) {
	if strings.HasSuffix(nameOrPath, ".cue") {
		return ParseFile(types.FilesystemPath(nameOrPath))
	}
	return Named(nameOrPath)
}

// Error implements the error interface for UnknownPolicyError.
func (e *UnknownPolicyError) Error() string {
	return fmt.Sprintf("unknown policy %q: builtin policies are %s, or pass a path to a .cue policy document",
		e.Name, strings.Join(Names(), ", "))
}

// Unwrap returns ErrUnknownPolicy for errors.Is() compatibility.
func (e *UnknownPolicyError) Unwrap() error { return ErrUnknownPolicy }
