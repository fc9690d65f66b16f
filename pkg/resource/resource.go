// SPDX-License-Identifier: MPL-2.0

package resource

// Kind identifies a record variant. The zero value is invalid.
type Kind int

const (
	KindInvalid Kind = iota
	KindSourceModule
	KindPackageResource
	KindDistributionResource
	KindExtensionModule
	KindModuleBytecode
	KindFile
)

// String returns a human-readable name for the Kind.
func (k Kind) String() string {
	switch k {
	case KindSourceModule:
		return "source module"
	case KindPackageResource:
		return "package resource"
	case KindDistributionResource:
		return "package distribution resource"
	case KindExtensionModule:
		return "extension module"
	case KindModuleBytecode:
		return "module bytecode"
	case KindFile:
		return "file"
	default:
		return "invalid"
	}
}

// Resource is the closed set of record variants. Implementations live in
// this package only; the unexported sigil method keeps the set closed so
// kind dispatch stays exhaustive.
type Resource interface {
	// Kind returns the record variant.
	Kind() Kind

	// Description returns a short human-readable identity for logs and
	// error messages, e.g. "source module foo.bar".
	Description() string

	// Validate returns an error if the record violates its own
	// invariants.
	Validate() error

	resourceSigil()
}
