// SPDX-License-Identifier: MPL-2.0

package script

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/starpack/starpack/pkg/policy"
	"github.com/starpack/starpack/pkg/resource"
)

// Compatible reports whether a record kind can be exposed to scripts.
// Bytecode and plain-file records exist only downstream of evaluation and
// must be filtered out before conversion.
func Compatible(rec resource.Resource) bool {
	switch rec.Kind() {
	case resource.KindSourceModule,
		resource.KindPackageResource,
		resource.KindDistributionResource,
		resource.KindExtensionModule:
		return true
	default:
		return false
	}
}

// ToValue builds the script wrapper for a compatible record, deriving its
// collection context from pol exactly once. Later policy changes do not
// touch already-built wrappers.
//
// Passing an incompatible record is a programming error, not a script
// error: callers must filter with Compatible first, so this panics rather
// than returning an error.
func ToValue(rec resource.Resource, pol *policy.Policy) starlark.Value {
	switch rec := rec.(type) {
	case *resource.SourceModule:
		return &SourceModuleValue{record: rec, ctx: pol.DeriveContext(rec)}
	case *resource.PackageResource:
		return &PackageResourceValue{record: rec, ctx: pol.DeriveContext(rec)}
	case *resource.DistributionResource:
		return &DistributionResourceValue{record: rec, ctx: pol.DeriveContext(rec)}
	case *resource.ExtensionModule:
		return &ExtensionModuleValue{record: rec}
	default:
		panic(fmt.Sprintf("incompatible resource kind %q passed to ToValue; filter with Compatible first", rec.Kind()))
	}
}
