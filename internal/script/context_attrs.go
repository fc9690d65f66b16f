// SPDX-License-Identifier: MPL-2.0

package script

import (
	"fmt"
	"sort"

	"go.starlark.net/starlark"

	"github.com/starpack/starpack/pkg/collection"
)

// Collection-context attribute names shared by every context-bearing
// wrapper kind.
const (
	attrAddInclude          = "add_include"
	attrAddLocation         = "add_location"
	attrAddLocationFallback = "add_location_fallback"
	attrAddSource           = "add_source"
	attrAddOptimizeZero     = "add_bytecode_optimization_level_zero"
	attrAddOptimizeOne      = "add_bytecode_optimization_level_one"
	attrAddOptimizeTwo      = "add_bytecode_optimization_level_two"
)

// contextAttrNames lists the capability attribute names. A context-bearing
// wrapper kind always advertises all of them, whether or not its context
// is currently populated.
var contextAttrNames = []string{
	attrAddInclude,
	attrAddLocation,
	attrAddLocationFallback,
	attrAddSource,
	attrAddOptimizeZero,
	attrAddOptimizeOne,
	attrAddOptimizeTwo,
}

// contextAttr reads a capability attribute from ctx. The second result
// reports whether name is a capability attribute at all. Reads on an
// absent context yield None rather than an error: the attribute names
// belong to the wrapper kind, not to the context's presence.
func contextAttr(ctx *collection.Context, name string) (starlark.Value, bool) {
	switch name {
	case attrAddInclude:
		if ctx == nil {
			return starlark.None, true
		}
		return starlark.Bool(ctx.Include), true
	case attrAddLocation:
		if ctx == nil {
			return starlark.None, true
		}
		return starlark.String(ctx.Location.String()), true
	case attrAddLocationFallback:
		if ctx == nil || ctx.LocationFallback == nil {
			return starlark.None, true
		}
		return starlark.String(ctx.LocationFallback.String()), true
	case attrAddSource:
		if ctx == nil {
			return starlark.None, true
		}
		return starlark.Bool(ctx.StoreSource), true
	case attrAddOptimizeZero:
		if ctx == nil {
			return starlark.None, true
		}
		return starlark.Bool(ctx.OptimizeLevelZero), true
	case attrAddOptimizeOne:
		if ctx == nil {
			return starlark.None, true
		}
		return starlark.Bool(ctx.OptimizeLevelOne), true
	case attrAddOptimizeTwo:
		if ctx == nil {
			return starlark.None, true
		}
		return starlark.Bool(ctx.OptimizeLevelTwo), true
	default:
		return nil, false
	}
}

// setContextAttr writes a capability attribute on ctx. The first result
// reports whether name is a capability attribute, independent of whether
// the write succeeded. Writes to an absent context fail with
// MissingContextError. Every write is all-or-nothing: a failed decode
// leaves ctx untouched.
//
// Boolean attributes coerce their value through Starlark truthiness, so
// `mod.add_include = 1` behaves like `mod.add_include = True`. Location
// attributes require strings; the primary location additionally rejects
// "default", because a context's location must stay concrete.
func setContextAttr(typeName string, ctx *collection.Context, name string, v starlark.Value) (bool, error) {
	switch name {
	case attrAddInclude, attrAddSource, attrAddOptimizeZero, attrAddOptimizeOne, attrAddOptimizeTwo:
		if ctx == nil {
			return true, &MissingContextError{TypeName: typeName, Attr: name}
		}
		flag := bool(v.Truth())
		switch name {
		case attrAddInclude:
			ctx.Include = flag
		case attrAddSource:
			ctx.StoreSource = flag
		case attrAddOptimizeZero:
			ctx.OptimizeLevelZero = flag
		case attrAddOptimizeOne:
			ctx.OptimizeLevelOne = flag
		case attrAddOptimizeTwo:
			ctx.OptimizeLevelTwo = flag
		}
		return true, nil

	case attrAddLocation:
		if ctx == nil {
			return true, &MissingContextError{TypeName: typeName, Attr: name}
		}
		s, ok := starlark.AsString(v)
		if !ok {
			return true, &collection.InvalidLocationError{Value: v.String()}
		}
		loc, err := collection.ParseLocation(s)
		if err != nil {
			return true, err
		}
		ctx.Location = loc
		return true, nil

	case attrAddLocationFallback:
		if ctx == nil {
			return true, &MissingContextError{TypeName: typeName, Attr: name}
		}
		if _, isNone := v.(starlark.NoneType); isNone {
			ctx.LocationFallback = nil
			return true, nil
		}
		s, ok := starlark.AsString(v)
		if !ok {
			return true, &collection.InvalidLocationError{Value: v.String(), AllowDefault: true}
		}
		loc, err := collection.ParseOptionalLocation(s)
		if err != nil {
			return true, err
		}
		ctx.LocationFallback = loc
		return true, nil

	default:
		return false, nil
	}
}

// mergeAttrNames returns the sorted union of a wrapper's intrinsic
// attribute names and, for context-bearing kinds, the capability names.
// Starlark's AttrNames contract requires a sorted slice.
func mergeAttrNames(intrinsics []string, withContext bool) []string {
	names := make([]string, 0, len(intrinsics)+len(contextAttrNames))
	names = append(names, intrinsics...)
	if withContext {
		names = append(names, contextAttrNames...)
	}
	sort.Strings(names)
	return names
}

// noSuchAttr builds the error for reads of unknown attributes. Returning
// starlark.NoSuchAttrError keeps hasattr()/getattr() semantics intact.
func noSuchAttr(typeName, name string) error {
	return starlark.NoSuchAttrError(fmt.Sprintf("%s has no .%s attribute", typeName, name))
}
