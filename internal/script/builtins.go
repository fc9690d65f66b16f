// SPDX-License-Identifier: MPL-2.0

package script

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/starpack/starpack/pkg/collector"
	"github.com/starpack/starpack/pkg/resource"
	"github.com/starpack/starpack/pkg/types"
)

// predeclared builds the builtin environment bound to every script the
// session evaluates.
func (s *Session) predeclared() starlark.StringDict {
	return starlark.StringDict{
		"make_source_module":         starlark.NewBuiltin("make_source_module", s.makeSourceModule),
		"make_package_resource":      starlark.NewBuiltin("make_package_resource", s.makePackageResource),
		"make_distribution_resource": starlark.NewBuiltin("make_distribution_resource", s.makeDistributionResource),
		"make_extension_module":      starlark.NewBuiltin("make_extension_module", s.makeExtensionModule),
		"discover":                   starlark.NewBuiltin("discover", s.discover),
		"collect":                    starlark.NewBuiltin("collect", s.collect),
	}
}

func (s *Session) makeSourceModule(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		name      string
		source    string
		isPackage bool
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"name", &name, "source", &source, "is_package?", &isPackage); err != nil {
		return nil, err
	}

	rec := &resource.SourceModule{
		Name:      types.ModuleName(name),
		Source:    resource.MemoryData([]byte(source)),
		IsPackage: isPackage,
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return ToValue(rec, s.policy), nil
}

func (s *Session) makePackageResource(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pkg  string
		name string
		data starlark.Value
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"package", &pkg, "name", &name, "data", &data); err != nil {
		return nil, err
	}
	payload, err := dataBytes(b.Name(), data)
	if err != nil {
		return nil, err
	}

	rec := &resource.PackageResource{
		Package: types.ModuleName(pkg),
		Name:    name,
		Data:    resource.MemoryData(payload),
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return ToValue(rec, s.policy), nil
}

func (s *Session) makeDistributionResource(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pkg     string
		name    string
		data    starlark.Value
		version string
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"package", &pkg, "name", &name, "data", &data, "version?", &version); err != nil {
		return nil, err
	}
	payload, err := dataBytes(b.Name(), data)
	if err != nil {
		return nil, err
	}

	rec := &resource.DistributionResource{
		Package: pkg,
		Version: version,
		Name:    name,
		Data:    resource.MemoryData(payload),
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return ToValue(rec, s.policy), nil
}

func (s *Session) makeExtensionModule(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		name string
		path string
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"name", &name, "path?", &path); err != nil {
		return nil, err
	}

	rec := &resource.ExtensionModule{
		Name: types.ModuleName(name),
		Path: types.FilesystemPath(path),
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return ToValue(rec, s.policy), nil
}

// discover scans a source tree and returns the script-compatible resources
// found there, each already carrying its policy-derived context.
func (s *Session) discover(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var root string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "path", &root); err != nil {
		return nil, err
	}
	if s.discoverFn == nil {
		return nil, fmt.Errorf("%s: no scanner wired into this session", b.Name())
	}

	records, err := s.discoverFn(root)
	if err != nil {
		return nil, fmt.Errorf("discovering resources under %s: %w", root, err)
	}

	elems := make([]starlark.Value, 0, len(records))
	for _, rec := range records {
		if !Compatible(rec) {
			s.logger.Debug("skipping script-incompatible resource", "resource", rec.Description())
			continue
		}
		elems = append(elems, ToValue(rec, s.policy))
	}
	return starlark.NewList(elems), nil
}

// collect submits resource values to the session's collector. Each value's
// context is snapshotted at submission, so mutating a wrapper after
// collect() does not change what was collected.
func (s *Session) collect(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
	}

	for i, arg := range args {
		it, err := itemFromValue(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: for argument %d: %w", b.Name(), i+1, err)
		}
		added, err := s.collector.Add(it)
		if err != nil {
			return nil, fmt.Errorf("collecting %s: %w", it.Record.Description(), err)
		}
		if added {
			s.logger.Debug("collected resource", "resource", it.Record.Description())
		} else {
			s.logger.Debug("skipped excluded resource", "resource", it.Record.Description())
		}
	}
	return starlark.None, nil
}

func itemFromValue(v starlark.Value) (collector.Item, error) {
	switch v := v.(type) {
	case *SourceModuleValue:
		return collector.Item{Record: v.record, Context: v.ctx}, nil
	case *PackageResourceValue:
		return collector.Item{Record: v.record, Context: v.ctx}, nil
	case *DistributionResourceValue:
		return collector.Item{Record: v.record, Context: v.ctx}, nil
	case *ExtensionModuleValue:
		return collector.Item{Record: v.record}, nil
	default:
		return collector.Item{}, fmt.Errorf("got %s, want a resource value", v.Type())
	}
}

func dataBytes(fnName string, v starlark.Value) ([]byte, error) {
	switch v := v.(type) {
	case starlark.Bytes:
		return []byte(v), nil
	case starlark.String:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("%s: for parameter data: got %s, want string or bytes", fnName, v.Type())
	}
}
