// SPDX-License-Identifier: MPL-2.0

package collector

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/starpack/starpack/pkg/collection"
	"github.com/starpack/starpack/pkg/resource"
)

func mustAdd(t *testing.T, c *Collector, it Item) {
	t.Helper()
	added, err := c.Add(it)
	if err != nil {
		t.Fatalf("Add(%s) error = %v", it.Record.Description(), err)
	}
	if !added {
		t.Fatalf("Add(%s) = false, want true", it.Record.Description())
	}
}

func populatedCollector(t *testing.T) *Collector {
	t.Helper()
	c := New()

	mustAdd(t, c, sourceModuleItem("pkg.mod", "import os"))

	fallback := collection.FilesystemRelativeLocation("lib")
	mustAdd(t, c, Item{
		Record: &resource.PackageResource{
			Package: "pkg",
			Name:    "templates/index.html",
			Data:    resource.MemoryData([]byte("<html/>")),
		},
		Context: &collection.Context{
			Include:          true,
			Location:         collection.InMemoryLocation(),
			LocationFallback: &fallback,
		},
	})

	mustAdd(t, c, Item{
		Record: &resource.DistributionResource{
			Package: "my-dist",
			Version: "1.0",
			Name:    "METADATA",
			Data:    resource.MemoryData([]byte("Name: my-dist")),
		},
		Context: &collection.Context{
			Include:  true,
			Location: collection.FilesystemRelativeLocation("wheels"),
		},
	})

	mustAdd(t, c, Item{Record: &resource.ExtensionModule{Name: "pkg._speed"}})

	mustAdd(t, c, Item{
		Record: &resource.ModuleBytecode{
			Name:          "pkg.mod",
			OptimizeLevel: 1,
			Data:          resource.MemoryData([]byte{0xde, 0xad}),
			CacheTag:      "cpython-311",
		},
	})

	mustAdd(t, c, Item{
		Record: &resource.FileResource{
			Path:         "bin/tool",
			Data:         resource.MemoryData([]byte("#!/bin/sh\n")),
			IsExecutable: true,
		},
	})

	return c
}

func findEntry(t *testing.T, m *Manifest, kind string) ManifestEntry {
	t.Helper()
	for _, e := range m.Entries {
		if e.Kind == kind {
			return e
		}
	}
	t.Fatalf("manifest has no %q entry", kind)
	return ManifestEntry{}
}

func TestManifest_Entries(t *testing.T) {
	t.Parallel()

	m := populatedCollector(t).Manifest()
	if m.Version != manifestVersion {
		t.Errorf("Version = %d, want %d", m.Version, manifestVersion)
	}
	if len(m.Entries) != 6 {
		t.Fatalf("manifest has %d entries, want 6", len(m.Entries))
	}

	mod := findEntry(t, m, "source module")
	if mod.Name != "pkg.mod" || mod.IsPackage {
		t.Errorf("source module entry = %+v, want name pkg.mod, not a package", mod)
	}
	if mod.Location != "in-memory" || !mod.StoreSource {
		t.Errorf("source module placement = %+v, want in-memory with source", mod)
	}
	if !reflect.DeepEqual(mod.BytecodeLevels, []int{0}) {
		t.Errorf("BytecodeLevels = %v, want [0]", mod.BytecodeLevels)
	}

	res := findEntry(t, m, "package resource")
	if res.Package != "pkg" || res.Name != "templates/index.html" {
		t.Errorf("package resource entry = %+v", res)
	}
	if res.LocationFallback != "filesystem-relative:lib" {
		t.Errorf("LocationFallback = %q, want filesystem-relative:lib", res.LocationFallback)
	}

	dist := findEntry(t, m, "package distribution resource")
	if dist.Package != "my-dist" || dist.Version != "1.0" || dist.Name != "METADATA" {
		t.Errorf("distribution resource entry = %+v", dist)
	}
	if dist.Location != "filesystem-relative:wheels" {
		t.Errorf("Location = %q, want filesystem-relative:wheels", dist.Location)
	}

	ext := findEntry(t, m, "extension module")
	if ext.Name != "pkg._speed" || ext.Location != "" {
		t.Errorf("extension module entry = %+v, want no placement fields", ext)
	}

	bc := findEntry(t, m, "module bytecode")
	if bc.Name != "pkg.mod" || bc.CompiledLevel != 1 {
		t.Errorf("bytecode entry = %+v, want pkg.mod at compiled level 1", bc)
	}

	file := findEntry(t, m, "file")
	if file.Name != "bin/tool" || !file.Executable {
		t.Errorf("file entry = %+v, want executable bin/tool", file)
	}
}

func TestManifest_RoundTrip(t *testing.T) {
	t.Parallel()

	c := populatedCollector(t)
	path := filepath.Join(t.TempDir(), ManifestFilename)
	if err := c.WriteManifest(path); err != nil {
		t.Fatalf("WriteManifest() error = %v", err)
	}

	read, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if !reflect.DeepEqual(c.Manifest(), read) {
		t.Errorf("manifest round-trip mismatch:\nwrote %+v\nread  %+v", c.Manifest(), read)
	}
}

func TestReadManifest_Missing(t *testing.T) {
	t.Parallel()

	if _, err := ReadManifest(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("ReadManifest() on a missing file succeeded, want error")
	}
}
