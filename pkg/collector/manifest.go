// SPDX-License-Identifier: MPL-2.0

package collector

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/starpack/starpack/pkg/collection"
	"github.com/starpack/starpack/pkg/fspath"
	"github.com/starpack/starpack/pkg/resource"
)

// ManifestFilename is the conventional manifest file name inside an output
// directory.
const ManifestFilename = "starpack.manifest.toml"

// manifestVersion is the current manifest format version.
const manifestVersion = 1

type (
	// Manifest is the persisted description of a completed collection.
	Manifest struct {
		Version int             `toml:"version"`
		Entries []ManifestEntry `toml:"entry,omitempty"`
	}

	// ManifestEntry describes one collected resource. Which identity
	// fields are set depends on the kind; placement fields mirror the
	// entry's collection context and stay empty for kinds without one.
	ManifestEntry struct {
		Kind      string `toml:"kind"`
		Name      string `toml:"name"`
		Package   string `toml:"package,omitempty"`
		Version   string `toml:"version,omitempty"`
		IsPackage bool   `toml:"is_package,omitempty"`

		// CompiledLevel is the optimization level of an
		// already-compiled bytecode record.
		CompiledLevel int `toml:"compiled_level,omitempty"`

		Executable bool `toml:"executable,omitempty"`

		Location         string `toml:"location,omitempty"`
		LocationFallback string `toml:"location_fallback,omitempty"`
		StoreSource      bool   `toml:"store_source,omitempty"`

		// BytecodeLevels lists the optimization levels the context asks
		// to emit bytecode at.
		BytecodeLevels []int `toml:"bytecode_levels,omitempty"`
	}
)

// Manifest builds the manifest for the current collection state.
func (c *Collector) Manifest() *Manifest {
	items := c.Items()
	entries := make([]ManifestEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, manifestEntry(it))
	}
	return &Manifest{Version: manifestVersion, Entries: entries}
}

// WriteManifest encodes the current collection state as TOML at path.
func (c *Collector) WriteManifest(path string) error {
	data, err := toml.Marshal(c.Manifest())
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest reads and parses a manifest file.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest TOML: %w", err)
	}
	return &m, nil
}

func manifestEntry(it Item) ManifestEntry {
	e := ManifestEntry{Kind: it.Record.Kind().String()}

	switch rec := it.Record.(type) {
	case *resource.SourceModule:
		e.Name = string(rec.Name)
		e.IsPackage = rec.IsPackage
	case *resource.PackageResource:
		e.Package = string(rec.Package)
		e.Name = rec.Name
	case *resource.DistributionResource:
		e.Package = rec.Package
		e.Version = rec.Version
		e.Name = rec.Name
	case *resource.ExtensionModule:
		e.Name = string(rec.Name)
	case *resource.ModuleBytecode:
		e.Name = string(rec.Name)
		e.IsPackage = rec.IsPackage
		e.CompiledLevel = int(rec.OptimizeLevel)
	case *resource.FileResource:
		// Manifests must compare equal across platforms, so install paths
		// are recorded with forward slashes.
		e.Name = fspath.ToSlash(rec.Path)
		e.Executable = rec.IsExecutable
	}

	if ctx := it.Context; ctx != nil {
		e.Location = ctx.Location.String()
		if ctx.LocationFallback != nil {
			e.LocationFallback = ctx.LocationFallback.String()
		}
		e.StoreSource = ctx.StoreSource
		e.BytecodeLevels = bytecodeLevels(ctx)
	}
	return e
}

func bytecodeLevels(ctx *collection.Context) []int {
	var levels []int
	if ctx.OptimizeLevelZero {
		levels = append(levels, 0)
	}
	if ctx.OptimizeLevelOne {
		levels = append(levels, 1)
	}
	if ctx.OptimizeLevelTwo {
		levels = append(levels, 2)
	}
	return levels
}
