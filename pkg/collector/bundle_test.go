// SPDX-License-Identifier: MPL-2.0

package collector

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starpack/starpack/pkg/collection"
	"github.com/starpack/starpack/pkg/resource"
)

func TestBundlePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rec  resource.Resource
		want string
	}{
		{
			name: "top-level module",
			rec:  &resource.SourceModule{Name: "foo"},
			want: "foo.py",
		},
		{
			name: "nested module",
			rec:  &resource.SourceModule{Name: "foo.bar"},
			want: "foo/bar.py",
		},
		{
			name: "package init",
			rec:  &resource.SourceModule{Name: "foo.bar", IsPackage: true},
			want: "foo/bar/__init__.py",
		},
		{
			name: "package resource",
			rec:  &resource.PackageResource{Package: "foo.bar", Name: "templates/index.html"},
			want: "foo/bar/templates/index.html",
		},
		{
			name: "distribution resource",
			rec:  &resource.DistributionResource{Package: "my-dist", Version: "1.0", Name: "METADATA"},
			want: "my_dist-1.0.dist-info/METADATA",
		},
		{
			name: "bytecode level zero",
			rec:  &resource.ModuleBytecode{Name: "foo.bar", CacheTag: "cpython-311"},
			want: "foo/__pycache__/bar.cpython-311.pyc",
		},
		{
			name: "bytecode level two",
			rec:  &resource.ModuleBytecode{Name: "foo.bar", OptimizeLevel: 2, CacheTag: "cpython-311"},
			want: "foo/__pycache__/bar.cpython-311.opt-2.pyc",
		},
		{
			name: "package bytecode",
			rec:  &resource.ModuleBytecode{Name: "foo", OptimizeLevel: 1, IsPackage: true, CacheTag: "cpython-311"},
			want: "foo/__pycache__/__init__.cpython-311.opt-1.pyc",
		},
		{
			name: "plain file",
			rec:  &resource.FileResource{Path: "assets/logo.png"},
			want: "assets/logo.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := bundlePath(tt.rec)
			if err != nil {
				t.Fatalf("bundlePath() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("bundlePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBundlePath_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rec  resource.Resource
	}{
		{
			name: "distribution without version",
			rec:  &resource.DistributionResource{Package: "my-dist", Name: "METADATA"},
		},
		{
			name: "bytecode without cache tag",
			rec:  &resource.ModuleBytecode{Name: "foo"},
		},
		{
			name: "file escaping the root",
			rec:  &resource.FileResource{Path: "../evil"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := bundlePath(tt.rec); err == nil {
				t.Error("bundlePath() succeeded, want error")
			}
		})
	}

	t.Run("extension module", func(t *testing.T) {
		t.Parallel()

		_, err := bundlePath(&resource.ExtensionModule{Name: "foo"})
		if !errors.Is(err, ErrNotBundleable) {
			t.Errorf("bundlePath() error = %v, want ErrNotBundleable", err)
		}
	})
}

func TestWriteBundle(t *testing.T) {
	t.Parallel()

	c := New()
	mustAdd(t, c, Item{
		Record: &resource.SourceModule{
			Name:   "foo.bar",
			Source: resource.MemoryData([]byte("import baz")),
		},
		Context: &collection.Context{
			Include:  true,
			Location: collection.FilesystemRelativeLocation("lib"),
		},
	})
	mustAdd(t, c, sourceModuleItem("mem.only", "pass"))
	mustAdd(t, c, Item{Record: &resource.ExtensionModule{Name: "pkg._speed"}})

	outputPath := filepath.Join(t.TempDir(), BundleFilename)
	written, err := c.WriteBundle(outputPath)
	if err != nil {
		t.Fatalf("WriteBundle() error = %v", err)
	}
	if written != 1 {
		t.Errorf("WriteBundle() wrote %d entries, want 1", written)
	}

	reader, err := zip.OpenReader(outputPath)
	if err != nil {
		t.Fatalf("opening bundle: %v", err)
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			t.Errorf("closing bundle: %v", closeErr)
		}
	}()

	if len(reader.File) != 1 {
		t.Fatalf("bundle holds %d files, want 1", len(reader.File))
	}
	entry := reader.File[0]
	if entry.Name != "lib/foo/bar.py" {
		t.Errorf("bundle entry = %q, want lib/foo/bar.py", entry.Name)
	}

	rc, err := entry.Open()
	if err != nil {
		t.Fatalf("opening bundle entry: %v", err)
	}
	data, err := io.ReadAll(rc)
	if closeErr := rc.Close(); closeErr != nil {
		t.Fatalf("closing bundle entry: %v", closeErr)
	}
	if err != nil {
		t.Fatalf("reading bundle entry: %v", err)
	}
	if string(data) != "import baz" {
		t.Errorf("bundle payload = %q, want %q", data, "import baz")
	}
}

func TestWriteBundle_EmptyPrefix(t *testing.T) {
	t.Parallel()

	c := New()
	mustAdd(t, c, Item{
		Record: &resource.SourceModule{
			Name:   "foo",
			Source: resource.MemoryData([]byte("pass")),
		},
		Context: &collection.Context{
			Include:  true,
			Location: collection.FilesystemRelativeLocation(""),
		},
	})

	outputPath := filepath.Join(t.TempDir(), BundleFilename)
	if _, err := c.WriteBundle(outputPath); err != nil {
		t.Fatalf("WriteBundle() error = %v", err)
	}

	reader, err := zip.OpenReader(outputPath)
	if err != nil {
		t.Fatalf("opening bundle: %v", err)
	}
	defer func() { _ = reader.Close() }()

	if len(reader.File) != 1 || reader.File[0].Name != "foo.py" {
		t.Errorf("bundle entries = %v, want exactly foo.py at the root", bundleNames(reader))
	}
}

func TestWriteBundle_ReservedName(t *testing.T) {
	t.Parallel()

	c := New()
	mustAdd(t, c, Item{
		Record: &resource.SourceModule{
			Name:   "con",
			Source: resource.MemoryData([]byte("pass")),
		},
		Context: &collection.Context{
			Include:  true,
			Location: collection.FilesystemRelativeLocation("lib"),
		},
	})

	outputPath := filepath.Join(t.TempDir(), BundleFilename)
	_, err := c.WriteBundle(outputPath)
	if err == nil {
		t.Fatal("WriteBundle() succeeded for a reserved filename, want error")
	}
	if !strings.Contains(err.Error(), "reserved") {
		t.Errorf("error %q does not mention the reserved filename", err)
	}

	// The partial bundle must not be left behind.
	if _, statErr := os.Stat(outputPath); !os.IsNotExist(statErr) {
		t.Errorf("partial bundle left on disk after failure (stat err = %v)", statErr)
	}
}

func bundleNames(reader *zip.ReadCloser) []string {
	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	return names
}
