// SPDX-License-Identifier: MPL-2.0

package collector

import (
	"archive/zip"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/starpack/starpack/pkg/fspath"
	"github.com/starpack/starpack/pkg/platform"
	"github.com/starpack/starpack/pkg/resource"
	"github.com/starpack/starpack/pkg/types"
)

// BundleFilename is the conventional bundle file name inside an output
// directory.
const BundleFilename = "starpack.bundle.zip"

// ErrNotBundleable is returned for records that have no bundle layout.
var ErrNotBundleable = errors.New("record cannot be placed in a bundle")

// WriteBundle creates a ZIP archive holding the payload of every collected
// entry whose primary location is filesystem-relative, laid out under that
// location's prefix. In-memory entries are described by the manifest alone
// and never appear in the bundle. Returns the number of entries written.
func (c *Collector) WriteBundle(outputPath string) (written int, err error) {
	absOutputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve output path: %w", err)
	}

	zipFile, err := os.Create(absOutputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create bundle file: %w", err)
	}
	// Remove a partial bundle on failure. Registered before the close
	// defers so it runs after them.
	defer func() {
		if err != nil {
			_ = os.Remove(absOutputPath)
		}
	}()
	defer func() {
		if closeErr := zipFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	zipWriter := zip.NewWriter(zipFile)
	defer func() {
		if closeErr := zipWriter.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for _, it := range c.Items() {
		if it.Context == nil || !it.Context.Location.IsFilesystemRelative() {
			continue
		}

		relPath, pathErr := bundlePath(it.Record)
		if pathErr != nil {
			return written, pathErr
		}
		zipPath := path.Join(it.Context.Location.Prefix(), relPath)
		if reserved := reservedSegment(zipPath); reserved != "" {
			return written, fmt.Errorf("cannot bundle %s: path segment %q is a reserved filename on Windows",
				it.Record.Description(), reserved)
		}

		data, resolveErr := payload(it.Record)
		if resolveErr != nil {
			return written, fmt.Errorf("resolving payload of %s: %w", it.Record.Description(), resolveErr)
		}

		header := &zip.FileHeader{Name: zipPath, Method: zip.Deflate}
		header.SetMode(entryMode(it.Record))
		entry, createErr := zipWriter.CreateHeader(header)
		if createErr != nil {
			return written, fmt.Errorf("failed to create bundle entry %s: %w", zipPath, createErr)
		}
		if _, writeErr := entry.Write(data); writeErr != nil {
			return written, fmt.Errorf("failed to write bundle entry %s: %w", zipPath, writeErr)
		}
		written++
	}

	return written, nil
}

// bundlePath returns a record's path relative to its location prefix.
func bundlePath(rec resource.Resource) (string, error) {
	switch rec := rec.(type) {
	case *resource.SourceModule:
		return modulePath(rec.Name, rec.IsPackage), nil
	case *resource.PackageResource:
		return path.Join(packageDir(rec.Package), rec.Name), nil
	case *resource.DistributionResource:
		if rec.Version == "" {
			return "", fmt.Errorf("%s has no version for the dist-info layout", rec.Description())
		}
		dir := fmt.Sprintf("%s-%s.dist-info", strings.ReplaceAll(rec.Package, "-", "_"), rec.Version)
		return path.Join(dir, rec.Name), nil
	case *resource.ModuleBytecode:
		return bytecodePath(rec)
	case *resource.FileResource:
		return filePath(rec)
	default:
		return "", fmt.Errorf("%s: %w", rec.Description(), ErrNotBundleable)
	}
}

// modulePath lays out a module source file: "foo.bar" becomes foo/bar.py,
// or foo/bar/__init__.py when the module is a package.
func modulePath(name types.ModuleName, isPackage bool) string {
	parts := strings.Split(string(name), ".")
	if isPackage {
		return path.Join(append(parts, "__init__.py")...)
	}
	parts[len(parts)-1] += ".py"
	return path.Join(parts...)
}

// bytecodePath lays out a compiled module under __pycache__ using the
// interpreter's cache naming scheme, e.g. foo/__pycache__/bar.cpython-311.pyc
// at level 0 and bar.cpython-311.opt-1.pyc at level 1.
func bytecodePath(rec *resource.ModuleBytecode) (string, error) {
	if rec.CacheTag == "" {
		return "", fmt.Errorf("%s has no interpreter cache tag", rec.Description())
	}

	parts := strings.Split(string(rec.Name), ".")
	leaf := parts[len(parts)-1]
	dirParts := parts[:len(parts)-1]
	if rec.IsPackage {
		leaf = "__init__"
		dirParts = parts
	}

	file := leaf + "." + rec.CacheTag
	if lvl := int(rec.OptimizeLevel); lvl > 0 {
		file += fmt.Sprintf(".opt-%d", lvl)
	}
	file += ".pyc"

	segments := append(append([]string{}, dirParts...), "__pycache__", file)
	return path.Join(segments...), nil
}

// filePath cleans a raw file record's install path and rejects paths that
// would escape the bundle root.
func filePath(rec *resource.FileResource) (string, error) {
	cleaned := path.Clean(fspath.ToSlash(rec.Path))
	if path.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%s escapes the bundle root", rec.Description())
	}
	return cleaned, nil
}

func packageDir(name types.ModuleName) string {
	return strings.ReplaceAll(string(name), ".", "/")
}

// reservedSegment returns the first path segment that is reserved on
// Windows, or "" when the path is safe to materialize everywhere.
func reservedSegment(p string) string {
	for _, segment := range strings.Split(p, "/") {
		if platform.IsWindowsReservedName(segment) {
			return segment
		}
	}
	return ""
}

func payload(rec resource.Resource) ([]byte, error) {
	switch rec := rec.(type) {
	case *resource.SourceModule:
		return rec.Source.Resolve()
	case *resource.PackageResource:
		return rec.Data.Resolve()
	case *resource.DistributionResource:
		return rec.Data.Resolve()
	case *resource.ModuleBytecode:
		return rec.Data.Resolve()
	case *resource.FileResource:
		return rec.Data.Resolve()
	default:
		return nil, fmt.Errorf("%s: %w", rec.Description(), ErrNotBundleable)
	}
}

func entryMode(rec resource.Resource) fs.FileMode {
	if file, ok := rec.(*resource.FileResource); ok && file.IsExecutable {
		return 0o755
	}
	return 0o644
}
