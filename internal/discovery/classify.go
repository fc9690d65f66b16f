// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/starpack/starpack/pkg/resource"
	"github.com/starpack/starpack/pkg/types"
)

// classifyFile maps one discovered file onto a resource record. A nil
// diagnostic means the record is usable; a non-nil diagnostic means the
// file was skipped and the record is nil.
//
// Classification order matters: distribution metadata directories claim
// every file inside them, then __pycache__ directories claim bytecode,
// then source and extension suffixes apply, and whatever remains becomes
// package data (inside a package) or a plain file.
func classifyFile(f fileEntry, packageDirs map[string]bool) (resource.Resource, *Diagnostic) {
	dirParts, base := splitRel(f.rel)

	if idx := distributionDirIndex(dirParts); idx >= 0 {
		pkg, version := parseDistributionDir(dirParts[idx])
		return &resource.DistributionResource{
			Package: pkg,
			Version: version,
			Name:    joinRel(dirParts[idx+1:], base),
			Data:    resource.FileData(types.FilesystemPath(f.abs)),
		}, nil
	}

	if n := len(dirParts); n > 0 && dirParts[n-1] == "__pycache__" {
		return classifyBytecode(f, dirParts[:n-1], base)
	}

	switch {
	case strings.HasSuffix(base, ".py"):
		return classifySource(f, dirParts, base)
	case strings.HasSuffix(base, ".so"), strings.HasSuffix(base, ".pyd"):
		return &resource.ExtensionModule{
			Name: moduleName(dirParts, extensionStem(base)),
			Path: types.FilesystemPath(f.abs),
		}, nil
	}

	if pkgParts, rest, ok := nearestPackage(dirParts, packageDirs); ok {
		return &resource.PackageResource{
			Package: moduleName(pkgParts, ""),
			Name:    joinRel(rest, base),
			Data:    resource.FileData(types.FilesystemPath(f.abs)),
		}, nil
	}
	return &resource.FileResource{
		Path:         types.FilesystemPath(f.rel),
		Data:         resource.FileData(types.FilesystemPath(f.abs)),
		IsExecutable: f.executable,
	}, nil
}

// classifySource turns a .py file into a source module record. An
// __init__.py names its directory's package; every other file names a
// module after its path.
func classifySource(f fileEntry, dirParts []string, base string) (resource.Resource, *Diagnostic) {
	if base == "__init__.py" {
		if len(dirParts) == 0 {
			return nil, &Diagnostic{
				Severity: SeverityWarning,
				Code:     "root_init_skipped",
				Message:  "skipping __init__.py at the scan root: the root itself cannot be a package",
				Path:     f.abs,
			}
		}
		return &resource.SourceModule{
			Name:      moduleName(dirParts, ""),
			Source:    resource.FileData(types.FilesystemPath(f.abs)),
			IsPackage: true,
		}, nil
	}
	return &resource.SourceModule{
		Name:   moduleName(dirParts, strings.TrimSuffix(base, ".py")),
		Source: resource.FileData(types.FilesystemPath(f.abs)),
	}, nil
}

// classifyBytecode turns a __pycache__ entry into a bytecode record.
// pkgParts are the directory segments above the __pycache__ directory.
func classifyBytecode(f fileEntry, pkgParts []string, base string) (resource.Resource, *Diagnostic) {
	if !strings.HasSuffix(base, ".pyc") {
		return nil, &Diagnostic{
			Severity: SeverityWarning,
			Code:     "pycache_entry_skipped",
			Message:  fmt.Sprintf("skipping %s: only .pyc files are expected inside __pycache__", f.rel),
			Path:     f.abs,
		}
	}
	mod, tag, level, ok := parseBytecodeName(base)
	if !ok {
		return nil, &Diagnostic{
			Severity: SeverityWarning,
			Code:     "bytecode_name_skipped",
			Message:  fmt.Sprintf("skipping %s: file name does not follow the <module>.<cache-tag>[.opt-N].pyc layout", f.rel),
			Path:     f.abs,
		}
	}
	isPackage := mod == "__init__"
	if isPackage && len(pkgParts) == 0 {
		return nil, &Diagnostic{
			Severity: SeverityWarning,
			Code:     "bytecode_name_skipped",
			Message:  fmt.Sprintf("skipping %s: __init__ bytecode at the scan root has no package", f.rel),
			Path:     f.abs,
		}
	}
	name := moduleName(pkgParts, mod)
	if isPackage {
		name = moduleName(pkgParts, "")
	}
	return &resource.ModuleBytecode{
		Name:          name,
		OptimizeLevel: level,
		Data:          resource.FileData(types.FilesystemPath(f.abs)),
		IsPackage:     isPackage,
		CacheTag:      tag,
	}, nil
}

// parseBytecodeName splits "<module>.<cache-tag>[.opt-N].pyc" into its
// parts. Level 0 bytecode carries no opt suffix.
func parseBytecodeName(base string) (mod, tag string, level types.OptimizeLevel, ok bool) {
	stem := strings.TrimSuffix(base, ".pyc")
	parts := strings.Split(stem, ".")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
		return "", "", 0, false
	}
	if len(parts) == 3 {
		rest, found := strings.CutPrefix(parts[2], "opt-")
		if !found {
			return "", "", 0, false
		}
		n, err := strconv.Atoi(rest)
		if err != nil {
			return "", "", 0, false
		}
		level = types.OptimizeLevel(n)
	}
	return parts[0], parts[1], level, true
}

// extensionStem strips the library suffix and any interpreter ABI tag:
// "_speed.cpython-311-x86_64-linux-gnu.so" reduces to "_speed".
func extensionStem(base string) string {
	stem := strings.TrimSuffix(strings.TrimSuffix(base, ".so"), ".pyd")
	if idx := strings.Index(stem, "."); idx >= 0 {
		return stem[:idx]
	}
	return stem
}

// distributionDirIndex returns the index of the first directory segment
// naming a distribution metadata directory, or -1.
func distributionDirIndex(dirParts []string) int {
	for i, part := range dirParts {
		if strings.HasSuffix(part, ".dist-info") || strings.HasSuffix(part, ".egg-info") {
			return i
		}
	}
	return -1
}

// parseDistributionDir splits a metadata directory name such as
// "my_dist-1.0.dist-info" into the distribution name and version. Names
// may themselves contain dashes, so the version is everything after the
// last one; a missing version segment yields an empty version.
func parseDistributionDir(dir string) (pkg, version string) {
	stem := strings.TrimSuffix(strings.TrimSuffix(dir, ".dist-info"), ".egg-info")
	if idx := strings.LastIndex(stem, "-"); idx >= 0 {
		return stem[:idx], stem[idx+1:]
	}
	return stem, ""
}

// nearestPackage finds the deepest enclosing package directory for a file,
// returning the package's segments and the remaining segments between the
// package and the file.
func nearestPackage(dirParts []string, packageDirs map[string]bool) (pkg, rest []string, ok bool) {
	for i := len(dirParts); i > 0; i-- {
		if packageDirs[strings.Join(dirParts[:i], "/")] {
			return dirParts[:i], dirParts[i:], true
		}
	}
	return nil, nil, false
}

// splitRel splits a forward-slash relative path into directory segments
// and the file's base name.
func splitRel(rel string) (dirParts []string, base string) {
	parts := strings.Split(rel, "/")
	return parts[:len(parts)-1], parts[len(parts)-1]
}

// joinRel joins directory segments and a base name back into a
// forward-slash relative path.
func joinRel(parts []string, base string) string {
	if len(parts) == 0 {
		return base
	}
	return strings.Join(parts, "/") + "/" + base
}

// moduleName joins directory segments and an optional leaf into a dotted
// module name. An empty leaf names the package of the segments themselves.
func moduleName(dirParts []string, leaf string) types.ModuleName {
	segs := make([]string, 0, len(dirParts)+1)
	segs = append(segs, dirParts...)
	if leaf != "" {
		segs = append(segs, leaf)
	}
	return types.ModuleName(strings.Join(segs, "."))
}
