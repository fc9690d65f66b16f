// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/starpack/starpack/pkg/resource"
)

// Scanner walks Python source trees and turns their files into resource
// records.
type Scanner struct {
	logger *slog.Logger
}

// NewScanner returns a Scanner that traces skip decisions to the given
// logger. A nil logger falls back to slog.Default().
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{logger: logger}
}

// fileEntry is one regular file found during the walk, with its path
// relative to the scan root in forward-slash form.
type fileEntry struct {
	rel        string
	abs        string
	executable bool
}

// Scan walks the tree rooted at root and classifies every regular file
// into a resource record. Hidden entries (dot-prefixed names) are skipped.
// Non-fatal problems, such as unreadable entries or files whose names
// cannot be parsed, come back as diagnostics instead of aborting the walk.
// Records are sorted by description so repeated scans of the same tree
// yield identical output.
func (s *Scanner) Scan(root string) ([]resource.Resource, []Diagnostic, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve scan root %q: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("scan root %s is not a directory", absRoot)
	}

	files, packageDirs, diagnostics := s.walkTree(absRoot)

	records := make([]resource.Resource, 0, len(files))
	for _, f := range files {
		rec, diag := classifyFile(f, packageDirs)
		if diag != nil {
			diagnostics = append(diagnostics, *diag)
			continue
		}
		if err := rec.Validate(); err != nil {
			diagnostics = append(diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     "resource_invalid",
				Message:  fmt.Sprintf("skipping %s: %v", f.rel, err),
				Path:     f.abs,
				Cause:    err,
			})
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Description() < records[j].Description()
	})
	s.logger.Debug("scan complete",
		"root", absRoot,
		"records", len(records),
		"diagnostics", len(diagnostics))
	return records, diagnostics, nil
}

// Discover scans root and folds diagnostics into the logger, returning
// only the records. It matches the callback shape script sessions expect
// for their discover builtin.
func (s *Scanner) Discover(root string) ([]resource.Resource, error) {
	records, diagnostics, err := s.Scan(root)
	if err != nil {
		return nil, err
	}
	for _, d := range diagnostics {
		switch d.Severity {
		case SeverityError:
			s.logger.Error(d.Message, "code", d.Code, "path", d.Path)
		default:
			s.logger.Warn(d.Message, "code", d.Code, "path", d.Path)
		}
	}
	return records, nil
}

// walkTree gathers every regular file under absRoot along with the set of
// package directories (those containing an __init__.py), keyed by relative
// forward-slash path. Walk failures on individual entries become
// diagnostics; the walk itself never fails since the root was already
// verified.
func (s *Scanner) walkTree(absRoot string) ([]fileEntry, map[string]bool, []Diagnostic) {
	var (
		files       []fileEntry
		diagnostics []Diagnostic
	)
	packageDirs := make(map[string]bool)

	_ = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			diagnostics = append(diagnostics, Diagnostic{
				Severity: SeverityError,
				Code:     "entry_unreadable",
				Message:  fmt.Sprintf("cannot read %s: %v", path, walkErr),
				Path:     path,
				Cause:    walkErr,
			})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == absRoot {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			s.logger.Debug("skipping irregular entry", "path", path)
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			diagnostics = append(diagnostics, Diagnostic{
				Severity: SeverityError,
				Code:     "entry_unreadable",
				Message:  fmt.Sprintf("cannot relativize %s: %v", path, err),
				Path:     path,
				Cause:    err,
			})
			return nil
		}
		rel = filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			diagnostics = append(diagnostics, Diagnostic{
				Severity: SeverityError,
				Code:     "entry_unreadable",
				Message:  fmt.Sprintf("cannot stat %s: %v", path, err),
				Path:     path,
				Cause:    err,
			})
			return nil
		}

		if d.Name() == "__init__.py" {
			if dir := parentDir(rel); dir != "" {
				packageDirs[dir] = true
			}
		}
		files = append(files, fileEntry{
			rel:        rel,
			abs:        path,
			executable: info.Mode()&0o111 != 0,
		})
		return nil
	})

	return files, packageDirs, diagnostics
}

// parentDir returns the forward-slash directory of a relative path, or ""
// for entries directly under the scan root.
func parentDir(rel string) string {
	idx := strings.LastIndex(rel, "/")
	if idx < 0 {
		return ""
	}
	return rel[:idx]
}
