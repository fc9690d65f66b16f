// SPDX-License-Identifier: MPL-2.0

// Package watch provides debounced filesystem watching for packaging
// rebuild loops.
//
// A Watcher monitors a project tree and invokes a rebuild callback after a
// quiet period, so that a burst of events (an editor writing then renaming
// a temp file, a formatter touching a whole package) coalesces into a
// single rebuild with the full set of changed paths.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the quiet period after the last filesystem event before
// the rebuild callback fires.
const defaultDebounce = 500 * time.Millisecond

// defaultIgnores lists patterns that never trigger rebuilds. Beyond the
// usual VCS and editor noise, bytecode caches are excluded because CPython
// regenerates them whenever the interpreter runs: the .py edit that caused
// the regeneration already triggered the rebuild. Virtualenvs are excluded
// because their tens of thousands of directories can exhaust the OS watch
// descriptor budget; a site-packages tree worth watching should be named
// explicitly as the watch root.
var defaultIgnores = []string{
	"**/.git/**",
	"**/__pycache__/**",
	"**/.venv/**",
	"**/venv/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

// ErrInvalidWatchPattern is the sentinel error wrapped by InvalidPatternError.
var ErrInvalidWatchPattern = errors.New("invalid watch pattern")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Root is the directory to watch. Patterns and reported paths are
		// relative to it. Empty means the current working directory.
		Root string

		// Patterns are doublestar globs (e.g. "**/*.py") selecting which
		// files trigger the callback. Empty means every non-ignored file.
		Patterns []string

		// Ignore are additional doublestar globs for paths that must never
		// trigger the callback, merged with the built-in defaults. Callers
		// that rebuild into a directory under Root must ignore it here or
		// the outputs retrigger the watcher indefinitely.
		Ignore []string

		// Debounce is the quiet period before the callback fires. Zero or
		// negative falls back to defaultDebounce.
		Debounce time.Duration

		// OnChange is invoked after the debounce window closes with the
		// deduplicated changed paths, relative to Root. A nil callback is a
		// no-op. Errors are logged and watching continues, so a broken
		// build does not end the loop.
		OnChange func(ctx context.Context, changed []string) error

		// Logger receives skip notices, non-fatal watcher errors, and
		// callback failures. Nil means slog.Default().
		Logger *slog.Logger
	}

	// InvalidPatternError reports a glob that doublestar cannot parse. Kind
	// is "watch" or "ignore" depending on which Config field held it.
	InvalidPatternError struct {
		Kind    string
		Pattern string
		Err     error
	}

	// Watcher monitors a tree and fires a debounced callback when matching
	// files change. Run must be called exactly once.
	Watcher struct {
		fsw      *fsnotify.Watcher
		root     string
		patterns []string
		ignores  []string
		debounce time.Duration
		onChange func(ctx context.Context, changed []string) error
		logger   *slog.Logger
		started  atomic.Bool
	}
)

// Error implements the error interface for InvalidPatternError.
func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid %s pattern %q: %v", e.Kind, e.Pattern, e.Err)
}

// Unwrap returns ErrInvalidWatchPattern plus the cause so errors.Is and
// errors.As reach both.
func (e *InvalidPatternError) Unwrap() []error {
	return []error{ErrInvalidWatchPattern, e.Err}
}

// New creates a Watcher from cfg. It resolves Root to an absolute path,
// validates all patterns, and registers every non-ignored directory under
// Root with the underlying fsnotify watcher.
func New(cfg Config) (*Watcher, error) {
	root := cfg.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		root = wd
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve root: %w", err)
	}

	// Invalid globs fail here rather than silently matching nothing at
	// event time.
	if err := validatePatterns(cfg.Patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ignores := make([]string, 0, len(defaultIgnores)+len(cfg.Ignore))
	ignores = append(ignores, defaultIgnores...)
	ignores = append(ignores, cfg.Ignore...)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		root:     absRoot,
		patterns: cfg.Patterns,
		ignores:  ignores,
		debounce: debounce,
		onChange: cfg.OnChange,
		logger:   logger,
	}

	if err := w.addTree(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("failed to close watcher after init failure", "error", closeErr)
		}
		return nil, err
	}
	return w, nil
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks as
// matching files change. It returns nil on clean cancellation and an error
// only for unrecoverable watcher failures. A second call returns an error
// immediately.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		busy    atomic.Bool
	)

	// fire drains the pending set and invokes the callback. It can be
	// scheduled by time.AfterFunc after ctx is cancelled, so it re-checks
	// ctx first. The busy guard keeps a rebuild that outlasts the debounce
	// window from overlapping the next one: the later fire is skipped and
	// the timer re-armed so the accumulated changes are not lost.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !busy.CompareAndSwap(false, true) {
			w.logger.Warn("previous rebuild still running, deferring changed files")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer busy.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Collect(maps.Keys(pending))
		clear(pending)
		mu.Unlock()
		slices.Sort(changed)

		if w.onChange == nil {
			return
		}
		if err := w.onChange(ctx, changed); err != nil {
			w.logger.Error("rebuild failed", "error", err)
		}
	}

	defer func() {
		mu.Lock()
		localTimer := timer
		mu.Unlock()
		if localTimer != nil && !localTimer.Stop() {
			select {
			case <-localTimer.C:
			default:
			}
		}
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.logger.Warn("failed to close fsnotify watcher", "error", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}

			rel, err := filepath.Rel(w.root, evt.Name)
			if err != nil {
				rel = evt.Name
			}
			if w.ignored(rel) || !w.matches(rel) {
				continue
			}

			// Extend the recursive watch to directories created after
			// startup, e.g. a new package directory.
			if evt.Has(fsnotify.Create) {
				w.maybeWatchDir(evt.Name)
			}

			mu.Lock()
			pending[rel] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			// Resource exhaustion means the watcher cannot recover; see
			// watcher_fatal_*.go for the per-platform classification.
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "error", err)
		}
	}
}

// addTree walks the root and registers every non-ignored directory. All
// directories are registered regardless of watch patterns; patterns filter
// events, not watches, so files created later in existing directories are
// still seen.
func (w *Watcher) addTree() error {
	walkErr := filepath.WalkDir(w.root, func(path string, d os.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			// Unreadable subtrees (permission errors and the like) are
			// skipped rather than aborting the walk.
			w.logger.Warn("skipping unwatchable path", "path", path, "error", walkDirErr)
			return nil //nolint:nilerr // intentional skip
		}
		if !d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			return nil //nolint:nilerr // skip paths that cannot be made relative
		}
		if w.ignored(rel) || w.ignored(rel+"/") {
			return filepath.SkipDir
		}

		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk tree: %w", walkErr)
	}
	return nil
}

// maybeWatchDir registers path if it is a non-ignored directory.
func (w *Watcher) maybeWatchDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return
	}
	if w.ignored(rel) || w.ignored(rel+"/") {
		return
	}
	if addErr := w.fsw.Add(path); addErr != nil {
		w.logger.Warn("failed to watch new directory", "path", path, "error", addErr)
	}
}

// ignored reports whether rel (relative to the root) matches any ignore
// pattern. Matching is done on forward slashes so patterns behave the same
// on Windows.
func (w *Watcher) ignored(rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range w.ignores {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

// matches reports whether rel matches at least one watch pattern. With no
// patterns configured, everything matches.
func (w *Watcher) matches(rel string) bool {
	if len(w.patterns) == 0 {
		return true
	}
	normalized := filepath.ToSlash(rel)
	for _, pat := range w.patterns {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

// validatePatterns checks that every pattern is a valid doublestar glob.
func validatePatterns(patterns []string, kind string) error {
	for _, pat := range patterns {
		if _, err := doublestar.Match(pat, ""); err != nil {
			return &InvalidPatternError{Kind: kind, Pattern: pat, Err: err}
		}
	}
	return nil
}
