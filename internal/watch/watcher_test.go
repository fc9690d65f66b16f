// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// discardLogger returns a logger whose output is dropped, for tests that do
// not assert on log content.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// isIgnoredByDefaults reports whether rel matches any built-in ignore
// pattern. Test-only helper that avoids needing a full Watcher instance.
func isIgnoredByDefaults(rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range DefaultIgnores() {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

// TestWatcherDebounce verifies that rapid successive events coalesce into a
// single callback carrying all changed paths.
func TestWatcherDebounce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var (
		mu        sync.Mutex
		calls     int
		collected []string
	)
	done := make(chan struct{})

	w, err := New(Config{
		Root:     dir,
		Debounce: 100 * time.Millisecond,
		Logger:   discardLogger(),
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			defer mu.Unlock()
			calls++
			collected = append(collected, changed...)
			close(done)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// Three writes in rapid succession, all inside the debounce window.
	for _, name := range []string{"a.py", "b.py", "c.py"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x = 1\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		// Small pause so the OS delivers separate events.
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}

	// Allow a brief settle for spurious extra callbacks.
	time.Sleep(200 * time.Millisecond)

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if calls != 1 {
		t.Errorf("expected 1 debounced callback, got %d", calls)
	}
	for _, want := range []string{"a.py", "b.py", "c.py"} {
		if !slices.Contains(collected, want) {
			t.Errorf("expected %q in changed files, got %v", want, collected)
		}
	}
	if !slices.IsSorted(collected) {
		t.Errorf("changed paths should be sorted, got %v", collected)
	}
}

// TestWatcherIgnorePatterns confirms that files matching caller-supplied
// ignore patterns never reach the callback.
func TestWatcherIgnorePatterns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fired := make(chan []string, 10)

	w, err := New(Config{
		Root:     dir,
		Ignore:   []string{"**/*.log"},
		Debounce: 50 * time.Millisecond,
		Logger:   discardLogger(),
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// Ignored write: must not fire.
	if err := os.WriteFile(filepath.Join(dir, "build.log"), []byte("log"), 0o644); err != nil {
		t.Fatalf("write build.log: %v", err)
	}
	time.Sleep(200 * time.Millisecond)

	// Non-ignored write: fires.
	if err := os.WriteFile(filepath.Join(dir, "app.py"), []byte("pass\n"), 0o644); err != nil {
		t.Fatalf("write app.py: %v", err)
	}

	select {
	case changed := <-fired:
		if slices.Contains(changed, "build.log") {
			t.Error("ignored file build.log appeared in changed set")
		}
		if !slices.Contains(changed, "app.py") {
			t.Errorf("expected app.py in changed set, got %v", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback on non-ignored file")
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

// TestWatcherPatternFiltering verifies that only events matching the watch
// patterns trigger the callback.
func TestWatcherPatternFiltering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fired := make(chan []string, 10)

	w, err := New(Config{
		Root:     dir,
		Patterns: []string{"**/*.py", "**/*.star"},
		Debounce: 50 * time.Millisecond,
		Logger:   discardLogger(),
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("text"), 0o644); err != nil {
		t.Fatalf("write notes.txt: %v", err)
	}
	time.Sleep(200 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "pack.star"), []byte("pass\n"), 0o644); err != nil {
		t.Fatalf("write pack.star: %v", err)
	}

	select {
	case changed := <-fired:
		if slices.Contains(changed, "notes.txt") {
			t.Error("non-matching file notes.txt appeared in changed set")
		}
		if !slices.Contains(changed, "pack.star") {
			t.Errorf("expected pack.star in changed set, got %v", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback on .star file")
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

// TestWatcherContextCancel verifies that Run returns cleanly on context
// cancellation.
func TestWatcherContextCancel(t *testing.T) {
	t.Parallel()

	w, err := New(Config{
		Root:     t.TempDir(),
		Debounce: 50 * time.Millisecond,
		Logger:   discardLogger(),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run() returned error on cancel: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after context cancellation")
	}
}

// TestDefaultIgnores pins the built-in ignore set: VCS metadata, bytecode
// caches, virtualenvs, and editor noise are ignored; packaging inputs are
// not.
func TestDefaultIgnores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		ignored bool
	}{
		{".git/config", true},
		{".git/objects/ab/cd1234", true},
		{"pkg/__pycache__/mod.cpython-312.pyc", true},
		{".venv/lib/python3.12/site-packages/flask/app.py", true},
		{"venv/bin/activate", true},
		{"app.py.swp", true},
		{"app.py.swo", true},
		{"backup~", true},
		{".DS_Store", true},
		{"sub/.DS_Store", true},
		// Packaging inputs must stay watched.
		{"app.py", false},
		{"starpack.star", false},
		{"starpack.cue", false},
		{"pkg/mod.py", false},
		{"mypkg-1.0.dist-info/METADATA", false},
		{".gitignore", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			if got := isIgnoredByDefaults(tt.path); got != tt.ignored {
				t.Errorf("isIgnoredByDefaults(%q) = %v, want %v", tt.path, got, tt.ignored)
			}
		})
	}
}

// TestWatcherSkipIfBusy verifies that a rebuild outlasting the debounce
// window is never overlapped by a second invocation.
func TestWatcherSkipIfBusy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var (
		mu    sync.Mutex
		calls int
	)
	firstCallDone := make(chan struct{})
	var logBuf bytes.Buffer

	w, err := New(Config{
		Root:     dir,
		Debounce: 50 * time.Millisecond,
		Logger:   slog.New(slog.NewTextHandler(&logBuf, nil)),
		OnChange: func(_ context.Context, _ []string) error {
			mu.Lock()
			calls++
			callNum := calls
			mu.Unlock()

			if callNum == 1 {
				time.Sleep(300 * time.Millisecond)
				close(firstCallDone)
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// First write triggers a callback that blocks for 300ms.
	if err := os.WriteFile(filepath.Join(dir, "first.py"), []byte("1"), 0o644); err != nil {
		t.Fatalf("write first.py: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	// Second write lands while the callback is busy.
	if err := os.WriteFile(filepath.Join(dir, "second.py"), []byte("2"), 0o644); err != nil {
		t.Fatalf("write second.py: %v", err)
	}

	select {
	case <-firstCallDone:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for first callback")
	}

	// Let the deferred second cycle complete or be skipped.
	time.Sleep(200 * time.Millisecond)

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()

	// One call (strict skip) or two sequential calls are both acceptable;
	// more than two means the guard failed.
	if calls > 2 {
		t.Errorf("expected at most 2 callback invocations, got %d", calls)
	}
	if calls == 1 && !strings.Contains(logBuf.String(), "previous rebuild still running") {
		t.Logf("log output: %s", logBuf.String())
		t.Log("expected skip notice, but the callback may have finished before the second fire")
	}
}

// TestWatcherCallbackErrorKeepsWatching verifies that a failing rebuild does
// not end the watch loop.
func TestWatcherCallbackErrorKeepsWatching(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var (
		mu    sync.Mutex
		calls int
	)
	secondCall := make(chan struct{})
	var logBuf bytes.Buffer

	w, err := New(Config{
		Root:     dir,
		Debounce: 50 * time.Millisecond,
		Logger:   slog.New(slog.NewTextHandler(&logBuf, nil)),
		OnChange: func(_ context.Context, _ []string) error {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()
			if n == 1 {
				return errors.New("synthetic build failure")
			}
			close(secondCall)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	if err := os.WriteFile(filepath.Join(dir, "broken.py"), []byte("("), 0o644); err != nil {
		t.Fatalf("write broken.py: %v", err)
	}

	// Wait out the first (failing) cycle, then trigger again.
	time.Sleep(300 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "fixed.py"), []byte("pass\n"), 0o644); err != nil {
		t.Fatalf("write fixed.py: %v", err)
	}

	select {
	case <-secondCall:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher stopped dispatching after a callback error")
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if !strings.Contains(logBuf.String(), "rebuild failed") {
		t.Errorf("expected failure log entry, got: %s", logBuf.String())
	}
}

// TestWatcherInvalidPattern verifies that invalid globs fail at construction
// with the typed error.
func TestWatcherInvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := New(Config{
		Root:     t.TempDir(),
		Patterns: []string{"[invalid"},
		Logger:   discardLogger(),
	})
	if err == nil {
		t.Fatal("New() should reject an invalid glob pattern")
	}
	if !errors.Is(err, ErrInvalidWatchPattern) {
		t.Errorf("error should wrap ErrInvalidWatchPattern, got: %v", err)
	}

	var patErr *InvalidPatternError
	if !errors.As(err, &patErr) {
		t.Fatalf("error should be *InvalidPatternError, got: %T", err)
	}
	if patErr.Kind != "watch" {
		t.Errorf("Kind = %q, want %q", patErr.Kind, "watch")
	}
	if patErr.Pattern != "[invalid" {
		t.Errorf("Pattern = %q, want %q", patErr.Pattern, "[invalid")
	}
}

// TestWatcherInvalidIgnorePattern covers the ignore-side validation path.
func TestWatcherInvalidIgnorePattern(t *testing.T) {
	t.Parallel()

	_, err := New(Config{
		Root:   t.TempDir(),
		Ignore: []string{"[bad"},
		Logger: discardLogger(),
	})
	if err == nil {
		t.Fatal("New() should reject an invalid ignore pattern")
	}

	var patErr *InvalidPatternError
	if !errors.As(err, &patErr) {
		t.Fatalf("error should be *InvalidPatternError, got: %T", err)
	}
	if patErr.Kind != "ignore" {
		t.Errorf("Kind = %q, want %q", patErr.Kind, "ignore")
	}
}

// TestWatcherDoubleRunError verifies that Run rejects a second invocation.
func TestWatcherDoubleRunError(t *testing.T) {
	t.Parallel()

	w, err := New(Config{
		Root:     t.TempDir(),
		Debounce: 50 * time.Millisecond,
		Logger:   discardLogger(),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)

	if err := w.Run(ctx); err == nil {
		t.Fatal("second Run() call should return an error")
	}

	cancel()
	if firstErr := <-errCh; firstErr != nil {
		t.Fatalf("first Run() returned error: %v", firstErr)
	}
}
