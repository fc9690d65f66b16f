// SPDX-License-Identifier: MPL-2.0

package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/starpack/starpack/pkg/collector"
	"github.com/starpack/starpack/pkg/policy"
	"github.com/starpack/starpack/pkg/resource"
)

// DiscoverFunc produces the resource records found under a source tree
// root. The build orchestrator wires the discovery scanner in; tests
// substitute stubs.
type DiscoverFunc func(root string) ([]resource.Resource, error)

// Options configures a Session.
type Options struct {
	// Policy supplies collection defaults for every wrapper the session
	// builds. Nil means policy.Default().
	Policy *policy.Policy

	// Collector receives resources submitted through collect(). Required.
	Collector *collector.Collector

	// Discover backs the discover() builtin. Optional; calling discover()
	// without one is a script error.
	Discover DiscoverFunc

	// Logger receives script print output and evaluation diagnostics. Nil
	// means slog.Default().
	Logger *slog.Logger
}

// Session evaluates a configuration script with the starpack builtins
// bound. A session runs one script at a time and is not safe for
// concurrent use.
type Session struct {
	policy     *policy.Policy
	collector  *collector.Collector
	discoverFn DiscoverFunc
	logger     *slog.Logger
	fileOpts   *syntax.FileOptions
}

// NewSession validates opts and builds a Session.
func NewSession(opts Options) (*Session, error) {
	if opts.Collector == nil {
		return nil, fmt.Errorf("session requires a collector")
	}

	pol := opts.Policy
	if pol == nil {
		pol = policy.Default()
	}
	if err := pol.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session policy: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		policy:     pol,
		collector:  opts.Collector,
		discoverFn: opts.Discover,
		logger:     logger,
		// Configuration scripts get the permissive dialect: sets, while
		// loops, recursion, and top-level control flow are all legal.
		fileOpts: &syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
			GlobalReassign:  true,
			Recursion:       true,
		},
	}, nil
}

// Collector returns the collector the session submits to.
func (s *Session) Collector() *collector.Collector { return s.collector }

// ExecFile reads and evaluates the script at path. Cancelling ctx aborts
// evaluation at the next statement boundary.
func (s *Session) ExecFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script at %s: %w", path, err)
	}
	return s.exec(ctx, path, data)
}

// ExecSource evaluates an in-memory script, reported under filename.
func (s *Session) ExecSource(ctx context.Context, filename string, src []byte) error {
	return s.exec(ctx, filename, src)
}

func (s *Session) exec(ctx context.Context, filename string, src []byte) error {
	thread := &starlark.Thread{
		Name: "starpack:" + filename,
		Print: func(_ *starlark.Thread, msg string) {
			s.logger.Info(msg, "script", filename)
		},
	}
	if ctx != nil {
		stop := context.AfterFunc(ctx, func() {
			thread.Cancel(ctx.Err().Error())
		})
		defer stop()
	}

	if _, err := starlark.ExecFileOptions(s.fileOpts, thread, filename, src, s.predeclared()); err != nil {
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			s.logger.Debug("script evaluation failed", "backtrace", evalErr.Backtrace())
		}
		return fmt.Errorf("evaluating %s: %w", filename, err)
	}
	return nil
}
