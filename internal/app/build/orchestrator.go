// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starpack/starpack/internal/config"
	"github.com/starpack/starpack/internal/discovery"
	"github.com/starpack/starpack/internal/script"
	"github.com/starpack/starpack/pkg/collector"
	"github.com/starpack/starpack/pkg/policy"
)

// ErrScriptNotFound is the sentinel error wrapped by ScriptNotFoundError.
var ErrScriptNotFound = errors.New("packaging script not found")

// ErrOutputWrite is the sentinel error wrapped by OutputWriteError.
var ErrOutputWrite = errors.New("build output write failed")

type (
	// Options configures a build run.
	//
	// Config is required. The override fields mirror CLI flags: a non-zero
	// value takes precedence over the corresponding config field, so the
	// precedence order is flag, then config file, then built-in default
	// (already folded into Config by the loader).
	Options struct {
		Config *config.Config

		// ScriptPath overrides Config.Script when non-empty.
		ScriptPath string

		// PolicyName overrides Config.DefaultPolicy when non-empty. Accepts
		// a builtin policy name or a path to a .cue policy document.
		PolicyName string

		// OutputDir overrides Config.OutputDir when non-empty.
		OutputDir string

		// Bundle overrides Config.Bundle when non-nil.
		Bundle *bool

		// Logger receives progress, discovery diagnostics, and script print
		// output. Nil means slog.Default().
		Logger *slog.Logger
	}

	// Result summarizes a completed build.
	Result struct {
		// ScriptPath is the script that was evaluated.
		ScriptPath string

		// PolicyName is the policy name or document path that supplied
		// collection defaults.
		PolicyName string

		// OutputDir is the directory the outputs were written to.
		OutputDir string

		// ManifestPath is the written manifest file.
		ManifestPath string

		// BundlePath is the written bundle archive, or empty when bundling
		// is disabled.
		BundlePath string

		// Collected is the number of resources the script collected.
		Collected int

		// Bundled is the number of entries placed in the bundle.
		Bundled int
	}

	// ScriptNotFoundError is returned when the resolved script path does
	// not exist or is not a regular file.
	ScriptNotFoundError struct {
		Path string
	}

	// OutputWriteError is returned when an output artifact cannot be
	// written: the output directory, the manifest, or the bundle.
	OutputWriteError struct {
		Path string
		Err  error
	}
)

// Error implements the error interface for ScriptNotFoundError.
func (e *ScriptNotFoundError) Error() string {
	return fmt.Sprintf("packaging script not found at %s", e.Path)
}

// Unwrap returns ErrScriptNotFound for errors.Is() compatibility.
func (e *ScriptNotFoundError) Unwrap() error { return ErrScriptNotFound }

// Error implements the error interface for OutputWriteError.
func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("failed to write build output %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrOutputWrite plus the cause so errors.Is and errors.As
// reach both.
func (e *OutputWriteError) Unwrap() []error {
	return []error{ErrOutputWrite, e.Err}
}

// ResolveScript applies script-path precedence: the CLI override when set,
// otherwise the config value.
func ResolveScript(opts Options) string {
	if opts.ScriptPath != "" {
		return opts.ScriptPath
	}
	return opts.Config.Script
}

// ResolvePolicy applies policy precedence and loads the resulting policy.
// The returned name is what the policy was resolved from, for reporting.
func ResolvePolicy(opts Options) (string, *policy.Policy, error) {
	name := opts.PolicyName
	if name == "" {
		name = opts.Config.DefaultPolicy
	}
	pol, err := policy.Resolve(name)
	if err != nil {
		return name, nil, err
	}
	return name, pol, nil
}

// ResolveOutputDir applies output-directory precedence: the CLI override
// when set, otherwise the config value.
func ResolveOutputDir(opts Options) string {
	if opts.OutputDir != "" {
		return opts.OutputDir
	}
	return opts.Config.OutputDir
}

// ResolveBundle applies bundle-toggle precedence: the CLI override when
// set, otherwise the config value.
func ResolveBundle(opts Options) bool {
	if opts.Bundle != nil {
		return *opts.Bundle
	}
	return opts.Config.Bundle
}

// Run executes a full packaging build: script evaluation followed by
// manifest and bundle emission. Cancelling ctx aborts script evaluation at
// the next statement boundary.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("build requires a loaded config")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	scriptPath := ResolveScript(opts)
	info, err := os.Stat(scriptPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ScriptNotFoundError{Path: scriptPath}
		}
		return nil, fmt.Errorf("failed to stat script at %s: %w", scriptPath, err)
	}
	if info.IsDir() {
		return nil, &ScriptNotFoundError{Path: scriptPath}
	}

	policyName, pol, err := ResolvePolicy(opts)
	if err != nil {
		return nil, err
	}

	coll := collector.New()
	scanner := discovery.NewScanner(logger)
	session, err := script.NewSession(script.Options{
		Policy:    pol,
		Collector: coll,
		Discover:  scanner.Discover,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("evaluating packaging script", "script", scriptPath, "policy", policyName)
	if err := session.ExecFile(ctx, scriptPath); err != nil {
		return nil, err
	}

	res := &Result{
		ScriptPath: scriptPath,
		PolicyName: policyName,
		OutputDir:  ResolveOutputDir(opts),
		Collected:  coll.Len(),
	}

	if err := os.MkdirAll(res.OutputDir, 0o755); err != nil {
		return nil, &OutputWriteError{Path: res.OutputDir, Err: err}
	}

	res.ManifestPath = filepath.Join(res.OutputDir, collector.ManifestFilename)
	if err := coll.WriteManifest(res.ManifestPath); err != nil {
		return nil, &OutputWriteError{Path: res.ManifestPath, Err: err}
	}

	if ResolveBundle(opts) {
		res.BundlePath = filepath.Join(res.OutputDir, collector.BundleFilename)
		written, err := coll.WriteBundle(res.BundlePath)
		if err != nil {
			return nil, &OutputWriteError{Path: res.BundlePath, Err: err}
		}
		res.Bundled = written
	}

	logger.Info("build complete",
		"script", res.ScriptPath,
		"policy", res.PolicyName,
		"collected", res.Collected,
		"manifest", res.ManifestPath,
		"bundled", res.Bundled,
	)
	return res, nil
}
