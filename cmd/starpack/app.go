// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/starpack/starpack/internal/app/build"
	"github.com/starpack/starpack/internal/config"
	"github.com/starpack/starpack/internal/discovery"
	"github.com/starpack/starpack/pkg/resource"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer — all Cobra command handlers receive an App reference and delegate
	// business logic through its service interfaces (Config, Build, Scanner).
	App struct {
		Config      ConfigProvider
		Build       BuildRunner
		Scanner     ResourceScanner
		Diagnostics DiagnosticRenderer
		stdout      io.Writer
		stderr      io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp. Tests can supply mock implementations
	// to isolate specific service behavior.
	Dependencies struct {
		Config      ConfigProvider
		Build       BuildRunner
		Scanner     ResourceScanner
		Diagnostics DiagnosticRenderer
		Stdout      io.Writer
		Stderr      io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	// This abstraction enables testing with custom config sources or mock implementations.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// BuildRunner executes a packaging run: script evaluation, collection,
	// and output writing. Implementations must not write user-facing text to
	// stdout/stderr; outcomes come back as a structured result for the CLI
	// layer to render.
	BuildRunner interface {
		Run(ctx context.Context, opts build.Options) (*build.Result, error)
	}

	// ResourceScanner classifies a source tree into resource records plus
	// structured diagnostics for the CLI layer to render.
	ResourceScanner interface {
		Scan(root string) ([]resource.Resource, []discovery.Diagnostic, error)
	}

	// DiagnosticRenderer renders structured scan diagnostics.
	DiagnosticRenderer interface {
		Render(diags []discovery.Diagnostic, stderr io.Writer)
	}

	// appBuildService is the production BuildRunner.
	appBuildService struct{}

	// appScannerService implements ResourceScanner. It constructs the scanner
	// per call so scan tracing picks up the logger configured by the root
	// command rather than the one installed at App construction time.
	appScannerService struct{}

	defaultDiagnosticRenderer struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Build == nil {
		deps.Build = &appBuildService{}
	}
	if deps.Scanner == nil {
		deps.Scanner = &appScannerService{}
	}
	if deps.Diagnostics == nil {
		deps.Diagnostics = &defaultDiagnosticRenderer{}
	}

	return &App{
		Config:      deps.Config,
		Build:       deps.Build,
		Scanner:     deps.Scanner,
		Diagnostics: deps.Diagnostics,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
	}, nil
}

// loadConfigOrDefaults loads configuration for inspection commands. On
// failure it warns and falls back to defaults so listing and display
// commands stay usable; commands that produce artifacts use loadRunConfig
// and abort instead.
func loadConfigOrDefaults(ctx context.Context, app *App) *config.Config {
	cfg, err := app.Config.Load(ctx, loadOptions())
	if err != nil {
		fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		return config.DefaultConfig()
	}
	return cfg
}

// Run executes a packaging run with the process-wide logger.
func (s *appBuildService) Run(ctx context.Context, opts build.Options) (*build.Result, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return build.Run(ctx, opts)
}

// Scan walks root into resource records with the process-wide logger.
func (s *appScannerService) Scan(root string) ([]resource.Resource, []discovery.Diagnostic, error) {
	return discovery.NewScanner(slog.Default()).Scan(root)
}

// Render writes structured diagnostics to stderr with lipgloss styling.
func (r *defaultDiagnosticRenderer) Render(diags []discovery.Diagnostic, stderr io.Writer) {
	for _, diag := range diags {
		prefix := WarningStyle.Render("warning")
		if diag.Severity == discovery.SeverityError {
			prefix = ErrorStyle.Render("error")
		}

		if diag.Path != "" {
			_, _ = fmt.Fprintf(stderr, "%s: %s (%s)\n", prefix, diag.Message, diag.Path)
			continue
		}

		_, _ = fmt.Fprintf(stderr, "%s: %s\n", prefix, diag.Message)
	}
}
