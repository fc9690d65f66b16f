// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/starpack/starpack/internal/config"
	"github.com/starpack/starpack/internal/issue"
	"github.com/starpack/starpack/pkg/types"

	"github.com/charmbracelet/fang"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// issueStyle is the glamour style used for issue cards, from ui.color_scheme.
	issueStyle = string(config.ColorSchemeAuto)
)

// newRootCommand assembles the starpack command tree around the given App.
func newRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "starpack",
		Short: "Package Python resources from a Starlark script",
		Long: TitleStyle.Render("starpack") + SubtitleStyle.Render(" - Package Python resources from a Starlark script") + `

starpack evaluates a Starlark packaging script that discovers Python
source trees, wraps each file in a typed resource record, and collects
the records under a packaging policy. A build writes a TOML manifest
describing every collected resource and, for filesystem-backed entries,
a ZIP bundle laid out for installation.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Run 'starpack init' to create a starter packaging script
  2. Edit the script to discover and collect your sources
  3. Run 'starpack build' to write the manifest and bundle

` + SubtitleStyle.Render("Examples:") + `
  starpack build                  Evaluate the packaging script and write outputs
  starpack build -p prefer-in-memory
  starpack resources src          List resource records discovered under src/
  starpack policy show            Show the policy applied to collected resources
  starpack init                   Create a starter packaging script
  starpack config show            Show current configuration`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initRootConfig(cmd.Context(), app)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/starpack/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(newBuildCommand(app))
	rootCmd.AddCommand(newResourcesCommand(app))
	rootCmd.AddCommand(newPolicyCommand(app))
	rootCmd.AddCommand(newInitCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the production App, assembles the root command, and runs it.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("Error:"), err)
		os.Exit(int(types.ExitFailure))
	}

	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFailure))
	}
}

// initRootConfig applies configuration to the process-wide CLI state before
// any handler runs: the verbose flag, the issue card style, and the default
// slog logger. Config load failures are surfaced as a warning; handlers that
// require configuration reload it and fail properly.
func initRootConfig(ctx context.Context, app *App) {
	cfg, err := app.Config.Load(ctx, loadOptions())
	if err != nil {
		fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	// Apply verbose from config if not set via flag
	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}

	if cfg != nil {
		issueStyle = string(cfg.UI.ColorScheme)
	}

	slog.SetDefault(slog.New(newLogHandler(app.stderr, verbose)))
}

// loadOptions returns the configuration load options implied by the global
// --config flag.
func loadOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: types.FilesystemPath(cfgFile)}
}

// newLogHandler builds the slog handler backing all diagnostic logging.
func newLogHandler(w io.Writer, verboseMode bool) slog.Handler {
	level := charmlog.WarnLevel
	if verboseMode {
		level = charmlog.DebugLevel
	}
	return charmlog.NewWithOptions(w, charmlog.Options{
		Prefix: "starpack",
		Level:  level,
	})
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
