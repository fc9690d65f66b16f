// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/starpack/starpack/internal/app/build"
	"github.com/starpack/starpack/internal/config"
	"github.com/starpack/starpack/internal/issue"
	"github.com/starpack/starpack/internal/watch"
	"github.com/starpack/starpack/pkg/collector"
	"github.com/starpack/starpack/pkg/types"

	"github.com/spf13/cobra"
)

// buildFlags carries the per-invocation overrides for a packaging run.
// A nil bundle means the flag was not given and configuration decides.
type buildFlags struct {
	script string
	policy string
	output string
	bundle *bool
}

// newBuildCommand creates the `starpack build` command.
func newBuildCommand(app *App) *cobra.Command {
	var (
		scriptPath string
		policyName string
		outputDir  string
		bundle     bool
		watchMode  bool
	)

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Evaluate the packaging script and write build outputs",
		Long: `Evaluate the packaging script and write build outputs.

The script discovers and collects resource records under the active
packaging policy. The run writes a TOML manifest describing every
collected resource to the output directory, plus a ZIP bundle holding
the filesystem-backed entries unless bundling is disabled.

With --watch, the command stays running and rebuilds whenever the
packaging script or the source tree under the working directory
changes. Build failures are reported and watching continues.

Flags override the corresponding configuration values for this run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := buildFlags{
				script: scriptPath,
				policy: policyName,
				output: outputDir,
			}
			// Only an explicit --bundle overrides the configured default.
			if cmd.Flags().Changed("bundle") {
				flags.bundle = &bundle
			}
			if watchMode {
				return runBuildWatch(cmd.Context(), app, flags)
			}
			return runBuild(cmd.Context(), app, flags)
		},
	}

	buildCmd.Flags().StringVarP(&scriptPath, "script", "s", "", "packaging script to evaluate (default from config)")
	buildCmd.Flags().StringVarP(&policyName, "policy", "p", "", "packaging policy: a builtin name or a path to a .cue policy document")
	buildCmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory receiving the manifest and bundle (default from config)")
	buildCmd.Flags().BoolVar(&bundle, "bundle", true, "write the ZIP bundle alongside the manifest")
	buildCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "rebuild whenever the script or source tree changes")

	return buildCmd
}

// runBuild executes a packaging run and renders its outcome.
func runBuild(ctx context.Context, app *App, flags buildFlags) error {
	cfg, err := loadRunConfig(ctx, app)
	if err != nil {
		return err
	}

	result, err := app.Build.Run(ctx, build.Options{
		Config:     cfg,
		ScriptPath: flags.script,
		PolicyName: flags.policy,
		OutputDir:  flags.output,
		Bundle:     flags.bundle,
	})
	if err != nil {
		renderIssue(app, classifyBuildError(err))
		fmt.Fprintf(app.stderr, "\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
		return &ExitError{Code: exitCodeFor(err), Err: err}
	}

	fmt.Fprintf(app.stdout, "%s Evaluated %s (%s policy)\n",
		SuccessStyle.Render("✓"), CmdStyle.Render(result.ScriptPath), result.PolicyName)
	fmt.Fprintf(app.stdout, "%s Collected %d resources into %s\n",
		SuccessStyle.Render("✓"), result.Collected, result.ManifestPath)
	if result.BundlePath != "" {
		fmt.Fprintf(app.stdout, "%s Bundled %d filesystem entries into %s\n",
			SuccessStyle.Render("✓"), result.Bundled, result.BundlePath)
	}

	return nil
}

// loadRunConfig loads configuration for commands that cannot proceed without
// it. Unlike the root hook, which warns and continues so help and init still
// work, a packaging run aborts with the config card on load failure.
func loadRunConfig(ctx context.Context, app *App) (*config.Config, error) {
	cfg, err := app.Config.Load(ctx, loadOptions())
	if err != nil {
		renderIssue(app, issue.ConfigLoadFailedId)
		fmt.Fprintf(app.stderr, "\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
		return nil, &ExitError{Code: types.ExitConfigError, Err: err}
	}
	return cfg, nil
}

// runBuildWatch runs an initial build and then rebuilds on every change to
// the working tree. Build failures keep the watcher alive so the loop
// recovers as soon as the script or sources are fixed; only watcher setup
// errors and fatal filesystem errors end the command.
func runBuildWatch(ctx context.Context, app *App, flags buildFlags) error {
	cfg, err := loadRunConfig(ctx, app)
	if err != nil {
		return err
	}

	// Rebuilds write into the output directory; without these ignores every
	// build would retrigger the watcher. The bare artifact names cover the
	// case where the output directory is the watch root itself.
	outputDir := build.ResolveOutputDir(build.Options{Config: cfg, OutputDir: flags.output})
	ignores := []string{"**/" + collector.ManifestFilename, "**/" + collector.BundleFilename}
	if pat, ok := outputIgnorePattern(outputDir); ok {
		ignores = append(ignores, pat)
	}

	fmt.Fprintf(app.stdout, "%s\n", VerboseHighlightStyle.Render("→ Watching for changes (Ctrl+C to stop)"))

	if err := runBuild(ctx, app, flags); err != nil {
		fmt.Fprintf(app.stdout, "%s\n", WarningStyle.Render("! Build failed, waiting for changes"))
	}

	w, err := watch.New(watch.Config{
		Ignore: ignores,
		Logger: slog.Default(),
		OnChange: func(ctx context.Context, changed []string) error {
			noun := "files"
			if len(changed) == 1 {
				noun = "file"
			}
			fmt.Fprintf(app.stdout, "\n%s\n",
				VerboseHighlightStyle.Render(fmt.Sprintf("→ %d %s changed, rebuilding", len(changed), noun)))
			if err := runBuild(ctx, app, flags); err != nil {
				fmt.Fprintf(app.stdout, "%s\n", WarningStyle.Render("! Build failed, waiting for changes"))
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

// outputIgnorePattern converts the output directory into a watch ignore
// glob relative to the working directory. It returns false when the output
// directory lies outside the watched tree and needs no ignore.
func outputIgnorePattern(outputDir string) (string, bool) {
	wd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel) + "/**", true
}
