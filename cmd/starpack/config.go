// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/starpack/starpack/internal/config"
	"github.com/starpack/starpack/internal/issue"
	"github.com/starpack/starpack/pkg/policy"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `starpack config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage starpack configuration",
		Long: `Manage starpack configuration.

Configuration is stored in:
  - Linux: ~/.config/starpack/config.cue
  - macOS: ~/Library/Application Support/starpack/config.cue
  - Windows: %APPDATA%\starpack\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfigFile(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), app, args[0], args[1])
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), loadOptions())
			if err != nil {
				return err
			}

			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, resolvedPath, err := config.LoadResolved(ctx, loadOptions())
	if err != nil {
		renderIssue(app, issue.ConfigLoadFailedId)
		return err
	}

	// Style definitions using shared color palette
	headerStyle := TitleStyle
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(app.stdout, headerStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)

	if resolvedPath != "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), resolvedPath)
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(app.stdout)

	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("default_policy"), valueStyle.Render(cfg.DefaultPolicy))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("script"), valueStyle.Render(cfg.Script))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("output_dir"), valueStyle.Render(cfg.OutputDir))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("bundle"), valueStyle.Render(fmt.Sprintf("%v", cfg.Bundle)))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(app.stdout, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(app.stdout, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func initConfigFile(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Fprintf(app.stdout, "%s Created default configuration at %s/config.cue\n", SuccessStyle.Render("✓"), cfgDir)
	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(app.stdout, "Config file: %s/config.cue\n", cfgDir)

	return nil
}

func setConfigValue(ctx context.Context, app *App, key, value string) error {
	cfg, err := app.Config.Load(ctx, loadOptions())
	if err != nil {
		return err
	}

	switch key {
	case "default_policy":
		// Builtin names are checked here; .cue policy documents are
		// resolved at build time since the file may not exist yet.
		if !strings.HasSuffix(value, ".cue") {
			if _, err := policy.Named(value); err != nil {
				return fmt.Errorf("invalid default_policy: must be one of %s, or a path to a .cue policy document",
					strings.Join(policy.Names(), ", "))
			}
		}
		cfg.DefaultPolicy = value

	case "script":
		cfg.Script = value

	case "output_dir":
		cfg.OutputDir = value

	case "bundle":
		cfg.Bundle = value == "true" || value == "1"

	case "ui.verbose":
		cfg.UI.Verbose = value == "true" || value == "1"

	case "ui.color_scheme":
		scheme := config.ColorScheme(value)
		if err := scheme.Validate(); err != nil {
			return err
		}
		cfg.UI.ColorScheme = scheme

	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: default_policy, script, output_dir, bundle, ui.color_scheme, ui.verbose", key)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(app.stdout, "%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}
