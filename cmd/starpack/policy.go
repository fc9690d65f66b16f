// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/starpack/starpack/pkg/policy"

	"github.com/spf13/cobra"
)

// newPolicyCommand creates the `starpack policy` command tree.
func newPolicyCommand(app *App) *cobra.Command {
	policyCmd := &cobra.Command{
		Use:   "policy",
		Short: "Inspect packaging policies",
		Long: `Inspect packaging policies.

A policy decides the defaults applied to every resource as it is
wrapped for script evaluation: whether it is included, where it is
placed (in memory or on the filesystem), whether source text is
retained, and which bytecode optimization levels are emitted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	policyCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List builtin policy names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPolicyList(cmd.Context(), app)
		},
	})

	policyCmd.AddCommand(&cobra.Command{
		Use:   "show [name]",
		Short: "Show a policy's defaults (the configured policy when no name is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runPolicyShow(cmd.Context(), app, name)
		},
	})

	return policyCmd
}

func runPolicyList(ctx context.Context, app *App) error {
	cfg := loadConfigOrDefaults(ctx, app)

	fmt.Fprintln(app.stdout, TitleStyle.Render("Builtin policies"))
	fmt.Fprintln(app.stdout)
	for _, name := range policy.Names() {
		if name == cfg.DefaultPolicy {
			fmt.Fprintf(app.stdout, "  %s %s\n", CmdStyle.Render(name), SubtitleStyle.Render("(default)"))
			continue
		}
		fmt.Fprintf(app.stdout, "  %s\n", CmdStyle.Render(name))
	}
	fmt.Fprintln(app.stdout)
	fmt.Fprintln(app.stdout, SubtitleStyle.Render("Pass a path to a .cue policy document for a custom policy."))

	return nil
}

func runPolicyShow(ctx context.Context, app *App, name string) error {
	if name == "" {
		name = loadConfigOrDefaults(ctx, app).DefaultPolicy
	}

	pol, err := policy.Resolve(name)
	if err != nil {
		renderIssue(app, classifyBuildError(err))
		fmt.Fprintf(app.stderr, "\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
		return &ExitError{Code: exitCodeFor(err), Err: err}
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(app.stdout, TitleStyle.Render("Policy "+name))
	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("placement"), valueStyle.Render(pol.Placement.String()))
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("include"))
	fmt.Fprintf(app.stdout, "  source modules: %s\n", valueStyle.Render(fmt.Sprintf("%v", pol.IncludeSourceModules)))
	fmt.Fprintf(app.stdout, "  package resources: %s\n", valueStyle.Render(fmt.Sprintf("%v", pol.IncludePackageResources)))
	fmt.Fprintf(app.stdout, "  distribution resources: %s\n", valueStyle.Render(fmt.Sprintf("%v", pol.IncludeDistributionResources)))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("store source"), valueStyle.Render(fmt.Sprintf("%v", pol.StoreSource)))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("bytecode optimization levels"), valueStyle.Render(optimizeLevels(pol)))

	return nil
}

// optimizeLevels renders the enabled bytecode optimization levels, e.g.
// "0, 2", or "(none)" when every level is off.
func optimizeLevels(pol *policy.Policy) string {
	var levels []string
	if pol.OptimizeLevelZero {
		levels = append(levels, "0")
	}
	if pol.OptimizeLevelOne {
		levels = append(levels, "1")
	}
	if pol.OptimizeLevelTwo {
		levels = append(levels, "2")
	}
	if len(levels) == 0 {
		return "(none)"
	}
	return strings.Join(levels, ", ")
}
