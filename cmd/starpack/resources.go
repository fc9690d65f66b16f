// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/starpack/starpack/internal/issue"
	"github.com/starpack/starpack/pkg/resource"
	"github.com/starpack/starpack/pkg/types"

	"github.com/spf13/cobra"
)

// newResourcesCommand creates the `starpack resources` command.
func newResourcesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resources <path>",
		Short: "List resource records discovered under a source tree",
		Long: `List resource records discovered under a source tree.

Every regular file under the given path is classified into a typed
resource record: Python files become source modules, compiled files
become extension modules or bytecode, dist-info metadata becomes
distribution resources, and everything else becomes a package resource
or plain file. This shows what a packaging script's discover() call
would hand to the policy, without evaluating any script.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResources(app, args[0])
		},
	}
}

// runResources scans root and renders the discovered records.
func runResources(app *App, root string) error {
	records, diags, err := app.Scanner.Scan(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			renderIssue(app, issue.SourceTreeNotFoundId)
		}
		fmt.Fprintf(app.stderr, "\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
		return &ExitError{Code: types.ExitFailure, Err: err}
	}

	app.Diagnostics.Render(diags, app.stderr)

	if len(records) == 0 {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render(fmt.Sprintf("No resources found under %s.", root)))
		return nil
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render(fmt.Sprintf("Resources under %s", root)))
	fmt.Fprintln(app.stdout)
	for _, rec := range records {
		fmt.Fprintf(app.stdout, "  %s\n", rec.Description())
	}
	fmt.Fprintln(app.stdout)
	fmt.Fprintln(app.stdout, VerboseStyle.Render(summarizeKinds(records)))

	return nil
}

// summarizeKinds renders a one-line total with per-kind counts in kind
// order, e.g. "4 resources (3 source module, 1 package resource)".
func summarizeKinds(records []resource.Resource) string {
	counts := make(map[resource.Kind]int)
	for _, rec := range records {
		counts[rec.Kind()]++
	}

	kinds := []resource.Kind{
		resource.KindSourceModule,
		resource.KindPackageResource,
		resource.KindDistributionResource,
		resource.KindExtensionModule,
		resource.KindModuleBytecode,
		resource.KindFile,
	}

	summary := fmt.Sprintf("%d resources (", len(records))
	first := true
	for _, kind := range kinds {
		if counts[kind] == 0 {
			continue
		}
		if !first {
			summary += ", "
		}
		summary += fmt.Sprintf("%d %s", counts[kind], kind)
		first = false
	}
	return summary + ")"
}
