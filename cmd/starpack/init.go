// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/starpack/starpack/internal/config"

	"github.com/spf13/cobra"
)

// newInitCommand creates the `starpack init` command.
func newInitCommand(app *App) *cobra.Command {
	var (
		initForce    bool
		initTemplate string
	)

	initCmd := &cobra.Command{
		Use:   "init [filename]",
		Short: "Create a new packaging script in the current directory",
		Long: `Create a new packaging script in the current directory.

This command generates a starter script that discovers Python sources
and collects them under the active policy. The 'full' template also
shows how to adjust collection attributes per resource and how to add
generated modules.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := config.DefaultScriptName
			if len(args) > 0 {
				filename = args[0]
			}
			return runInit(app, filename, initTemplate, initForce)
		},
	}

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing packaging script")
	initCmd.Flags().StringVarP(&initTemplate, "template", "t", "default", "template to use (default, minimal, full)")

	return initCmd
}

func runInit(app *App, filename, template string, force bool) error {
	// Check if file exists
	if _, err := os.Stat(filename); err == nil && !force {
		return fmt.Errorf("file '%s' already exists. Use --force to overwrite", filename)
	}

	content := generateScript(template)

	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	absPath, _ := filepath.Abs(filename)
	fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), absPath)
	fmt.Fprintln(app.stdout)
	fmt.Fprintln(app.stdout, SubtitleStyle.Render("Next steps:"))
	fmt.Fprintln(app.stdout, "  1. Edit the script to discover and collect your sources")
	fmt.Fprintln(app.stdout, "  2. Run 'starpack resources src' to preview discovered records")
	fmt.Fprintln(app.stdout, "  3. Run 'starpack build' to write the manifest and bundle")

	return nil
}

// generateScript returns the packaging script content for a template name.
// Unrecognized names fall back to the default template.
func generateScript(template string) string {
	switch template {
	case "minimal":
		return `# Packaging script evaluated by 'starpack build'.

for res in discover("src"):
    collect(res)
`

	case "full":
		return `# Packaging script evaluated by 'starpack build'.
#
# discover() classifies every file under a source tree into typed
# resource records. Each record carries collection attributes whose
# defaults come from the active policy; assigning to them here
# overrides the policy for that record.

for res in discover("src"):
    # Keep code in memory, route package data to the filesystem.
    if type(res) == "PackageResource":
        res.add_location = "filesystem-relative:lib"
    collect(res)

# Modules can be generated in the script and collected alongside
# discovered ones.
build_info = make_source_module("myapp._build_info", "VERSION = '0.1.0'")
build_info.add_bytecode_optimization_level_two = True
collect(build_info)
`

	default: // "default"
		return `# Packaging script evaluated by 'starpack build'.
#
# discover() walks a source tree and returns one typed resource record
# per file. collect() registers records for the build outputs; the
# active policy decides each record's placement and bytecode defaults.

for res in discover("src"):
    collect(res)

# Generated modules can be collected alongside discovered ones:
# mod = make_source_module("myapp._build_info", "VERSION = '0.1.0'")
# collect(mod)
`
	}
}
