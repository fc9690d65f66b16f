// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"
	"strings"
	"testing"

	"github.com/starpack/starpack/internal/config"
)

func TestRunInit_DefaultTemplate(t *testing.T) {
	t.Chdir(t.TempDir())

	app, stdout, _ := newTestApp(t)

	if err := runInit(app, config.DefaultScriptName, "default", false); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}

	data, err := os.ReadFile(config.DefaultScriptName)
	if err != nil {
		t.Fatalf("script was not created: %v", err)
	}
	for _, want := range []string{`discover("src")`, "collect(res)"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("script missing %q:\n%s", want, data)
		}
	}

	out := stdout.String()
	if !strings.Contains(out, "Created") {
		t.Errorf("confirmation missing:\n%s", out)
	}
	if !strings.Contains(out, "Next steps:") {
		t.Errorf("next steps missing:\n%s", out)
	}
}

func TestRunInit_CustomFilename(t *testing.T) {
	t.Chdir(t.TempDir())

	app, _, _ := newTestApp(t)

	if err := runInit(app, "pack.star", "minimal", false); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}
	if !fileExists(t, "pack.star") {
		t.Error("pack.star was not created")
	}
}

func TestRunInit_RefusesOverwrite(t *testing.T) {
	t.Chdir(t.TempDir())

	writeTestFile(t, config.DefaultScriptName, "# precious\n")

	app, _, _ := newTestApp(t)

	err := runInit(app, config.DefaultScriptName, "default", false)
	if err == nil {
		t.Fatal("runInit() overwrote an existing script without --force")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("error = %q, want overwrite refusal", err)
	}

	data, _ := os.ReadFile(config.DefaultScriptName)
	if string(data) != "# precious\n" {
		t.Error("existing script was modified")
	}
}

func TestRunInit_ForceOverwrites(t *testing.T) {
	t.Chdir(t.TempDir())

	writeTestFile(t, config.DefaultScriptName, "# stale\n")

	app, _, _ := newTestApp(t)

	if err := runInit(app, config.DefaultScriptName, "default", true); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}

	data, _ := os.ReadFile(config.DefaultScriptName)
	if !strings.Contains(string(data), `discover("src")`) {
		t.Errorf("script was not regenerated:\n%s", data)
	}
}

func TestGenerateScript(t *testing.T) {
	t.Parallel()

	t.Run("minimal stays minimal", func(t *testing.T) {
		t.Parallel()

		got := generateScript("minimal")
		if !strings.Contains(got, `discover("src")`) {
			t.Errorf("minimal template missing discover loop:\n%s", got)
		}
		if strings.Contains(got, "make_source_module") {
			t.Errorf("minimal template mentions generated modules:\n%s", got)
		}
	})

	t.Run("full shows attribute overrides", func(t *testing.T) {
		t.Parallel()

		got := generateScript("full")
		for _, want := range []string{
			`type(res) == "PackageResource"`,
			`res.add_location = "filesystem-relative:lib"`,
			"make_source_module",
			"add_bytecode_optimization_level_two",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("full template missing %q", want)
			}
		}
	})

	t.Run("unknown falls back to default", func(t *testing.T) {
		t.Parallel()

		if generateScript("nope") != generateScript("default") {
			t.Error("unknown template should produce the default script")
		}
	})
}
