// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"strings"
	"testing"

	"github.com/starpack/starpack/pkg/types"
)

func TestParseBytecodeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		base      string
		wantMod   string
		wantTag   string
		wantLevel types.OptimizeLevel
		wantOK    bool
	}{
		{
			name:      "plain",
			base:      "mod.cpython-311.pyc",
			wantMod:   "mod",
			wantTag:   "cpython-311",
			wantLevel: 0,
			wantOK:    true,
		},
		{
			name:      "opt one",
			base:      "mod.cpython-311.opt-1.pyc",
			wantMod:   "mod",
			wantTag:   "cpython-311",
			wantLevel: 1,
			wantOK:    true,
		},
		{
			name:      "opt two",
			base:      "mod.cpython-311.opt-2.pyc",
			wantMod:   "mod",
			wantTag:   "cpython-311",
			wantLevel: 2,
			wantOK:    true,
		},
		{
			name:      "init package",
			base:      "__init__.cpython-311.pyc",
			wantMod:   "__init__",
			wantTag:   "cpython-311",
			wantLevel: 0,
			wantOK:    true,
		},
		{name: "no cache tag", base: "mod.pyc", wantOK: false},
		{name: "bad opt suffix", base: "mod.cpython-311.optimized.pyc", wantOK: false},
		{name: "non numeric level", base: "mod.cpython-311.opt-x.pyc", wantOK: false},
		{name: "too many segments", base: "a.b.c.d.pyc", wantOK: false},
		{name: "empty module", base: ".cpython-311.pyc", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mod, tag, level, ok := parseBytecodeName(tt.base)
			if ok != tt.wantOK {
				t.Fatalf("parseBytecodeName(%q) ok = %v, want %v", tt.base, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if mod != tt.wantMod || tag != tt.wantTag || level != tt.wantLevel {
				t.Errorf("parseBytecodeName(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.base, mod, tag, level, tt.wantMod, tt.wantTag, tt.wantLevel)
			}
		})
	}
}

func TestExtensionStem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base string
		want string
	}{
		{"_speed.so", "_speed"},
		{"_speed.cpython-311-x86_64-linux-gnu.so", "_speed"},
		{"fast.abi3.so", "fast"},
		{"acc.pyd", "acc"},
		{"acc.cp311-win_amd64.pyd", "acc"},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			t.Parallel()

			if got := extensionStem(tt.base); got != tt.want {
				t.Errorf("extensionStem(%q) = %q, want %q", tt.base, got, tt.want)
			}
		})
	}
}

func TestParseDistributionDir(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dir         string
		wantPkg     string
		wantVersion string
	}{
		{"mydist-1.0.dist-info", "mydist", "1.0"},
		{"my_dist-2.3.4.dist-info", "my_dist", "2.3.4"},
		{"my-dist-1.0.dist-info", "my-dist", "1.0"},
		{"legacy.egg-info", "legacy", ""},
		{"legacy-0.9.egg-info", "legacy", "0.9"},
	}
	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			t.Parallel()

			pkg, version := parseDistributionDir(tt.dir)
			if pkg != tt.wantPkg || version != tt.wantVersion {
				t.Errorf("parseDistributionDir(%q) = (%q, %q), want (%q, %q)",
					tt.dir, pkg, version, tt.wantPkg, tt.wantVersion)
			}
		})
	}
}

func TestNearestPackage(t *testing.T) {
	t.Parallel()

	packageDirs := map[string]bool{
		"myapp":            true,
		"myapp/sub":        true,
		"other/deep/chain": true,
	}

	tests := []struct {
		name     string
		dirParts []string
		wantPkg  string
		wantRest string
		wantOK   bool
	}{
		{
			name:     "direct package",
			dirParts: []string{"myapp"},
			wantPkg:  "myapp",
			wantOK:   true,
		},
		{
			name:     "deepest wins",
			dirParts: []string{"myapp", "sub"},
			wantPkg:  "myapp/sub",
			wantOK:   true,
		},
		{
			name:     "skips non package tail",
			dirParts: []string{"myapp", "data", "nested"},
			wantPkg:  "myapp",
			wantRest: "data/nested",
			wantOK:   true,
		},
		{
			name:     "no enclosing package",
			dirParts: []string{"scripts"},
			wantOK:   false,
		},
		{
			name:   "root file",
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pkg, rest, ok := nearestPackage(tt.dirParts, packageDirs)
			if ok != tt.wantOK {
				t.Fatalf("nearestPackage() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got := strings.Join(pkg, "/"); got != tt.wantPkg {
				t.Errorf("nearestPackage() pkg = %q, want %q", got, tt.wantPkg)
			}
			if got := strings.Join(rest, "/"); got != tt.wantRest {
				t.Errorf("nearestPackage() rest = %q, want %q", got, tt.wantRest)
			}
		})
	}
}
