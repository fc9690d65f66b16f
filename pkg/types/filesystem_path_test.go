// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestFilesystemPath_Validate(t *testing.T) {
	t.Parallel()

	valid := []FilesystemPath{
		"/opt/app/starpack.star",
		"packaging/release.star",
		"C:\\build\\dist",
		"src/my app/data.json",
		".",
		"..",
	}
	for _, p := range valid {
		if err := p.Validate(); err != nil {
			t.Errorf("FilesystemPath(%q).Validate() = %v, want nil", p, err)
		}
	}

	invalid := []struct {
		name string
		path FilesystemPath
	}{
		{"empty", FilesystemPath("")},
		{"spaces only", FilesystemPath("   ")},
		{"tab only", FilesystemPath("\t")},
		{"embedded NUL", FilesystemPath("lib\x00evil")},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.path.Validate()
			if err == nil {
				t.Fatalf("FilesystemPath(%q).Validate() = nil, want error", tt.path)
			}
			if !errors.Is(err, ErrInvalidFilesystemPath) {
				t.Errorf("error should wrap ErrInvalidFilesystemPath, got: %v", err)
			}
			if _, ok := errors.AsType[*InvalidFilesystemPathError](err); !ok {
				t.Errorf("error should be *InvalidFilesystemPathError, got: %T", err)
			}
		})
	}
}

func TestFilesystemPath_String(t *testing.T) {
	t.Parallel()

	p := FilesystemPath("dist/starpack.bundle.zip")
	if p.String() != "dist/starpack.bundle.zip" {
		t.Errorf("String() = %q, want %q", p.String(), "dist/starpack.bundle.zip")
	}
}
