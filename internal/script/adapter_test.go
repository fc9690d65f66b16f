// SPDX-License-Identifier: MPL-2.0

package script

import (
	"strings"
	"testing"

	"github.com/starpack/starpack/pkg/policy"
	"github.com/starpack/starpack/pkg/resource"
)

func TestCompatible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rec  resource.Resource
		want bool
	}{
		{name: "source module", rec: &resource.SourceModule{Name: "foo"}, want: true},
		{name: "package resource", rec: &resource.PackageResource{Package: "foo", Name: "data.txt"}, want: true},
		{name: "distribution resource", rec: &resource.DistributionResource{Package: "dist", Name: "METADATA"}, want: true},
		{name: "extension module", rec: &resource.ExtensionModule{Name: "foo"}, want: true},
		{name: "module bytecode", rec: &resource.ModuleBytecode{Name: "foo"}, want: false},
		{name: "plain file", rec: &resource.FileResource{Path: "assets/x"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Compatible(tt.rec); got != tt.want {
				t.Errorf("Compatible(%s) = %v, want %v", tt.rec.Description(), got, tt.want)
			}
		})
	}
}

func TestToValue_BuildsWrappers(t *testing.T) {
	t.Parallel()

	pol := policy.Default()

	t.Run("source module", func(t *testing.T) {
		t.Parallel()

		v := ToValue(&resource.SourceModule{Name: "foo"}, pol)
		wrapper, ok := v.(*SourceModuleValue)
		if !ok {
			t.Fatalf("ToValue() = %T, want *SourceModuleValue", v)
		}
		if wrapper.Context() == nil {
			t.Error("source module wrapper has no derived context")
		}
	})

	t.Run("package resource", func(t *testing.T) {
		t.Parallel()

		v := ToValue(&resource.PackageResource{Package: "foo", Name: "data.txt"}, pol)
		wrapper, ok := v.(*PackageResourceValue)
		if !ok {
			t.Fatalf("ToValue() = %T, want *PackageResourceValue", v)
		}
		if wrapper.Context() == nil {
			t.Error("package resource wrapper has no derived context")
		}
	})

	t.Run("distribution resource", func(t *testing.T) {
		t.Parallel()

		v := ToValue(&resource.DistributionResource{Package: "dist", Name: "METADATA"}, pol)
		wrapper, ok := v.(*DistributionResourceValue)
		if !ok {
			t.Fatalf("ToValue() = %T, want *DistributionResourceValue", v)
		}
		if wrapper.Context() == nil {
			t.Error("distribution resource wrapper has no derived context")
		}
	})

	t.Run("extension module", func(t *testing.T) {
		t.Parallel()

		v := ToValue(&resource.ExtensionModule{Name: "foo"}, pol)
		if _, ok := v.(*ExtensionModuleValue); !ok {
			t.Fatalf("ToValue() = %T, want *ExtensionModuleValue", v)
		}
	})
}

func TestToValue_ContextsAreIndependent(t *testing.T) {
	t.Parallel()

	pol, err := policy.Named(policy.NamePreferInMemory)
	if err != nil {
		t.Fatalf("Named() error = %v", err)
	}

	first := ToValue(&resource.SourceModule{Name: "a"}, pol).(*SourceModuleValue)
	second := ToValue(&resource.SourceModule{Name: "b"}, pol).(*SourceModuleValue)

	if first.Context() == second.Context() {
		t.Fatal("wrappers share one context")
	}
	if first.Context().LocationFallback == second.Context().LocationFallback {
		t.Error("wrappers share one fallback pointer")
	}
}

func TestToValue_PanicsOnIncompatible(t *testing.T) {
	t.Parallel()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("ToValue() on a bytecode record did not panic")
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, "filter with Compatible") {
			t.Errorf("panic = %v, want message pointing at Compatible", r)
		}
	}()

	ToValue(&resource.ModuleBytecode{Name: "foo"}, policy.Default())
}
