// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestOptimizeLevel_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   OptimizeLevel
		wantErr bool
	}{
		{"level zero is valid", 0, false},
		{"level one is valid", 1, false},
		{"level two is valid", 2, false},
		{"negative is invalid", -1, true},
		{"three is invalid", 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.value.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("OptimizeLevel(%d).Validate() error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidOptimizeLevel) {
				t.Errorf("error should wrap ErrInvalidOptimizeLevel, got: %v", err)
			}
		})
	}
}

func TestOptimizeLevel_String(t *testing.T) {
	t.Parallel()

	if got := OptimizeLevel(2).String(); got != "2" {
		t.Errorf("OptimizeLevel(2).String() = %q, want %q", got, "2")
	}
}
