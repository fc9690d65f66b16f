// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidOptimizeLevel is the sentinel error wrapped by InvalidOptimizeLevelError.
var ErrInvalidOptimizeLevel = errors.New("invalid optimize level")

type (
	// OptimizeLevel represents a CPython bytecode optimization level.
	// Valid levels are 0 (none), 1 (-O), and 2 (-OO). The zero value (0)
	// means no optimization and is valid.
	OptimizeLevel int

	// InvalidOptimizeLevelError is returned when an OptimizeLevel value is
	// outside the valid range (0-2).
	InvalidOptimizeLevelError struct {
		Value OptimizeLevel
	}
)

// String returns the decimal string representation of the OptimizeLevel.
func (l OptimizeLevel) String() string { return strconv.Itoa(int(l)) }

// Validate returns an error if the OptimizeLevel is outside the valid
// range (0-2).
func (l OptimizeLevel) Validate() error {
	if l < 0 || l > 2 {
		return &InvalidOptimizeLevelError{Value: l}
	}
	return nil
}

// Error implements the error interface for InvalidOptimizeLevelError.
func (e *InvalidOptimizeLevelError) Error() string {
	return fmt.Sprintf("invalid optimize level %d: must be 0, 1, or 2", e.Value)
}

// Unwrap returns ErrInvalidOptimizeLevel for errors.Is() compatibility.
func (e *InvalidOptimizeLevelError) Unwrap() error { return ErrInvalidOptimizeLevel }
