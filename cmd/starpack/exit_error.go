// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/starpack/starpack/pkg/types"
)

// ExitError carries the process exit code a failed command wants, letting
// RunE handlers return instead of calling os.Exit and skipping deferred
// cleanup. Execute unwraps it at the top level.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error reports the underlying message, or the bare code when there is no
// wrapped error.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap exposes the wrapped error to errors.Is/As.
func (e *ExitError) Unwrap() error {
	return e.Err
}
