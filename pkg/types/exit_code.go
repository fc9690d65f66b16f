// SPDX-License-Identifier: MPL-2.0

// Package types defines cross-cutting typed values used by multiple domain
// packages (resource, collection, policy, etc.). These are foundation types
// that carry semantic meaning and validation but have no domain-specific
// dependencies.
//
// This package is a leaf dependency: it imports only the standard library.
// Domain packages import it; it never imports domain packages.
package types

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

// Exit codes reserved by the CLI. Script and packaging failures map onto
// these so wrapper tooling can branch on the process status alone.
const (
	ExitSuccess     ExitCode = 0
	ExitFailure     ExitCode = 1
	ExitUsageError  ExitCode = 2
	ExitEvalError   ExitCode = 3
	ExitConfigError ExitCode = 4
)

type (
	// ExitCode is a process exit status. POSIX truncates the status to a
	// byte, so only 0-255 are representable; zero is success.
	ExitCode int

	// InvalidExitCodeError reports a code outside 0-255.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap lets errors.Is match ErrInvalidExitCode.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate rejects codes a POSIX process cannot actually report.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess reports whether the code signals a clean exit.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// String renders the code in decimal, as shells display it.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
