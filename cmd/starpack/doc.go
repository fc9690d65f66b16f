// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for starpack.
//
// Commands are assembled by constructor functions (newBuildCommand,
// newConfigCommand, ...) that receive an *App, the composition root
// carrying the service interfaces handlers delegate to. Execute builds
// the production App, wires the root command, and runs it through fang
// for styled help, errors, and signal handling.
package cmd
