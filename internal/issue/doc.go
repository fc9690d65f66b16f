// SPDX-License-Identifier: MPL-2.0

// Package issue turns failures into guidance.
//
// It has two halves: ActionableError, a structured error carrying the failed
// operation, the resource involved, and remediation suggestions; and a
// catalog of known issues rendered as Markdown cards when the CLI can map a
// failure to one.
package issue
