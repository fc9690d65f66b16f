// SPDX-License-Identifier: MPL-2.0

// Package cueutil parses CUE documents against embedded schemas.
//
// Policy files and the tool configuration are both CUE documents validated
// the same way: compile the schema that ships inside the binary, compile the
// user's document, unify the two, then validate and decode into a typed Go
// struct. ParseAndDecode implements that pipeline once so the document
// packages only declare their schema and target type:
//
//	//go:embed policy_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Policy](
//	    schemaBytes,
//	    documentBytes,
//	    "#Policy",
//	    cueutil.WithFilename("policy.cue"),
//	)
//
// Validation failures come back with JSON-path locations ("rules[0].prefix")
// so users can find the offending field without reading CUE stack traces.
package cueutil
