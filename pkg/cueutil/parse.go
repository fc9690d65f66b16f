// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseResult is a successful parse: the decoded Go value plus the unified
// CUE value for callers that need to inspect fields beyond what T captures.
type ParseResult[T any] struct {
	Value   *T
	Unified cue.Value
}

// ParseAndDecode validates a CUE document against an embedded schema and
// decodes it into T. schemaPath selects the definition inside the schema to
// unify with, e.g. "#Policy" or "#Config".
//
// The pipeline is: compile the schema, compile the document, unify the
// document with the schema definition, validate, decode. Schema compilation
// failures are internal errors (the schema ships inside the binary);
// document failures come back through FormatError with the document's
// filename attached.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}
	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	docValue := ctx.CompileBytes(data, cue.Filename(filename))
	if docValue.Err() != nil {
		return nil, FormatError(docValue.Err(), filename)
	}

	unified := schemaRoot.Unify(docValue)

	var validateOpts []cue.Option
	if options.concrete {
		validateOpts = append(validateOpts, cue.Concrete(true))
	}
	if err := unified.Validate(validateOpts...); err != nil {
		return nil, FormatError(err, filename)
	}

	var decoded T
	if err := unified.Decode(&decoded); err != nil {
		return nil, FormatError(err, filename)
	}
	return &ParseResult[T]{Value: &decoded, Unified: unified}, nil
}

// ParseAndDecodeString is ParseAndDecode for schemas embedded as string
// constants.
func ParseAndDecodeString[T any](schema string, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	return ParseAndDecode[T]([]byte(schema), data, schemaPath, opts...)
}
