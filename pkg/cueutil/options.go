// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize caps CUE input at 5MB. Policy and config documents are
// small; anything bigger is either a mistake or an attempt to exhaust memory.
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

type (
	// parseOptions carries the knobs ParseAndDecode accepts.
	parseOptions struct {
		filename    string
		maxFileSize int64
		concrete    bool
	}

	// Option adjusts a single parse knob.
	Option func(*parseOptions)
)

func defaultOptions() parseOptions {
	return parseOptions{
		maxFileSize: DefaultMaxFileSize,
		concrete:    true,
	}
}

// WithFilename names the input in error messages. Without it, errors are
// reported against "<input>".
func WithFilename(name string) Option {
	return func(o *parseOptions) {
		o.filename = name
	}
}

// WithMaxFileSize overrides the DefaultMaxFileSize cap.
func WithMaxFileSize(size int64) Option {
	return func(o *parseOptions) {
		o.maxFileSize = size
	}
}

// WithConcrete controls whether every value must be concrete after
// unification. The default is true; pass false for documents whose schema
// declares optional fields that may stay unset.
func WithConcrete(concrete bool) Option {
	return func(o *parseOptions) {
		o.concrete = concrete
	}
}
