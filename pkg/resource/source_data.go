// SPDX-License-Identifier: MPL-2.0

package resource

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/starpack/starpack/pkg/types"
)

// ErrSourceResolution is the sentinel error wrapped by SourceResolutionError.
var ErrSourceResolution = errors.New("source resolution failed")

// ErrTextDecoding is the sentinel error wrapped by TextDecodingError.
var ErrTextDecoding = errors.New("text decoding failed")

type (
	// SourceData is a lazily resolvable byte payload backing a record:
	// either held in memory or read from a file on demand. The zero value
	// is an empty in-memory payload.
	SourceData struct {
		data []byte
		path types.FilesystemPath
	}

	// SourceResolutionError is returned when a file-backed payload cannot
	// be read from its underlying storage.
	SourceResolutionError struct {
		Path types.FilesystemPath
		Err  error
	}

	// TextDecodingError is returned when a resolved payload is not valid
	// UTF-8 text. Offset is the byte offset of the first invalid byte.
	TextDecodingError struct {
		Offset int
	}
)

// MemoryData returns a SourceData holding the given bytes in memory.
// The slice is not copied; callers hand over ownership.
func MemoryData(data []byte) SourceData {
	return SourceData{data: data}
}

// FileData returns a SourceData that resolves by reading the given file.
func FileData(path types.FilesystemPath) SourceData {
	return SourceData{path: path}
}

// IsFileBacked reports whether resolution reads from the filesystem.
func (d SourceData) IsFileBacked() bool { return d.path != "" }

// Path returns the backing file path, or "" for in-memory payloads.
func (d SourceData) Path() types.FilesystemPath { return d.path }

// Resolve returns the payload bytes. File-backed payloads are read on
// every call; in-memory payloads are copied so callers can never mutate
// the record's backing array.
func (d SourceData) Resolve() ([]byte, error) {
	if d.path != "" {
		raw, err := os.ReadFile(string(d.path))
		if err != nil {
			return nil, &SourceResolutionError{Path: d.path, Err: err}
		}
		return raw, nil
	}
	out := make([]byte, len(d.data))
	copy(out, d.data)
	return out, nil
}

// ResolveText resolves the payload and decodes it as UTF-8 text. The two
// failure modes stay distinct: resolution failures surface as
// SourceResolutionError, malformed text as TextDecodingError.
func (d SourceData) ResolveText() (string, error) {
	raw, err := d.Resolve()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", &TextDecodingError{Offset: invalidByteOffset(raw)}
	}
	return string(raw), nil
}

// String describes the payload's backing for logs.
func (d SourceData) String() string {
	if d.path != "" {
		return fmt.Sprintf("file %s", d.path)
	}
	return fmt.Sprintf("memory (%d bytes)", len(d.data))
}

func invalidByteOffset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// Error implements the error interface for SourceResolutionError.
func (e *SourceResolutionError) Error() string {
	return fmt.Sprintf("error resolving source data from %s: %v", e.Path, e.Err)
}

// Unwrap returns both ErrSourceResolution and the underlying read error so
// errors.Is matches either.
func (e *SourceResolutionError) Unwrap() []error {
	return []error{ErrSourceResolution, e.Err}
}

// Error implements the error interface for TextDecodingError.
func (e *TextDecodingError) Error() string {
	return fmt.Sprintf("data is not valid UTF-8 text (first invalid byte at offset %d)", e.Offset)
}

// Unwrap returns ErrTextDecoding for errors.Is() compatibility.
func (e *TextDecodingError) Unwrap() error { return ErrTextDecoding }
