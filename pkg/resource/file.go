// SPDX-License-Identifier: MPL-2.0

package resource

import (
	"fmt"

	"github.com/starpack/starpack/pkg/types"
)

// FileResource describes an arbitrary file carried alongside the packaged
// program without Python semantics attached. Like bytecode records, file
// records never surface in configuration scripts.
type FileResource struct {
	// Path is the file's install path relative to the bundle root, using
	// forward slashes.
	Path types.FilesystemPath

	// Data is the file payload.
	Data SourceData

	// IsExecutable reports whether the file should carry the executable
	// bit when materialized.
	IsExecutable bool
}

// Kind returns KindFile.
func (f *FileResource) Kind() Kind { return KindFile }

// Description identifies the record in logs and error messages.
func (f *FileResource) Description() string {
	return fmt.Sprintf("file %s", f.Path)
}

// Validate returns an error if the install path is invalid.
func (f *FileResource) Validate() error {
	return f.Path.Validate()
}

func (*FileResource) resourceSigil() {}
