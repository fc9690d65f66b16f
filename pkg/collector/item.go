// SPDX-License-Identifier: MPL-2.0

package collector

import (
	"errors"

	"github.com/starpack/starpack/pkg/collection"
	"github.com/starpack/starpack/pkg/resource"
)

// ErrNoRecord is returned when an item without a record is submitted.
var ErrNoRecord = errors.New("item has no record")

// Item pairs a resource record with the collection context it was
// submitted under. Context is nil for kinds that carry none (extension
// modules, bytecode, plain files submitted directly).
type Item struct {
	Record  resource.Resource
	Context *collection.Context
}

// Key returns the item's identity within a collection. Records of the
// same kind and name replace each other; Description encodes exactly that
// identity.
func (it Item) Key() string { return it.Record.Description() }

// Validate returns an error if the record is missing or invalid, or if a
// present context violates its invariants.
func (it Item) Validate() error {
	if it.Record == nil {
		return ErrNoRecord
	}
	if err := it.Record.Validate(); err != nil {
		return err
	}
	if it.Context != nil {
		return it.Context.Validate()
	}
	return nil
}
