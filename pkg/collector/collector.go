// SPDX-License-Identifier: MPL-2.0

package collector

import (
	"sort"
)

// Collector is an ordered, name-keyed set of collected resources. The zero
// value is not usable; construct with New.
type Collector struct {
	entries map[string]Item
}

// New returns an empty collector.
func New() *Collector {
	return &Collector{entries: make(map[string]Item)}
}

// Add submits an item. The item's context is snapshotted, so later script
// mutations of the originating wrapper do not change what was collected.
// A second submission with the same identity replaces the first.
//
// Items whose context excludes them (Include false) are skipped; Add
// reports whether the item was actually retained.
func (c *Collector) Add(it Item) (bool, error) {
	if err := it.Validate(); err != nil {
		return false, err
	}
	if it.Context != nil {
		if !it.Context.Include {
			return false, nil
		}
		it.Context = it.Context.Clone()
	}
	c.entries[it.Key()] = it
	return true, nil
}

// Len returns the number of collected entries.
func (c *Collector) Len() int { return len(c.entries) }

// Items returns the collected entries sorted by identity key.
func (c *Collector) Items() []Item {
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	items := make([]Item, 0, len(keys))
	for _, key := range keys {
		items = append(items, c.entries[key])
	}
	return items
}
