// Package state holds the client-side normalized store: id-keyed entity
// collections, per-domain error lists and the session, updated only through
// dispatched actions.
package state

import (
	"maps"
	"slices"
)

// Entity is a record stored in a Collection.
type Entity interface {
	comparable
	EntityID() int64
}

// Collection is an immutable id-keyed set of records. Every operation
// returns a collection and leaves the receiver untouched; operations that
// change nothing return the receiver itself, so pointer equality means
// content equality. A nil *Collection is an empty collection.
type Collection[T Entity] struct {
	items map[int64]T
}

// NewCollection returns a collection holding items.
func NewCollection[T Entity](items ...T) *Collection[T] {
	m := make(map[int64]T, len(items))
	for _, item := range items {
		m[item.EntityID()] = item
	}
	return &Collection[T]{items: m}
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(id int64) (T, bool) {
	if c == nil {
		var zero T
		return zero, false
	}
	item, ok := c.items[id]
	return item, ok
}

// Has reports whether the collection holds id.
func (c *Collection[T]) Has(id int64) bool {
	_, ok := c.Get(id)
	return ok
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// IDs returns the ids in ascending order.
func (c *Collection[T]) IDs() []int64 {
	if c == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(c.items))
}

// Values returns the records in ascending id order.
func (c *Collection[T]) Values() []T {
	ids := c.IDs()
	values := make([]T, 0, len(ids))
	for _, id := range ids {
		values = append(values, c.items[id])
	}
	return values
}

// Replace returns a collection holding exactly items.
func (c *Collection[T]) Replace(items map[int64]T) *Collection[T] {
	return &Collection[T]{items: maps.Clone(nonNil(items))}
}

// Upsert returns a collection where item is stored under its id.
func (c *Collection[T]) Upsert(item T) *Collection[T] {
	return c.Merge(map[int64]T{item.EntityID(): item})
}

// Merge returns a collection with items added, overwriting records with the
// same id.
func (c *Collection[T]) Merge(items map[int64]T) *Collection[T] {
	changed := false
	for id, item := range items {
		if old, ok := c.Get(id); !ok || old != item {
			changed = true
			break
		}
	}
	if !changed {
		return c.orEmpty()
	}

	next := make(map[int64]T, c.Len()+len(items))
	if c != nil {
		maps.Copy(next, c.items)
	}
	maps.Copy(next, items)
	return &Collection[T]{items: next}
}

// MergeSlice is Merge for records keyed by their own ids.
func (c *Collection[T]) MergeSlice(items []T) *Collection[T] {
	m := make(map[int64]T, len(items))
	for _, item := range items {
		m[item.EntityID()] = item
	}
	return c.Merge(m)
}

// Remove returns a collection without id.
func (c *Collection[T]) Remove(id int64) *Collection[T] {
	if !c.Has(id) {
		return c.orEmpty()
	}
	next := maps.Clone(c.items)
	delete(next, id)
	return &Collection[T]{items: next}
}

// Filter returns the records, in ascending id order, for which keep
// returns true.
func (c *Collection[T]) Filter(keep func(T) bool) []T {
	var out []T
	for _, item := range c.Values() {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func (c *Collection[T]) orEmpty() *Collection[T] {
	if c == nil {
		return &Collection[T]{items: map[int64]T{}}
	}
	return c
}

func nonNil[T any](m map[int64]T) map[int64]T {
	if m == nil {
		return map[int64]T{}
	}
	return m
}
