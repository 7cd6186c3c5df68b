// Package table implements a fixed-capacity open-addressing map from 32-bit
// keys (usually name hashes) to 32-bit values (usually slot indices), with a
// reverse value-to-key lookup.
//
// Keys probe linearly from key % capacity. A slot is empty when its value is
// Invalid, so Invalid itself cannot be stored. Removal re-seats every entry of
// the following probe run that is not at its home slot, so lookups of keys
// that collided with the removed one keep working without tombstones.
//
// The zero Table is valid and empty; every insert fails and every lookup
// misses.
package table

import "math"

// Invalid is returned by lookups that miss and marks empty slots.
const Invalid = math.MaxUint32

// Table is not safe for concurrent use.
type Table struct {
	keys   []uint32
	values []uint32
	count  uint32
}

// New creates a table with room for capacity entries.
func New(capacity uint32) *Table {
	t := &Table{
		keys:   make([]uint32, capacity),
		values: make([]uint32, capacity),
	}
	t.Reset()
	return t
}

// Reset removes every entry.
func (t *Table) Reset() {
	for i := range t.values {
		t.values[i] = Invalid
	}
	t.count = 0
}

// Insert binds key to value. It reports false, leaving the table unchanged,
// when key is already present, the table is full, or value is Invalid.
func (t *Table) Insert(key, value uint32) bool {
	capacity := t.Cap()
	if capacity == 0 || value == Invalid || t.count >= capacity {
		return false
	}

	first := key % capacity
	idx := first
	for {
		if t.values[idx] == Invalid {
			t.keys[idx] = key
			t.values[idx] = value
			t.count++
			return true
		}
		if t.keys[idx] == key {
			return false
		}
		idx = (idx + 1) % capacity
		if idx == first {
			return false
		}
	}
}

// Get returns the value bound to key, or Invalid.
func (t *Table) Get(key uint32) uint32 {
	if idx := t.FindIndex(key); idx != Invalid {
		return t.values[idx]
	}
	return Invalid
}

// Key returns the key bound to value, or Invalid. It scans every slot.
func (t *Table) Key(value uint32) uint32 {
	if idx := t.findValue(value); idx != Invalid {
		return t.keys[idx]
	}
	return Invalid
}

// FindIndex returns the slot holding key, or Invalid.
func (t *Table) FindIndex(key uint32) uint32 {
	capacity := t.Cap()
	if capacity == 0 {
		return Invalid
	}

	first := key % capacity
	idx := first
	for {
		if t.values[idx] == Invalid {
			return Invalid
		}
		if t.keys[idx] == key {
			return idx
		}
		idx = (idx + 1) % capacity
		if idx == first {
			return Invalid
		}
	}
}

// Has reports whether key is present.
func (t *Table) Has(key uint32) bool {
	return t.FindIndex(key) != Invalid
}

// Remove unbinds key.
func (t *Table) Remove(key uint32) bool {
	idx := t.FindIndex(key)
	if idx == Invalid {
		return false
	}
	t.removeIndex(idx)
	return true
}

// RemoveValue unbinds the key that maps to value.
func (t *Table) RemoveValue(value uint32) bool {
	if value == Invalid {
		return false
	}
	idx := t.findValue(value)
	if idx == Invalid {
		return false
	}
	t.removeIndex(idx)
	return true
}

// Count returns the number of entries.
func (t *Table) Count() uint32 { return t.count }

// Cap returns the number of slots.
func (t *Table) Cap() uint32 { return uint32(len(t.values)) }

// Each calls fn for every entry in slot order until fn returns false.
// fn must not mutate the table.
func (t *Table) Each(fn func(key, value uint32) bool) {
	for i, v := range t.values {
		if v == Invalid {
			continue
		}
		if !fn(t.keys[i], v) {
			return
		}
	}
}

// Clone returns an independent copy of t.
func (t *Table) Clone() *Table {
	c := &Table{}
	Copy(c, t)
	return c
}

// Copy makes dst an independent copy of src: same capacity, same entries.
func Copy(dst, src *Table) {
	dst.keys = make([]uint32, len(src.keys))
	dst.values = make([]uint32, len(src.values))
	copy(dst.keys, src.keys)
	copy(dst.values, src.values)
	dst.count = src.count
}

func (t *Table) findValue(value uint32) uint32 {
	for i, v := range t.values {
		if v == value {
			return uint32(i)
		}
	}
	return Invalid
}

func (t *Table) removeIndex(idx uint32) {
	capacity := t.Cap()
	t.values[idx] = Invalid
	t.count--

	for i := (idx + 1) % capacity; t.values[i] != Invalid; i = (i + 1) % capacity {
		key, value := t.keys[i], t.values[i]
		if t.FindIndex(key) == i {
			continue
		}
		t.values[i] = Invalid
		t.count--
		t.Insert(key, value)
	}
}
