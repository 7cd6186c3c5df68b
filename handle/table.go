package handle

// Table associates keys with handles in two packed parallel arrays.
// Lookups scan linearly, which is cheap at the sizes it is used for; removal
// swaps the last pair into the hole. A key maps to at most one handle.
// The zero Table has no capacity.
type Table[K comparable] struct {
	keys    []K
	handles []Handle
	count   uint32
}

// NewTable creates a table holding up to capacity pairs.
func NewTable[K comparable](capacity uint32) *Table[K] {
	return &Table[K]{
		keys:    make([]K, capacity),
		handles: make([]Handle, capacity),
	}
}

// Insert binds key to h. It fails if key is already bound or the table is full.
func (t *Table[K]) Insert(key K, h Handle) bool {
	if t.count >= uint32(len(t.keys)) || t.findIndex(key) >= 0 {
		return false
	}
	t.keys[t.count] = key
	t.handles[t.count] = h
	t.count++
	return true
}

// Find returns the handle bound to key, or Invalid.
func (t *Table[K]) Find(key K) Handle {
	if i := t.findIndex(key); i >= 0 {
		return t.handles[i]
	}
	return Invalid
}

// Has reports whether key is bound.
func (t *Table[K]) Has(key K) bool {
	return t.findIndex(key) >= 0
}

// Remove unbinds the key that maps to h.
func (t *Table[K]) Remove(h Handle) bool {
	for i := uint32(0); i < t.count; i++ {
		if t.handles[i] == h {
			t.removeIndex(i)
			return true
		}
	}
	return false
}

// RemoveKey unbinds key.
func (t *Table[K]) RemoveKey(key K) bool {
	i := t.findIndex(key)
	if i < 0 {
		return false
	}
	t.removeIndex(uint32(i))
	return true
}

// Reset unbinds every key.
func (t *Table[K]) Reset() {
	var zero K
	for i := uint32(0); i < t.count; i++ {
		t.keys[i] = zero
		t.handles[i] = 0
	}
	t.count = 0
}

func (t *Table[K]) Count() uint32 { return t.count }
func (t *Table[K]) Cap() uint32   { return uint32(len(t.keys)) }

func (t *Table[K]) findIndex(key K) int {
	for i := uint32(0); i < t.count; i++ {
		if t.keys[i] == key {
			return int(i)
		}
	}
	return -1
}

func (t *Table[K]) removeIndex(i uint32) {
	var zero K
	t.count--
	t.keys[i] = t.keys[t.count]
	t.handles[i] = t.handles[t.count]
	t.keys[t.count] = zero
	t.handles[t.count] = 0
}
