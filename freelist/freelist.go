// Package freelist recycles 0-based slot indices from a fixed-capacity range.
//
// Indices live in a single dense/sparse pair: dense[0:count) holds the taken
// indices in packed order and dense[count:capacity) the available ones, while
// sparse maps an index to its position in dense. Fresh indices are handed out
// in ascending order; a returned index is swapped to dense[count] and is
// therefore the next one taken.
//
// The zero Freelist is valid and empty: Take reports Invalid and every query
// answers as if the capacity were zero.
package freelist

import "math"

// Invalid is returned by Take when no index is available.
const Invalid = math.MaxUint32

// Freelist is a fixed-capacity index recycler. It is not safe for concurrent use.
type Freelist struct {
	data     []uint32
	count    uint32
	capacity uint32
}

// New creates a freelist holding indices [0, capacity).
func New(capacity uint32) *Freelist {
	f := &Freelist{}
	f.Init(capacity)
	return f
}

// Init (re)allocates the backing arrays for capacity indices and resets the list.
func (f *Freelist) Init(capacity uint32) {
	f.data = make([]uint32, 2*int(capacity))
	f.capacity = capacity
	f.Reset()
}

// Reset returns every index to the list.
func (f *Freelist) Reset() {
	f.count = 0
	dense := f.Dense()
	for i := range dense {
		dense[i] = uint32(i)
	}
	sparse := f.Sparse()
	for i := range sparse {
		sparse[i] = Invalid
	}
}

// Take hands out an index, or Invalid when all indices are taken.
func (f *Freelist) Take() uint32 {
	if f.count >= f.capacity {
		return Invalid
	}
	pos := f.count
	f.count++

	idx := f.data[pos]
	f.data[f.capacity+idx] = pos
	return idx
}

// Free returns idx to the list. It reports false, without changing any
// state, when idx is out of range or not currently taken.
func (f *Freelist) Free(idx uint32) bool {
	if f.count == 0 || idx >= f.capacity {
		return false
	}
	dense, sparse := f.Dense(), f.Sparse()

	pos := sparse[idx]
	if pos == Invalid {
		return false
	}

	f.count--
	last := dense[f.count]

	dense[f.count] = idx
	dense[pos] = last
	sparse[last] = pos
	sparse[idx] = Invalid

	return true
}

// Has reports whether idx is currently taken.
func (f *Freelist) Has(idx uint32) bool {
	if idx >= f.capacity {
		return false
	}
	return f.data[f.capacity+idx] != Invalid
}

// Count returns the number of taken indices.
func (f *Freelist) Count() uint32 { return f.count }

// Cap returns the number of indices managed by the list.
func (f *Freelist) Cap() uint32 { return f.capacity }

// Dense returns the packed index array. The first Count entries are taken.
// It is nil for a zero Freelist.
func (f *Freelist) Dense() []uint32 {
	if f.data == nil {
		return nil
	}
	return f.data[:f.capacity]
}

// Sparse returns the index-to-position array; Invalid marks available indices.
// It is nil for a zero Freelist.
func (f *Freelist) Sparse() []uint32 {
	if f.data == nil {
		return nil
	}
	return f.data[f.capacity:]
}

// Live returns the taken indices in dense order. The slice aliases internal
// storage and is invalidated by the next Take or Free.
func (f *Freelist) Live() []uint32 {
	if f.data == nil {
		return nil
	}
	return f.data[:f.count]
}

// Clone returns an independent copy of f.
func (f *Freelist) Clone() *Freelist {
	c := &Freelist{}
	Copy(c, f)
	return c
}

// Copy makes dst an independent copy of src with the same capacity.
func Copy(dst, src *Freelist) {
	if src.data == nil {
		*dst = Freelist{}
		return
	}
	dst.data = make([]uint32, len(src.data))
	copy(dst.data, src.data)
	dst.count = src.count
	dst.capacity = src.capacity
}
