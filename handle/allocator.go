package handle

import (
	"github.com/wippyai/resource-pool/errors"
	"github.com/wippyai/resource-pool/freelist"
)

// Allocator issues generational handles from a fixed number of slots.
// Live slot indices are kept packed in the freelist's dense array, so Alloc,
// Has, Free and Count are O(1). Freeing a slot bumps its generation, which
// makes every handle previously issued for it stale.
//
// The zero Allocator is valid, has no slots, and reports every Alloc as
// exhausted. Allocator is not safe for concurrent use.
type Allocator struct {
	name  string
	slots freelist.Freelist
	gens  []uint32
}

// NewAllocator creates an allocator with capacity slots. name labels errors.
func NewAllocator(name string, capacity uint32) *Allocator {
	a := &Allocator{name: name}
	a.slots.Init(capacity)
	a.gens = make([]uint32, capacity)
	for i := range a.gens {
		a.gens[i] = 1
	}
	return a
}

// Alloc takes a free slot and returns its handle.
func (a *Allocator) Alloc() (Handle, error) {
	idx := a.slots.Take()
	if idx == freelist.Invalid {
		return Invalid, errors.Exhausted(errors.PhaseAlloc, a.name, a.slots.Cap())
	}
	return New(idx, a.gens[idx]), nil
}

// Has reports whether h is live: its slot is taken and its generation current.
func (a *Allocator) Has(h Handle) bool {
	idx := h.Index()
	if !a.slots.Has(idx) {
		return false
	}
	return a.gens[idx] == h.Generation()
}

// Free releases the slot of h. A handle that is not live is rejected with
// ErrDoubleFree and leaves the allocator unchanged.
func (a *Allocator) Free(h Handle) error {
	if !a.Has(h) {
		return errors.DoubleFree(a.name, h)
	}
	idx := h.Index()
	a.slots.Free(idx)
	a.bump(idx)
	return nil
}

// Reset releases every live handle at once.
func (a *Allocator) Reset() {
	for _, idx := range a.slots.Live() {
		a.bump(idx)
	}
	a.slots.Reset()
}

// Count returns the number of live handles.
func (a *Allocator) Count() uint32 { return a.slots.Count() }

// Cap returns the number of slots.
func (a *Allocator) Cap() uint32 { return a.slots.Cap() }

// Live returns the handle currently occupying slot idx.
func (a *Allocator) Live(idx uint32) (Handle, bool) {
	if !a.slots.Has(idx) {
		return Invalid, false
	}
	return New(idx, a.gens[idx]), true
}

// Handles returns a snapshot of the live handles in dense order.
func (a *Allocator) Handles() []Handle {
	live := a.slots.Live()
	out := make([]Handle, len(live))
	for i, idx := range live {
		out[i] = New(idx, a.gens[idx])
	}
	return out
}

// Each calls fn for every live handle in dense order until fn returns false.
// fn must not allocate or free.
func (a *Allocator) Each(fn func(Handle) bool) {
	for _, idx := range a.slots.Live() {
		if !fn(New(idx, a.gens[idx])) {
			return
		}
	}
}

func (a *Allocator) bump(idx uint32) {
	a.gens[idx]++
	if a.gens[idx] == 0 {
		a.gens[idx] = 1
	}
}
