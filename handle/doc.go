// Package handle provides opaque generational handles and the allocator that
// issues them.
//
// A Handle names a pool slot by index and carries the slot's generation at the
// time it was issued. Every free bumps the generation, so a handle retained
// past its release no longer passes Allocator.Has even after the index has
// been reused:
//
//	a := handle.NewAllocator("mesh", 512)
//	h, err := a.Alloc()
//	...
//	a.Free(h)
//	h2, _ := a.Alloc() // same index, new generation
//	a.Has(h)           // false
//	a.Has(h2)          // true
//
// Resource kinds get distinct handle types at the API boundary by declaring
// them over Handle:
//
//	type Texture handle.Handle
//
// Table is a small key-to-handle index for callers that do not need the
// reverse lookups of package table.
package handle
