// Package resource provides fixed-capacity pools of typed resources addressed
// by generational handles.
//
// A Pool owns three things for one resource kind: a handle.Allocator that
// decides which slots are live, a record array indexed by slot, and
// optionally a table.Table that maps 32-bit content keys (see namehash) to
// slots. Pools never grow; running out of slots is an ErrExhausted error.
//
// # Handles
//
// Each kind declares its own handle type so the compiler keeps kinds apart:
//
//	type TextureHandle uint64
//
//	textures := resource.New[TextureHandle, Texture, TextureInfo](
//	    "texture", 512, resource.Hooks[TextureHandle, Texture, TextureInfo]{
//	        Construct: func(h TextureHandle, t *Texture, info TextureInfo) error { ... },
//	        Destruct:  func(h TextureHandle, t *Texture) { ... },
//	    }, resource.WithNames())
//
// A handle packs the slot index with the slot's generation. Destroying a
// handle bumps the generation, so stale copies fail Has and Get instead of
// aliasing whatever reuses the slot.
//
// # Lifecycle
//
//	h, err := textures.Create(info)      // allocate, zero, construct
//	rec, ok := textures.Get(h)           // live record
//	err = textures.Destroy(h)            // free slot, drop name, destruct, zero
//
// Named resources are shared by key:
//
//	key := namehash.String("textures/crate.png")
//	h, err := textures.GetOrAllocate(key) // existing or fresh unconstructed slot
//	if !textures.IsInitialized(h) {
//	    err = textures.Initialize(h, info)
//	}
//
// # Observers
//
// Observers receive every lifecycle transition synchronously:
//
//	textures.Subscribe(resource.ObserverFunc(func(e resource.Event) {
//	    log.Printf("%s %s %v", e.Kind, e.Type, e.Handle)
//	}))
//
// # Registry and concurrency
//
// A Registry indexes pools of different kinds through the type-erased
// Pooler interface; the wasm host module and Lua bindings work on it. Pools
// are single-threaded. Wrap a pool in Locked when it is shared between
// goroutines.
package resource
