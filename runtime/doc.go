// Package runtime lets WebAssembly guests manage pooled resources.
//
// The runtime instantiates a host module named "respool" on a wazero
// runtime. Guests address a pool by its ordinal in the resource.Registry and
// a resource by its slot index; every value is an i32 and -1 means miss:
//
//	kind(ptr, len) -> ordinal             pool ordinal of the kind name
//	hash_name(ptr, len) -> key            name key of a string in guest memory
//	get_or_allocate(kind, key) -> index   slot bound to key, allocated on miss
//	lookup(kind, key) -> index            slot bound to key
//	destroy(kind, index) -> 0|1           destroy the live resource in a slot
//	has(kind, index) -> 0|1
//	count(kind) -> n
//	capacity(kind) -> n
//
// Guests only see slot indices. An index kept past destroy names whatever
// occupies the slot next, so guests re-resolve shared resources by key with
// lookup.
//
// Usage:
//
//	rt, err := runtime.New(ctx, device.Registry())
//	defer rt.Close(ctx)
//	mod, err := rt.Load(ctx, "game", wasmBytes)
//	n, err := mod.CallI32(ctx, "load_level")
package runtime
