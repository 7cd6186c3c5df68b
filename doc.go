// Package resourcepool is a handle-based resource pool library.
//
// Resources of one kind live in a fixed-capacity pool and are addressed by
// generational 64-bit handles instead of pointers. Optional name tables map
// 32-bit content keys to handles so that loads of the same asset share one
// slot.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	resourcepool/
//	├── freelist/        Dense/sparse index allocator with O(1) alloc and free
//	├── handle/          Generational handles, Allocator and HandleTable
//	├── table/           Open-addressed bidirectional key/value map
//	├── namehash/        32-bit name keys (murmur3)
//	├── resource/        Generic Pool, Registry, Locked wrapper, observers
//	├── errors/          Structured error types for debugging
//	├── config/          Pool limits and logging from TOML or YAML
//	├── engine/          Device with graphics, audio and asset pools
//	├── runtime/         wazero host module exposing pools to wasm guests
//	└── scripting/       gopher-lua bindings over the same pools
//
// # Quick Start
//
// Open a device and share a named texture:
//
//	dev, err := engine.Open(config.DefaultLimits())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
//
//	tex, err := dev.Graphics.AcquireTexture("ui/atlas.png", engine.TextureInfo{
//	    Width: 256, Height: 256, Format: engine.FormatRGBA8,
//	})
//
// Define a pool for your own kind:
//
//	type MeshHandle uint64
//
//	meshes := resource.New[MeshHandle, Mesh, MeshInfo]("mesh", 256,
//	    resource.Hooks[MeshHandle, Mesh, MeshInfo]{Construct: buildMesh},
//	    resource.WithNames())
//
// # Handles
//
// A handle packs a slot index in the low 32 bits and the slot's generation in
// the high 32 bits. Destroying a resource bumps the generation, so stale
// handles are detected rather than aliasing whatever reuses the slot.
// handle.Invalid never refers to a live resource.
//
// # Thread Safety
//
// Pools, tables and allocators are NOT thread-safe. Share a pool between
// goroutines through resource.Locked, or guard it externally.
package resourcepool
