// Package engine groups resource pools into devices.
//
// A Device owns one pool per resource kind, sized by config.Limits:
//
//	Graphics  buffers, textures, shaders, command buffers
//	Audio     sounds (locked, released from the mixer goroutine)
//	Assets    materials, meshes, fonts, geometries
//
// Pool constructors and destructors call into a GraphicsBackend or
// AudioBackend, which own the native objects. NoopGraphics and NoopAudio
// accept everything and only count live objects.
//
// # Named loading
//
// Textures, shaders, sounds and assets are shared by name. The Acquire and
// Load helpers hash the name, reuse a live resource bound to it, and only
// construct on first use:
//
//	dev, err := engine.Open(config.DefaultLimits())
//	defer dev.Close()
//
//	tex, err := dev.Graphics.AcquireTexture("textures/crate.png", engine.TextureInfo{
//	    Width: 256, Height: 256,
//	})
//
// # Teardown
//
// Assets own GPU resources (mesh buffers, font atlases), so Close purges
// assets before graphics and audio, then closes the backends. A YAML
// Manifest can be preloaded with Device.Preload.
package engine
