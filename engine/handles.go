package engine

import "github.com/wippyai/resource-pool/handle"

// Handle types, one per resource kind. They convert to handle.Handle for
// printing and registry access but never to each other implicitly.
type (
	Buffer        uint64
	Texture       uint64
	Shader        uint64
	CommandBuffer uint64
	Sound         uint64
	Mesh          uint64
	Material      uint64
	Font          uint64
	Geometry      uint64
)

// Resource kind names as registered in a device's registry.
const (
	KindBuffer        = "buffer"
	KindTexture       = "texture"
	KindShader        = "shader"
	KindCommandBuffer = "command_buffer"
	KindSound         = "sound"
	KindMesh          = "mesh"
	KindMaterial      = "material"
	KindFont          = "font"
	KindGeometry      = "geometry"
)

func (h Buffer) String() string        { return handle.Handle(h).String() }
func (h Texture) String() string       { return handle.Handle(h).String() }
func (h Shader) String() string        { return handle.Handle(h).String() }
func (h CommandBuffer) String() string { return handle.Handle(h).String() }
func (h Sound) String() string         { return handle.Handle(h).String() }
func (h Mesh) String() string          { return handle.Handle(h).String() }
func (h Material) String() string      { return handle.Handle(h).String() }
func (h Font) String() string          { return handle.Handle(h).String() }
func (h Geometry) String() string      { return handle.Handle(h).String() }
