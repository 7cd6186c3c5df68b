package engine

import (
	"go.uber.org/zap"

	"github.com/wippyai/resource-pool/config"
	"github.com/wippyai/resource-pool/errors"
	"github.com/wippyai/resource-pool/handle"
	"github.com/wippyai/resource-pool/namehash"
	"github.com/wippyai/resource-pool/resource"
)

type BufferUsage uint8

const (
	BufferVertex BufferUsage = iota + 1
	BufferIndex
	BufferUniform
)

func (u BufferUsage) String() string {
	switch u {
	case BufferVertex:
		return "vertex"
	case BufferIndex:
		return "index"
	case BufferUniform:
		return "uniform"
	}
	return "unknown"
}

type BufferInfo struct {
	Usage BufferUsage
	Size  uint64
}

type BufferData struct {
	Usage BufferUsage
	Size  uint64
}

type TextureFormat uint8

const (
	FormatRGBA8 TextureFormat = iota + 1
	FormatBGRA8
	FormatR8
	FormatDepth32
)

var textureFormats = map[string]TextureFormat{
	"rgba8":   FormatRGBA8,
	"bgra8":   FormatBGRA8,
	"r8":      FormatR8,
	"depth32": FormatDepth32,
}

// ParseTextureFormat maps a manifest format name to a TextureFormat.
func ParseTextureFormat(s string) (TextureFormat, error) {
	if s == "" {
		return FormatRGBA8, nil
	}
	if f, ok := textureFormats[s]; ok {
		return f, nil
	}
	return 0, errors.InvalidInput(errors.PhaseConfig, "unknown texture format "+s)
}

// BytesPerPixel returns the texel size of f.
func (f TextureFormat) BytesPerPixel() uint64 {
	switch f {
	case FormatR8:
		return 1
	case FormatRGBA8, FormatBGRA8, FormatDepth32:
		return 4
	}
	return 0
}

type TextureInfo struct {
	Width, Height uint32
	Format        TextureFormat
	Mipmaps       bool
}

type TextureData struct {
	Width, Height uint32
	Format        TextureFormat
	Bytes         uint64
}

type ShaderStage uint8

const (
	StageVertex ShaderStage = 1 << iota
	StageFragment
	StageCompute
)

type ShaderInfo struct {
	Stages ShaderStage
	Code   []byte
}

type ShaderData struct {
	Stages   ShaderStage
	CodeSize int
}

type CommandBufferInfo struct {
	MaxCalls uint32
}

type CommandBufferData struct {
	MaxCalls uint32
	Calls    uint32
}

// Graphics owns the GPU resource pools of a device.
type Graphics struct {
	backend GraphicsBackend
	log     *zap.Logger

	Buffers        *resource.Pool[Buffer, BufferData, BufferInfo]
	Textures       *resource.Pool[Texture, TextureData, TextureInfo]
	Shaders        *resource.Pool[Shader, ShaderData, ShaderInfo]
	CommandBuffers *resource.Pool[CommandBuffer, CommandBufferData, CommandBufferInfo]
}

// NewGraphics creates the graphics pools sized by limits. Textures and
// shaders are named so loaders can share them by path.
func NewGraphics(backend GraphicsBackend, limits config.Limits, log *zap.Logger, obs ...resource.Observer) *Graphics {
	if log == nil {
		log = Logger()
	}
	g := &Graphics{backend: backend, log: log}

	g.Buffers = resource.New(KindBuffer, limits.Buffers, resource.Hooks[Buffer, BufferData, BufferInfo]{
		Construct: func(h Buffer, rec *BufferData, info BufferInfo) error {
			if info.Size == 0 {
				return errors.InvalidInput(errors.PhaseConstruct, "buffer size is zero")
			}
			if err := backend.CreateBuffer(h, info); err != nil {
				return err
			}
			rec.Usage, rec.Size = info.Usage, info.Size
			return nil
		},
		Destruct: func(h Buffer, rec *BufferData) { backend.DestroyBuffer(h) },
	}, poolOptions(log, false, obs)...)

	g.Textures = resource.New(KindTexture, limits.Textures, resource.Hooks[Texture, TextureData, TextureInfo]{
		Construct: func(h Texture, rec *TextureData, info TextureInfo) error {
			if info.Width == 0 || info.Height == 0 {
				return errors.InvalidInput(errors.PhaseConstruct, "texture has no extent")
			}
			if info.Format == 0 {
				info.Format = FormatRGBA8
			}
			if err := backend.CreateTexture(h, info); err != nil {
				return err
			}
			rec.Width, rec.Height, rec.Format = info.Width, info.Height, info.Format
			rec.Bytes = textureBytes(info)
			return nil
		},
		Destruct: func(h Texture, rec *TextureData) { backend.DestroyTexture(h) },
	}, poolOptions(log, true, obs)...)

	g.Shaders = resource.New(KindShader, limits.Shaders, resource.Hooks[Shader, ShaderData, ShaderInfo]{
		Construct: func(h Shader, rec *ShaderData, info ShaderInfo) error {
			if info.Stages == 0 {
				return errors.InvalidInput(errors.PhaseConstruct, "shader has no stages")
			}
			if err := backend.CreateShader(h, info); err != nil {
				return err
			}
			rec.Stages, rec.CodeSize = info.Stages, len(info.Code)
			return nil
		},
		Destruct: func(h Shader, rec *ShaderData) { backend.DestroyShader(h) },
	}, poolOptions(log, true, obs)...)

	g.CommandBuffers = resource.New(KindCommandBuffer, limits.CommandBuffers, resource.Hooks[CommandBuffer, CommandBufferData, CommandBufferInfo]{
		Construct: func(h CommandBuffer, rec *CommandBufferData, info CommandBufferInfo) error {
			if err := backend.CreateCommandBuffer(h, info); err != nil {
				return err
			}
			rec.MaxCalls = info.MaxCalls
			return nil
		},
		Destruct: func(h CommandBuffer, rec *CommandBufferData) { backend.DestroyCommandBuffer(h) },
	}, poolOptions(log, false, obs)...)

	return g
}

// AcquireTexture returns the texture registered under name, constructing it
// from info on first use.
func (g *Graphics) AcquireTexture(name string, info TextureInfo) (Texture, error) {
	return acquire(g.Textures, name, info)
}

// AcquireShader returns the shader registered under name, constructing it
// from info on first use.
func (g *Graphics) AcquireShader(name string, info ShaderInfo) (Shader, error) {
	return acquire(g.Shaders, name, info)
}

// Pools returns the graphics pools in dependency order.
func (g *Graphics) Pools() []resource.Pooler {
	return []resource.Pooler{g.Buffers, g.Textures, g.Shaders, g.CommandBuffers}
}

func (g *Graphics) close() error {
	return g.backend.Close()
}

func textureBytes(info TextureInfo) uint64 {
	n := uint64(info.Width) * uint64(info.Height) * info.Format.BytesPerPixel()
	if info.Mipmaps {
		n += n / 3
	}
	return n
}

// acquire is the loader idiom: look the name up, allocate on miss, and run
// the constructor only for slots that have not been initialized yet. A slot
// whose constructor fails is destroyed so the name can be retried.
func acquire[H ~uint64, D any, P any](p *resource.Pool[H, D, P], name string, info P) (H, error) {
	h, err := p.GetOrAllocate(namehash.String(name))
	if err != nil {
		return h, err
	}
	if p.IsInitialized(h) {
		return h, nil
	}
	if err := p.Initialize(h, info); err != nil {
		_ = p.Destroy(h)
		return H(handle.Invalid), err
	}
	return h, nil
}

func poolOptions(log *zap.Logger, named bool, obs []resource.Observer) []resource.Option {
	opts := []resource.Option{resource.WithLogger(log)}
	if named {
		opts = append(opts, resource.WithNames())
	}
	for _, o := range obs {
		opts = append(opts, resource.WithObserver(o))
	}
	return opts
}
