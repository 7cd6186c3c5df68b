package engine

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/resource-pool/config"
	"github.com/wippyai/resource-pool/errors"
	"github.com/wippyai/resource-pool/handle"
	"github.com/wippyai/resource-pool/resource"
)

type MeshInfo struct {
	Vertices     uint32
	VertexStride uint32
	Indices      uint32
	Material     Material
}

type MeshData struct {
	VertexBuffer Buffer
	IndexBuffer  Buffer
	Indices      uint32
	Material     Material
}

type MaterialInfo struct {
	Shader   Shader
	Textures []Texture
	Color    [4]float32
}

type MaterialData struct {
	Shader   Shader
	Textures []Texture
	Color    [4]float32
}

type FontInfo struct {
	Size   float32
	Glyphs uint32
	Atlas  TextureInfo
}

type FontData struct {
	Size   float32
	Glyphs uint32
	Atlas  Texture
}

type GeometryInfo struct {
	Meshes []MeshInfo
}

type GeometryData struct {
	Meshes []Mesh
}

// Assets owns the pools of loaded content. Meshes and fonts create their
// backing GPU resources through Graphics and release them in their
// destructors. Materials only reference shared textures and shaders.
type Assets struct {
	gfx *Graphics
	log *zap.Logger

	Meshes     *resource.Pool[Mesh, MeshData, MeshInfo]
	Materials  *resource.Pool[Material, MaterialData, MaterialInfo]
	Fonts      *resource.Pool[Font, FontData, FontInfo]
	Geometries *resource.Pool[Geometry, GeometryData, GeometryInfo]
}

func NewAssets(gfx *Graphics, limits config.Limits, log *zap.Logger, obs ...resource.Observer) *Assets {
	if log == nil {
		log = Logger()
	}
	a := &Assets{gfx: gfx, log: log}

	a.Meshes = resource.New(KindMesh, limits.Meshes, resource.Hooks[Mesh, MeshData, MeshInfo]{
		Construct: a.constructMesh,
		Destruct: func(h Mesh, rec *MeshData) {
			release(a.log, gfx.Buffers, rec.VertexBuffer)
			release(a.log, gfx.Buffers, rec.IndexBuffer)
		},
	}, poolOptions(log, true, obs)...)

	a.Materials = resource.New(KindMaterial, limits.Materials, resource.Hooks[Material, MaterialData, MaterialInfo]{
		Construct: func(h Material, rec *MaterialData, info MaterialInfo) error {
			if !gfx.Shaders.IsInitialized(info.Shader) {
				return errors.InvalidHandle(errors.PhaseConstruct, KindShader, info.Shader)
			}
			for _, t := range info.Textures {
				if !gfx.Textures.IsInitialized(t) {
					return errors.InvalidHandle(errors.PhaseConstruct, KindTexture, t)
				}
			}
			rec.Shader = info.Shader
			rec.Textures = append([]Texture(nil), info.Textures...)
			rec.Color = info.Color
			return nil
		},
	}, poolOptions(log, true, obs)...)

	a.Fonts = resource.New(KindFont, limits.Fonts, resource.Hooks[Font, FontData, FontInfo]{
		Construct: func(h Font, rec *FontData, info FontInfo) error {
			atlas, err := gfx.Textures.Create(info.Atlas)
			if err != nil {
				return err
			}
			rec.Size, rec.Glyphs, rec.Atlas = info.Size, info.Glyphs, atlas
			return nil
		},
		Destruct: func(h Font, rec *FontData) {
			release(a.log, gfx.Textures, rec.Atlas)
		},
	}, poolOptions(log, true, obs)...)

	a.Geometries = resource.New(KindGeometry, limits.Geometries, resource.Hooks[Geometry, GeometryData, GeometryInfo]{
		Construct: func(h Geometry, rec *GeometryData, info GeometryInfo) error {
			meshes := make([]Mesh, 0, len(info.Meshes))
			for _, mi := range info.Meshes {
				m, err := a.Meshes.Create(mi)
				if err != nil {
					for _, done := range meshes {
						release(a.log, a.Meshes, done)
					}
					return err
				}
				meshes = append(meshes, m)
			}
			rec.Meshes = meshes
			return nil
		},
		Destruct: func(h Geometry, rec *GeometryData) {
			for _, m := range rec.Meshes {
				release(a.log, a.Meshes, m)
			}
		},
	}, poolOptions(log, true, obs)...)

	return a
}

func (a *Assets) constructMesh(h Mesh, rec *MeshData, info MeshInfo) error {
	if info.Vertices == 0 || info.VertexStride == 0 {
		return errors.InvalidInput(errors.PhaseConstruct, "mesh has no vertices")
	}
	if info.Material != 0 && !a.Materials.Has(info.Material) {
		return errors.InvalidHandle(errors.PhaseConstruct, KindMaterial, info.Material)
	}

	vb, err := a.gfx.Buffers.Create(BufferInfo{
		Usage: BufferVertex,
		Size:  uint64(info.Vertices) * uint64(info.VertexStride),
	})
	if err != nil {
		return err
	}
	ib := Buffer(handle.Invalid)
	if info.Indices > 0 {
		ib, err = a.gfx.Buffers.Create(BufferInfo{Usage: BufferIndex, Size: uint64(info.Indices) * 4})
		if err != nil {
			release(a.log, a.gfx.Buffers, vb)
			return err
		}
	}

	rec.VertexBuffer, rec.IndexBuffer = vb, ib
	rec.Indices, rec.Material = info.Indices, info.Material
	return nil
}

// LoadMaterial returns the material registered under name, constructing it
// on first use.
func (a *Assets) LoadMaterial(name string, info MaterialInfo) (Material, error) {
	return acquire(a.Materials, name, info)
}

// LoadFont returns the font registered under name, constructing it and its
// atlas texture on first use.
func (a *Assets) LoadFont(name string, info FontInfo) (Font, error) {
	return acquire(a.Fonts, name, info)
}

// LoadGeometry returns the geometry registered under name, constructing its
// meshes on first use.
func (a *Assets) LoadGeometry(name string, info GeometryInfo) (Geometry, error) {
	return acquire(a.Geometries, name, info)
}

// Pools returns the asset pools in dependency order.
func (a *Assets) Pools() []resource.Pooler {
	return []resource.Pooler{a.Materials, a.Meshes, a.Fonts, a.Geometries}
}

// Purge destroys every loaded asset, dependents first.
func (a *Assets) Purge() (int, error) {
	n := a.Geometries.Purge()
	n += a.Fonts.Purge()
	n += a.Meshes.Purge()
	n += a.Materials.Purge()

	var err error
	for _, p := range a.Pools() {
		if c := p.Count(); c != 0 {
			err = multierr.Append(err, errors.New(errors.PhaseFree, errors.KindInvalidData).
				Pool(p.Kind()).
				Detail("%d assets still live after purge", c).
				Build())
		}
	}
	return n, err
}

// release destroys a dependent resource, skipping handles that were never
// set or are already gone.
func release[H ~uint64](log *zap.Logger, p resource.Pooler, h H) {
	raw := handle.Handle(h)
	if !p.HasHandle(raw) {
		return
	}
	if err := p.DestroyHandle(raw); err != nil {
		log.Warn("release dependent resource", zap.String("kind", p.Kind()), zap.Error(err))
	}
}
