package engine

import (
	"errors"
	"testing"

	rperrors "github.com/wippyai/resource-pool/errors"
)

func loadMaterial(t *testing.T, d *Device) Material {
	t.Helper()
	shader, err := d.Graphics.AcquireShader("shaders/pbr", ShaderInfo{Stages: StageVertex | StageFragment})
	if err != nil {
		t.Fatalf("AcquireShader: %v", err)
	}
	tex, err := d.Graphics.AcquireTexture("textures/crate.png", TextureInfo{Width: 2, Height: 2})
	if err != nil {
		t.Fatalf("AcquireTexture: %v", err)
	}
	mat, err := d.Assets.LoadMaterial("materials/crate", MaterialInfo{
		Shader:   shader,
		Textures: []Texture{tex},
		Color:    [4]float32{1, 1, 1, 1},
	})
	if err != nil {
		t.Fatalf("LoadMaterial: %v", err)
	}
	return mat
}

func TestAssets_MeshOwnsBuffers(t *testing.T) {
	d, gfx, _ := openTestDevice(t)

	m, err := d.Assets.Meshes.Create(MeshInfo{Vertices: 24, VertexStride: 32, Indices: 36})
	if err != nil {
		t.Fatalf("Create mesh: %v", err)
	}
	rec, _ := d.Assets.Meshes.Get(m)
	vb, _ := d.Graphics.Buffers.Get(rec.VertexBuffer)
	ib, _ := d.Graphics.Buffers.Get(rec.IndexBuffer)
	if vb == nil || vb.Size != 24*32 || vb.Usage != BufferVertex {
		t.Fatalf("vertex buffer = %+v", vb)
	}
	if ib == nil || ib.Size != 36*4 || ib.Usage != BufferIndex {
		t.Fatalf("index buffer = %+v", ib)
	}

	if err := d.Assets.Meshes.Destroy(m); err != nil {
		t.Fatalf("Destroy mesh: %v", err)
	}
	if gfx.Live(KindBuffer) != 0 || d.Graphics.Buffers.Count() != 0 {
		t.Fatalf("mesh buffers leaked: backend=%d pool=%d", gfx.Live(KindBuffer), d.Graphics.Buffers.Count())
	}
}

func TestAssets_MaterialRequiresLiveShader(t *testing.T) {
	d, _, _ := openTestDevice(t)

	_, err := d.Assets.LoadMaterial("materials/orphan", MaterialInfo{Shader: Shader(12345)})
	if !errors.Is(err, rperrors.ErrConstructFailed) || !errors.Is(err, rperrors.ErrInvalidHandle) {
		t.Fatalf("LoadMaterial = %v", err)
	}
	if d.Assets.Materials.Count() != 0 {
		t.Fatal("failed material left a slot")
	}
}

func TestAssets_GeometryRollback(t *testing.T) {
	d, gfx, _ := openTestDevice(t)
	mat := loadMaterial(t, d)

	// the fifth mesh does not fit
	meshes := make([]MeshInfo, 5)
	for i := range meshes {
		meshes[i] = MeshInfo{Vertices: 3, VertexStride: 12, Indices: 3, Material: mat}
	}
	if _, err := d.Assets.LoadGeometry("models/big.glb", GeometryInfo{Meshes: meshes}); err == nil {
		t.Fatal("geometry larger than the buffer pool should fail")
	}
	if d.Assets.Meshes.Count() != 0 || gfx.Live(KindBuffer) != 0 {
		t.Fatalf("rollback leaked meshes=%d buffers=%d", d.Assets.Meshes.Count(), gfx.Live(KindBuffer))
	}
	if d.Assets.Geometries.Count() != 0 {
		t.Fatal("failed geometry left a slot")
	}

	g, err := d.Assets.LoadGeometry("models/crate.glb", GeometryInfo{Meshes: meshes[:2]})
	if err != nil {
		t.Fatalf("LoadGeometry: %v", err)
	}
	rec, _ := d.Assets.Geometries.Get(g)
	if len(rec.Meshes) != 2 {
		t.Fatalf("geometry meshes = %d", len(rec.Meshes))
	}
	if gfx.Live(KindBuffer) != 4 {
		t.Fatalf("buffers = %d, want 4", gfx.Live(KindBuffer))
	}

	n, err := d.Assets.Purge()
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	// geometry, two meshes, material
	if n != 4 {
		t.Fatalf("Purge = %d, want 4", n)
	}
	if gfx.Live(KindBuffer) != 0 {
		t.Fatalf("buffers leaked after purge: %d", gfx.Live(KindBuffer))
	}
	if gfx.Live(KindTexture) != 1 || gfx.Live(KindShader) != 1 {
		t.Fatal("shared textures and shaders belong to graphics, not assets")
	}
}

func TestAssets_FontAtlas(t *testing.T) {
	d, gfx, _ := openTestDevice(t)

	f, err := d.Assets.LoadFont("fonts/mono.ttf", FontInfo{Size: 12, Glyphs: 96, Atlas: TextureInfo{Width: 64, Height: 64, Format: FormatR8}})
	if err != nil {
		t.Fatalf("LoadFont: %v", err)
	}
	again, _ := d.Assets.LoadFont("fonts/mono.ttf", FontInfo{})
	if again != f {
		t.Fatal("font not shared by name")
	}
	rec, _ := d.Assets.Fonts.Get(f)
	atlas, ok := d.Graphics.Textures.Get(rec.Atlas)
	if !ok || atlas.Bytes != 64*64 {
		t.Fatalf("atlas = %+v, %v", atlas, ok)
	}

	if err := d.Assets.Fonts.Destroy(f); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if gfx.Live(KindTexture) != 0 {
		t.Fatal("atlas texture leaked")
	}
}
