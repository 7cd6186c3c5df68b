package engine

import (
	"errors"
	"testing"

	rperrors "github.com/wippyai/resource-pool/errors"
	"github.com/wippyai/resource-pool/namehash"
)

const testManifest = `
textures:
  - name: textures/crate.png
    width: 16
    height: 16
    format: rgba8
    mipmaps: true
shaders:
  - name: shaders/pbr
    stages: [vertex, fragment]
sounds:
  - name: sfx/jump.wav
    frames: 22050
    channels: 1
materials:
  - name: materials/crate
    shader: shaders/pbr
    textures: [textures/crate.png]
    color: [1, 0.5, 0.5, 1]
fonts:
  - name: fonts/ui.ttf
    size: 14
    glyphs: 96
    atlas:
      width: 128
      height: 128
geometries:
  - name: models/crate.glb
    meshes:
      - vertices: 24
        stride: 32
        indices: 36
        material: materials/crate
`

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(testManifest))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if m.Len() != 6 {
		t.Fatalf("Len = %d, want 6", m.Len())
	}
	if m.Fonts[0].Atlas.Width != 128 || m.Materials[0].Color[1] != 0.5 {
		t.Fatalf("decoded = %+v", m)
	}

	if _, err := ParseManifest([]byte("textures: {")); !errors.Is(err, &rperrors.Error{Kind: rperrors.KindInvalidData}) {
		t.Fatalf("bad yaml = %v", err)
	}
}

func TestPreload(t *testing.T) {
	d, gfx, audio := openTestDevice(t)
	m, err := ParseManifest([]byte(testManifest))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}

	n, err := d.Preload(m)
	if err != nil {
		t.Fatalf("Preload: %v", err)
	}
	if n != 6 {
		t.Fatalf("loaded = %d, want 6", n)
	}

	geo, ok := d.Assets.Geometries.Lookup(namehash.String("models/crate.glb"))
	if !ok {
		t.Fatal("geometry not registered by name")
	}
	rec, _ := d.Assets.Geometries.Get(geo)
	mat, _ := d.Assets.Materials.Lookup(namehash.String("materials/crate"))
	if mesh, _ := d.Assets.Meshes.Get(rec.Meshes[0]); mesh.Material != mat {
		t.Fatalf("mesh material = %v, want %v", mesh.Material, mat)
	}
	// crate texture + font atlas
	if gfx.Live(KindTexture) != 2 || audio.Live() != 1 {
		t.Fatalf("textures=%d sounds=%d", gfx.Live(KindTexture), audio.Live())
	}

	// preloading again reuses everything
	if _, err := d.Preload(m); err != nil {
		t.Fatalf("second Preload: %v", err)
	}
	if gfx.Live(KindTexture) != 2 || d.Assets.Geometries.Count() != 1 {
		t.Fatal("second preload created duplicates")
	}
}

func TestPreload_CollectsFailures(t *testing.T) {
	d, _, _ := openTestDevice(t)
	m := &Manifest{
		Textures: []TextureEntry{
			{Name: "bad-format", Width: 1, Height: 1, Format: "hdr"},
			{Name: "ok", Width: 1, Height: 1},
		},
		Materials: []MaterialEntry{{Name: "m", Shader: "missing"}},
	}

	n, err := d.Preload(m)
	if n != 1 {
		t.Fatalf("loaded = %d, want 1", n)
	}
	if !errors.Is(err, rperrors.ErrNotFound) {
		t.Fatalf("err = %v, want the missing shader reported", err)
	}
	if d.Graphics.Textures.Count() != 1 {
		t.Fatalf("textures = %d", d.Graphics.Textures.Count())
	}
}
