package engine

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/resource-pool/errors"
	"github.com/wippyai/resource-pool/namehash"
)

// Manifest lists assets to load ahead of time. Entries reference each other
// by name; a material names its shader and textures, a geometry mesh names
// its material.
type Manifest struct {
	Textures   []TextureEntry  `yaml:"textures"`
	Shaders    []ShaderEntry   `yaml:"shaders"`
	Sounds     []SoundEntry    `yaml:"sounds"`
	Materials  []MaterialEntry `yaml:"materials"`
	Fonts      []FontEntry     `yaml:"fonts"`
	Geometries []GeometryEntry `yaml:"geometries"`
}

type TextureEntry struct {
	Name    string `yaml:"name"`
	Width   uint32 `yaml:"width"`
	Height  uint32 `yaml:"height"`
	Format  string `yaml:"format"`
	Mipmaps bool   `yaml:"mipmaps"`
}

type ShaderEntry struct {
	Name   string   `yaml:"name"`
	Stages []string `yaml:"stages"`
}

type SoundEntry struct {
	Name       string `yaml:"name"`
	Frames     uint32 `yaml:"frames"`
	Channels   uint8  `yaml:"channels"`
	SampleRate uint32 `yaml:"sample_rate"`
	Looping    bool   `yaml:"looping"`
}

type MaterialEntry struct {
	Name     string     `yaml:"name"`
	Shader   string     `yaml:"shader"`
	Textures []string   `yaml:"textures"`
	Color    [4]float32 `yaml:"color"`
}

type FontEntry struct {
	Name   string  `yaml:"name"`
	Size   float32 `yaml:"size"`
	Glyphs uint32  `yaml:"glyphs"`
	Atlas  struct {
		Width  uint32 `yaml:"width"`
		Height uint32 `yaml:"height"`
	} `yaml:"atlas"`
}

type GeometryEntry struct {
	Name   string      `yaml:"name"`
	Meshes []MeshEntry `yaml:"meshes"`
}

type MeshEntry struct {
	Vertices uint32 `yaml:"vertices"`
	Stride   uint32 `yaml:"stride"`
	Indices  uint32 `yaml:"indices"`
	Material string `yaml:"material"`
}

// LoadManifest reads a YAML manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return ParseManifest(data)
}

// ParseManifest decodes a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.ParseFailed("manifest", err)
	}
	return &m, nil
}

// Len returns the number of entries in m.
func (m *Manifest) Len() int {
	return len(m.Textures) + len(m.Shaders) + len(m.Sounds) +
		len(m.Materials) + len(m.Fonts) + len(m.Geometries)
}

var shaderStages = map[string]ShaderStage{
	"vertex":   StageVertex,
	"fragment": StageFragment,
	"compute":  StageCompute,
}

// Preload loads every entry of m, dependencies first. Entries already loaded
// under the same name are reused. A failing entry does not stop the others;
// all failures are returned combined.
func (d *Device) Preload(m *Manifest) (int, error) {
	var (
		loaded int
		errs   error
	)
	fail := func(kind, name string, err error) {
		d.log.Warn("preload failed", zap.String("kind", kind), zap.String("name", name), zap.Error(err))
		errs = multierr.Append(errs, fmt.Errorf("%s %q: %w", kind, name, err))
	}

	for _, e := range m.Textures {
		format, err := ParseTextureFormat(e.Format)
		if err == nil {
			_, err = d.Graphics.AcquireTexture(e.Name, TextureInfo{
				Width: e.Width, Height: e.Height, Format: format, Mipmaps: e.Mipmaps,
			})
		}
		if err != nil {
			fail(KindTexture, e.Name, err)
			continue
		}
		loaded++
	}

	for _, e := range m.Shaders {
		var stages ShaderStage
		for _, s := range e.Stages {
			stages |= shaderStages[s]
		}
		if _, err := d.Graphics.AcquireShader(e.Name, ShaderInfo{Stages: stages}); err != nil {
			fail(KindShader, e.Name, err)
			continue
		}
		loaded++
	}

	for _, e := range m.Sounds {
		_, err := d.Audio.AcquireSound(e.Name, SoundInfo{
			Frames: e.Frames, Channels: e.Channels, SampleRate: e.SampleRate, Looping: e.Looping,
		})
		if err != nil {
			fail(KindSound, e.Name, err)
			continue
		}
		loaded++
	}

	for _, e := range m.Materials {
		info, err := d.materialInfo(e)
		if err == nil {
			_, err = d.Assets.LoadMaterial(e.Name, info)
		}
		if err != nil {
			fail(KindMaterial, e.Name, err)
			continue
		}
		loaded++
	}

	for _, e := range m.Fonts {
		_, err := d.Assets.LoadFont(e.Name, FontInfo{
			Size:   e.Size,
			Glyphs: e.Glyphs,
			Atlas:  TextureInfo{Width: e.Atlas.Width, Height: e.Atlas.Height, Format: FormatR8},
		})
		if err != nil {
			fail(KindFont, e.Name, err)
			continue
		}
		loaded++
	}

	for _, e := range m.Geometries {
		info := GeometryInfo{Meshes: make([]MeshInfo, 0, len(e.Meshes))}
		var err error
		for _, me := range e.Meshes {
			mi := MeshInfo{Vertices: me.Vertices, VertexStride: me.Stride, Indices: me.Indices}
			if me.Material != "" {
				mat, ok := d.Assets.Materials.Lookup(namehash.String(me.Material))
				if !ok {
					err = errors.NotFound(errors.PhaseLookup, KindMaterial, me.Material)
					break
				}
				mi.Material = mat
			}
			info.Meshes = append(info.Meshes, mi)
		}
		if err == nil {
			_, err = d.Assets.LoadGeometry(e.Name, info)
		}
		if err != nil {
			fail(KindGeometry, e.Name, err)
			continue
		}
		loaded++
	}

	d.log.Info("manifest preloaded", zap.Int("loaded", loaded), zap.Int("entries", m.Len()))
	return loaded, errs
}

func (d *Device) materialInfo(e MaterialEntry) (MaterialInfo, error) {
	shader, ok := d.Graphics.Shaders.Lookup(namehash.String(e.Shader))
	if !ok {
		return MaterialInfo{}, errors.NotFound(errors.PhaseLookup, KindShader, e.Shader)
	}
	info := MaterialInfo{Shader: shader, Color: e.Color}
	for _, name := range e.Textures {
		tex, ok := d.Graphics.Textures.Lookup(namehash.String(name))
		if !ok {
			return MaterialInfo{}, errors.NotFound(errors.PhaseLookup, KindTexture, name)
		}
		info.Textures = append(info.Textures, tex)
	}
	return info, nil
}
