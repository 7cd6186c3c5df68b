// Package config loads pool capacities and logging settings from TOML or
// YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/resource-pool/errors"
	"github.com/wippyai/resource-pool/handle"
)

type Config struct {
	Limits  Limits        `toml:"limits" yaml:"limits"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// Limits is the capacity of every resource pool a device creates. Pools
// never grow past these values.
type Limits struct {
	Buffers        uint32 `toml:"buffers" yaml:"buffers"`
	Textures       uint32 `toml:"textures" yaml:"textures"`
	Shaders        uint32 `toml:"shaders" yaml:"shaders"`
	CommandBuffers uint32 `toml:"command_buffers" yaml:"command_buffers"`
	Sounds         uint32 `toml:"sounds" yaml:"sounds"`
	Meshes         uint32 `toml:"meshes" yaml:"meshes"`
	Materials      uint32 `toml:"materials" yaml:"materials"`
	Fonts          uint32 `toml:"fonts" yaml:"fonts"`
	Geometries     uint32 `toml:"geometries" yaml:"geometries"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`   // debug, info, warn, error
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Limits: DefaultLimits(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultLimits returns the engine's stock capacities.
func DefaultLimits() Limits {
	return Limits{
		Buffers:        1024, // vertex + index
		Textures:       512,
		Shaders:        512,
		CommandBuffers: 512,
		Sounds:         512,
		Meshes:         512,
		Materials:      512,
		Fonts:          512,
		Geometries:     128,
	}
}

// Load reads a config file. The format is chosen by extension: .toml, or
// .yaml/.yml. Fields missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.ParseFailed(path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.ParseFailed(path, err)
		}
	default:
		return nil, errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("unsupported config format %q", ext))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every capacity is usable.
func (c *Config) Validate() error {
	return c.Limits.Validate()
}

// Validate rejects zero capacities and capacities that collide with the
// invalid index.
func (l Limits) Validate() error {
	for _, f := range l.fields() {
		if f.value == 0 {
			return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("limits.%s must be positive", f.name))
		}
		if f.value >= handle.InvalidIndex {
			return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("limits.%s too large: %d", f.name, f.value))
		}
	}
	return nil
}

type limitField struct {
	name  string
	value uint32
}

func (l Limits) fields() []limitField {
	return []limitField{
		{"buffers", l.Buffers},
		{"textures", l.Textures},
		{"shaders", l.Shaders},
		{"command_buffers", l.CommandBuffers},
		{"sounds", l.Sounds},
		{"meshes", l.Meshes},
		{"materials", l.Materials},
		{"fonts", l.Fonts},
		{"geometries", l.Geometries},
	}
}
