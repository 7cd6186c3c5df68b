package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	rperrors "github.com/wippyai/resource-pool/errors"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Limits.Textures != 512 || cfg.Limits.Geometries != 128 {
		t.Fatalf("limits = %+v", cfg.Limits)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{
			name: "toml",
			file: "pools.toml",
			body: `
[limits]
textures = 10
sounds = 4

[logging]
level = "debug"
format = "json"
`,
		},
		{
			name: "yaml",
			file: "pools.yaml",
			body: `
limits:
  textures: 10
  sounds: 4
logging:
  level: debug
  format: json
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.file, tt.body))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.Limits.Textures != 10 || cfg.Limits.Sounds != 4 {
				t.Errorf("limits = %+v", cfg.Limits)
			}
			if cfg.Limits.Buffers != DefaultLimits().Buffers {
				t.Errorf("unset limit lost its default: %d", cfg.Limits.Buffers)
			}
			if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
				t.Errorf("logging = %+v", cfg.Logging)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		kind rperrors.Kind
	}{
		{"zero capacity", "zero.toml", "[limits]\nmeshes = 0\n", rperrors.KindInvalidInput},
		{"too large", "big.yaml", "limits:\n  fonts: 4294967295\n", rperrors.KindInvalidInput},
		{"bad toml", "bad.toml", "[limits\n", rperrors.KindInvalidData},
		{"bad yaml", "bad.yml", "limits: [1, 2\n", rperrors.KindInvalidData},
		{"unknown format", "pools.ini", "textures=1", rperrors.KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.body))
			var e *rperrors.Error
			if !errors.As(err, &e) {
				t.Fatalf("Load error = %v, want *errors.Error", err)
			}
			if e.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", e.Kind, tt.kind)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestNewLogger(t *testing.T) {
	for _, cfg := range []LoggingConfig{
		{Level: "debug", Format: "json"},
		{Level: "warn", Format: "console"},
		{Level: "nonsense"},
	} {
		l, err := NewLogger(cfg)
		if err != nil {
			t.Fatalf("NewLogger(%+v): %v", cfg, err)
		}
		_ = l.Sync()
	}

	l, _ := NewLogger(LoggingConfig{Level: "warn"})
	if l.Core().Enabled(-1) {
		t.Fatal("warn logger should not enable debug")
	}
}
