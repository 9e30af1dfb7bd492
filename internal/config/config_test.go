package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/allcolors/internal/core"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parse("allcolors.yaml", defaultYAML)
	if err != nil {
		t.Fatalf("embedded YAML failed to parse: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("embedded = %+v, hardcoded = %+v", cfg, DefaultConfig())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadCustomFiles(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		want    Config
	}{
		{
			name:    "yaml",
			file:    "run.yaml",
			content: "depth: 4\nwidth: 64\nheight: 64\nseed: 7\npolicy: nearest\n",
			want: func() Config {
				c := DefaultConfig()
				c.Depth, c.Width, c.Height, c.Seed, c.Policy = 4, 64, 64, 7, "nearest"
				return c
			}(),
		},
		{
			name:    "toml",
			file:    "run.toml",
			content: "depth = 2\nwidth = 8\nheight = 8\nconnectivity = 4\nfps = 10\n",
			want: func() Config {
				c := DefaultConfig()
				c.Depth, c.Width, c.Height, c.Connectivity, c.FPS = 2, 8, 8, 4, 10
				return c
			}(),
		},
		{
			name:    "empty keeps defaults",
			file:    "empty.yml",
			content: "",
			want:    DefaultConfig(),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.file)
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load() failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("Load() = %+v, expected %+v", got, tc.want)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load of a missing file should fail")
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("depth = = 3"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Load of malformed TOML should fail")
	}

	badYAML := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badYAML, []byte("depth: [1, 2"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(badYAML); err == nil {
		t.Error("Load of malformed YAML should fail")
	}
}

func TestPresetsAreValid(t *testing.T) {
	list := Presets()
	if len(list) == 0 {
		t.Fatal("no presets")
	}
	for i, p := range list {
		if i > 0 && list[i-1].Depth >= p.Depth {
			t.Errorf("Presets() not ordered at %q", p.Name)
		}
		cfg := DefaultConfig()
		if err := ApplyPreset(&cfg, p.Name); err != nil {
			t.Fatalf("ApplyPreset(%q) failed: %v", p.Name, err)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %q produces an invalid config: %v", p.Name, err)
		}
	}
}

func TestClassicPresetPinsSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 99
	if err := ApplyPreset(&cfg, "classic"); err != nil {
		t.Fatalf("ApplyPreset failed: %v", err)
	}
	if cfg.Depth != 7 || cfg.Width != 2048 || cfg.Height != 1024 || cfg.Seed != 0 {
		t.Errorf("classic = %+v", cfg)
	}

	cfg.Seed = 99
	if err := ApplyPreset(&cfg, "small"); err != nil {
		t.Fatalf("ApplyPreset failed: %v", err)
	}
	if cfg.Seed != 99 {
		t.Errorf("small preset should keep the seed, got %d", cfg.Seed)
	}
}

func TestUnknownPreset(t *testing.T) {
	cfg := DefaultConfig()
	err := ApplyPreset(&cfg, "huge")
	if !errors.Is(err, core.ErrConfig) {
		t.Errorf("ApplyPreset() = %v, expected ErrConfig", err)
	}
	if cfg != DefaultConfig() {
		t.Error("failed ApplyPreset should not modify the config")
	}
	if _, ok := LookupPreset("huge"); ok {
		t.Error("LookupPreset should miss")
	}
}

func TestValidateFPS(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FPS = 0
	if err := cfg.Validate(); !errors.Is(err, core.ErrConfig) {
		t.Errorf("Validate() = %v, expected ErrConfig", err)
	}
}
