package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads the configuration. Fields missing from the file keep their
// defaults.
// Search order: customPath -> ~/.allcolors/config.{yaml,toml} -> ./configs/allcolors.yaml -> embedded default
func Load(customPath string) (Config, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(customPath, data)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	for _, name := range []string{"config.yaml", "config.toml"} {
		p := userConfigPath(name)
		if p == "" {
			break
		}
		if data, err := os.ReadFile(p); err == nil {
			if cfg, err := parse(p, data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "allcolors.yaml")); err == nil {
		if cfg, err := parse("allcolors.yaml", data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parse("allcolors.yaml", defaultYAML)
	if err != nil {
		return DefaultConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parse decodes data over DefaultConfig, choosing the format by extension.
func parse(path string, data []byte) (Config, error) {
	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, err
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// Dir returns ~/.allcolors, or empty if home is unavailable.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".allcolors")
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, filename)
}
