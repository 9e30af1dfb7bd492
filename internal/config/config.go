// Package config provides YAML and TOML configuration loading and named
// generation presets for allcolors.
package config

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/allcolors/internal/core"
)

// Config is the on-disk configuration for a generation run and its viewer.
type Config struct {
	Depth        int    `yaml:"depth" toml:"depth"`
	Seed         uint64 `yaml:"seed" toml:"seed"`
	Width        int    `yaml:"width" toml:"width"`
	Height       int    `yaml:"height" toml:"height"`
	Policy       string `yaml:"policy" toml:"policy"`
	Connectivity int    `yaml:"connectivity" toml:"connectivity"` // 4 or 8
	FPS          int    `yaml:"fps" toml:"fps"`                   // viewer refresh rate
	Output       string `yaml:"output" toml:"output"`             // export directory
	Database     string `yaml:"database" toml:"database"`         // empty = ~/.allcolors/runs.db
}

// Gen converts the file form into the generator's configuration.
func (c Config) Gen() core.GenConfig {
	return core.GenConfig{
		Depth:        c.Depth,
		Seed:         c.Seed,
		Width:        c.Width,
		Height:       c.Height,
		Policy:       c.Policy,
		Connectivity: core.Connectivity(c.Connectivity),
	}
}

// Validate checks the generation fields and the viewer rate.
func (c Config) Validate() error {
	if err := c.Gen().Validate(); err != nil {
		return err
	}
	if c.FPS < 1 || c.FPS > 120 {
		return fmt.Errorf("config: fps %d out of range [1,120]: %w", c.FPS, core.ErrConfig)
	}
	return nil
}

// Preset is a named canvas that satisfies the color count for its depth.
type Preset struct {
	Name        string
	Description string
	Depth       int
	Width       int
	Height      int
	Seed        *uint64 // pinned seed, nil keeps the configured one
}

var zeroSeed uint64

var presets = map[string]Preset{
	"tiny":    {Name: "tiny", Description: "64 colors, instant", Depth: 2, Width: 8, Height: 8},
	"small":   {Name: "small", Description: "4096 colors", Depth: 4, Width: 64, Height: 64},
	"medium":  {Name: "medium", Description: "262144 colors", Depth: 6, Width: 512, Height: 512},
	"classic": {Name: "classic", Description: "2097152 colors on 2048x1024, seed 0", Depth: 7, Width: 2048, Height: 1024, Seed: &zeroSeed},
	"full":    {Name: "full", Description: "every 24-bit color on 4096x4096", Depth: 8, Width: 4096, Height: 4096},
}

// Presets returns all presets ordered by color count.
func Presets() []Preset {
	list := make([]Preset, 0, len(presets))
	for _, p := range presets {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Depth < list[j].Depth
	})
	return list
}

// LookupPreset returns the preset with the given name.
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// ApplyPreset overwrites the canvas fields of cfg with the named preset.
func ApplyPreset(cfg *Config, name string) error {
	p, ok := presets[name]
	if !ok {
		return fmt.Errorf("config: unknown preset %q: %w", name, core.ErrConfig)
	}
	cfg.Depth = p.Depth
	cfg.Width = p.Width
	cfg.Height = p.Height
	if p.Seed != nil {
		cfg.Seed = *p.Seed
	}
	return nil
}
