package config

import (
	_ "embed"
)

//go:embed defaults/allcolors.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration: the medium canvas with
// the sampled policy.
func DefaultConfig() Config {
	return Config{
		Depth:        6,
		Seed:         1,
		Width:        512,
		Height:       512,
		Policy:       "sampled",
		Connectivity: 8,
		FPS:          30,
		Output:       ".",
	}
}
