package core

import "fmt"

// GenConfig describes a single generation run.
type GenConfig struct {
	Depth        int          // Bits per channel
	Seed         uint64       // Visitation order and policy seed
	Width        int          // Canvas width in pixels
	Height       int          // Canvas height in pixels
	Policy       string       // Registered frontier selection policy
	Connectivity Connectivity // 4 or 8
}

// Validate checks the invariants that do not depend on the policy registry.
func (c GenConfig) Validate() error {
	if c.Depth < MinDepth || c.Depth > MaxDepth {
		return fmt.Errorf("bit depth %d outside [%d, %d]: %w", c.Depth, MinDepth, MaxDepth, ErrConfig)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("canvas %dx%d must be positive: %w", c.Width, c.Height, ErrConfig)
	}
	// Compare before multiplying so an overflowing product cannot wrap onto n.
	if n := ColorCount(c.Depth); c.Width > n/c.Height || c.Width*c.Height != n {
		return fmt.Errorf("canvas %dx%d does not hold the %d colors of depth %d: %w",
			c.Width, c.Height, n, c.Depth, ErrConfig)
	}
	if !c.Connectivity.Valid() {
		return fmt.Errorf("connectivity %d must be 4 or 8: %w", c.Connectivity, ErrConfig)
	}
	return nil
}

// RuntimeConfig contains configuration passed to the viewer at startup.
type RuntimeConfig struct {
	ScreenW  int // Screen width in characters
	ScreenH  int // Screen height in characters
	TickRate int // Redraws per second (default 30)
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
	}
}
