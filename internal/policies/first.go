package policies

import (
	"github.com/vovakirdan/allcolors/internal/core"
	"github.com/vovakirdan/allcolors/internal/engine"
	"github.com/vovakirdan/allcolors/internal/registry"
)

func init() {
	registry.Register("first", "First available frontier slot", func(uint64) engine.Policy {
		return First{}
	})
}

// First ignores color entirely and takes frontier slot 0. Taken slots are
// refilled from the end of the frontier, so this is not insertion order; see
// FIFO for that. It is the cheapest policy and produces a noisy, blob-shaped
// fill.
type First struct{}

// Select implements engine.Policy.
func (First) Select(engine.View, core.RGB) int {
	return 0
}
