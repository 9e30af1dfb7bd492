package policies

import (
	"github.com/vovakirdan/allcolors/internal/core"
	"github.com/vovakirdan/allcolors/internal/engine"
	"github.com/vovakirdan/allcolors/internal/registry"
)

func init() {
	registry.Register("fifo", "Oldest frontier entry first (breadth-first flood)", func(uint64) engine.Policy {
		return &FIFO{}
	})
}

// FIFO takes candidates in the order they joined the frontier, so the canvas
// fills in rings around the start position. A FIFO belongs to one run.
type FIFO struct {
	head int // first arrival that may still be a candidate
}

// Select implements engine.Policy.
func (f *FIFO) Select(v engine.View, _ core.RGB) int {
	for ; f.head < v.Arrivals(); f.head++ {
		if i := v.Arrival(f.head); i >= 0 {
			return i
		}
	}
	return 0
}
