// Package policies implements the frontier selection policies and registers
// them with the registry. Import it for side effects.
package policies

import (
	"github.com/vovakirdan/allcolors/internal/core"
	"github.com/vovakirdan/allcolors/internal/engine"
	"github.com/vovakirdan/allcolors/internal/registry"
)

func init() {
	registry.Register("nearest", "Nearest neighbour mean (exhaustive)", func(uint64) engine.Policy {
		return Nearest{}
	})
}

// Nearest places each color on the frontier position whose assigned
// neighbours are, on average, closest to it. Ties go to the lowest index.
// Cost is linear in the frontier size per step, so it suits small depths.
type Nearest struct{}

// Select implements engine.Policy.
func (Nearest) Select(v engine.View, c core.RGB) int {
	return scan(v, c, 0, v.FrontierLen())
}

// scan returns the index in [from, to) with the smallest target distance.
func scan(v engine.View, c core.RGB, from, to int) int {
	best, bestD := from, -1
	for i := from; i < to; i++ {
		d := core.DistSq(v.Target(i), c)
		if bestD < 0 || d < bestD {
			best, bestD = i, d
			if d == 0 {
				break
			}
		}
	}
	return best
}
