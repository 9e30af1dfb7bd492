package policies

import (
	"github.com/vovakirdan/allcolors/internal/colorspace"
	"github.com/vovakirdan/allcolors/internal/core"
	"github.com/vovakirdan/allcolors/internal/engine"
	"github.com/vovakirdan/allcolors/internal/registry"
)

// DefaultSamples is the candidate count used by the registered sampled policy.
const DefaultSamples = 64

func init() {
	registry.Register("sampled", "Nearest of a seeded frontier sample", func(seed uint64) engine.Policy {
		return NewSampled(seed, DefaultSamples)
	})
}

// Sampled applies the Nearest metric to a bounded random sample of the
// frontier, keeping each step O(samples) on large canvases. When the frontier
// is no larger than the sample it scans everything.
type Sampled struct {
	rng     *colorspace.RNG
	samples int
}

// NewSampled creates a sampled policy. The RNG stream is derived from seed
// so the same run always draws the same candidates.
func NewSampled(seed uint64, samples int) *Sampled {
	if samples < 1 {
		samples = 1
	}
	return &Sampled{rng: colorspace.NewRNG(seed ^ 0x5A5A5A5A5A5A5A5A), samples: samples}
}

// Select implements engine.Policy.
func (s *Sampled) Select(v engine.View, c core.RGB) int {
	n := v.FrontierLen()
	if n <= s.samples {
		return scan(v, c, 0, n)
	}

	best, bestD := -1, -1
	for k := 0; k < s.samples; k++ {
		i := s.rng.Intn(n)
		d := core.DistSq(v.Target(i), c)
		if bestD < 0 || d < bestD || (d == bestD && i < best) {
			best, bestD = i, d
		}
	}
	return best
}
