// Package colorspace enumerates the discretized RGB color cube and defines a
// reproducible, seeded visitation order over it.
package colorspace

import (
	"fmt"

	"github.com/vovakirdan/allcolors/internal/core"
)

// Space is an immutable permutation of every color at a given bit depth.
type Space struct {
	depth int
	seed  uint64
	order []uint32 // packed colors, see core.Pack
}

// New builds the color space for depth bits per channel, shuffled with seed.
// The order is a Fisher-Yates shuffle driven by RNG, so identical
// (depth, seed) pairs always produce identical sequences.
func New(depth int, seed uint64) (*Space, error) {
	if depth < core.MinDepth || depth > core.MaxDepth {
		return nil, fmt.Errorf("colorspace: bit depth %d outside [%d, %d]: %w",
			depth, core.MinDepth, core.MaxDepth, core.ErrConfig)
	}

	n := core.ColorCount(depth)
	order := make([]uint32, n)
	for i := range order {
		order[i] = uint32(i)
	}

	rng := NewRNG(seed)
	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}

	return &Space{depth: depth, seed: seed, order: order}, nil
}

// Depth returns the bits per channel.
func (s *Space) Depth() int {
	return s.depth
}

// Seed returns the seed the order was built from.
func (s *Space) Seed() uint64 {
	return s.seed
}

// Count returns the number of colors, (2^depth)^3.
func (s *Space) Count() int {
	return len(s.order)
}

// At returns the i-th color of the visitation order.
func (s *Space) At(i int) core.RGB {
	return core.Unpack(s.order[i], s.depth)
}

// Order returns a copy of the packed visitation order.
func (s *Space) Order() []uint32 {
	out := make([]uint32, len(s.order))
	copy(out, s.order)
	return out
}

// Iterator walks the visitation order once.
type Iterator struct {
	space *Space
	next  int
}

// Iter returns an iterator positioned at the first color.
func (s *Space) Iter() *Iterator {
	return &Iterator{space: s}
}

// Next returns the next color and true, or false once all colors were consumed.
func (it *Iterator) Next() (core.RGB, bool) {
	if it.next >= len(it.space.order) {
		return core.RGB{}, false
	}
	c := it.space.At(it.next)
	it.next++
	return c, true
}

// Peek returns the next color without consuming it.
func (it *Iterator) Peek() (core.RGB, bool) {
	if it.next >= len(it.space.order) {
		return core.RGB{}, false
	}
	return it.space.At(it.next), true
}

// Consumed returns how many colors have been returned by Next.
func (it *Iterator) Consumed() int {
	return it.next
}

// Remaining returns how many colors are left.
func (it *Iterator) Remaining() int {
	return len(it.space.order) - it.next
}
