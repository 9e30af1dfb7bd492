// Package engine places every color of a color space on a canvas exactly once
// by growing a region outward from a seed position.
//
// The engine is single-threaded: Step, Run and the View methods must be called
// from one goroutine. Progress is published through the shared raster, which
// other goroutines may read at any time.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/vovakirdan/allcolors/internal/colorspace"
	"github.com/vovakirdan/allcolors/internal/core"
	"github.com/vovakirdan/allcolors/internal/raster"
)

// ErrExhausted is returned by Step once every color has been placed.
var ErrExhausted = errors.New("engine: all colors placed")

// Options configures an Engine.
type Options struct {
	Connectivity core.Connectivity // Defaults to core.Connect8
	Start        *core.Pos         // Seed position, defaults to the canvas center
	Policy       Policy            // Frontier selection, required
}

// StepHook is called after each committed color with the new placed count.
type StepHook func(placed int)

// Engine owns the assignment of colors to canvas positions.
type Engine struct {
	space  *colorspace.Space
	colors *colorspace.Iterator
	canvas *raster.Raster
	bounds core.Rect
	conn   core.Connectivity
	start  core.Pos
	policy Policy

	assigned []bool
	frontier []int32 // canvas indices of candidate positions
	slot     []int32 // position -> index in frontier, -1 when absent
	arrivals []int32 // positions in the order they joined the frontier

	// Running sums of assigned neighbour colors per position, used for Target.
	sumR, sumG, sumB []uint16
	count            []uint8

	placed int
}

// New validates the configuration and returns an engine with an empty
// assignment. The canvas must be blank and its area must equal the number of
// colors in space.
func New(space *colorspace.Space, canvas *raster.Raster, opts Options) (*Engine, error) {
	if space == nil || canvas == nil {
		return nil, fmt.Errorf("engine: color space and raster are required: %w", core.ErrConfig)
	}
	n := canvas.Width() * canvas.Height()
	if n != space.Count() {
		return nil, fmt.Errorf("engine: canvas %dx%d holds %d pixels, color space has %d colors: %w",
			canvas.Width(), canvas.Height(), n, space.Count(), core.ErrConfig)
	}
	if canvas.Filled() != 0 {
		return nil, fmt.Errorf("engine: raster already holds %d pixels: %w", canvas.Filled(), core.ErrConfig)
	}
	if opts.Policy == nil {
		return nil, fmt.Errorf("engine: no selection policy: %w", core.ErrConfig)
	}

	conn := opts.Connectivity
	if conn == 0 {
		conn = core.Connect8
	}
	if !conn.Valid() {
		return nil, fmt.Errorf("engine: connectivity %d must be 4 or 8: %w", conn, core.ErrConfig)
	}

	bounds := canvas.Bounds()
	start := bounds.Center()
	if opts.Start != nil {
		start = *opts.Start
	}
	if !bounds.Contains(start) {
		return nil, fmt.Errorf("engine: start %v outside canvas: %w", start, core.ErrConfig)
	}

	slot := make([]int32, n)
	for i := range slot {
		slot[i] = -1
	}

	return &Engine{
		space:    space,
		colors:   space.Iter(),
		canvas:   canvas,
		bounds:   bounds,
		conn:     conn,
		start:    start,
		policy:   opts.Policy,
		assigned: make([]bool, n),
		slot:     slot,
		arrivals: make([]int32, 0, n),
		sumR:     make([]uint16, n),
		sumG:     make([]uint16, n),
		sumB:     make([]uint16, n),
		count:    make([]uint8, n),
	}, nil
}

// Bounds returns the canvas rectangle.
func (e *Engine) Bounds() core.Rect {
	return e.bounds
}

// Placed returns the number of committed colors.
func (e *Engine) Placed() int {
	return e.placed
}

// Total returns the number of colors to place.
func (e *Engine) Total() int {
	return e.space.Count()
}

// Done reports whether every color has been placed.
func (e *Engine) Done() bool {
	return e.placed == e.space.Count()
}

// Start returns the seed position.
func (e *Engine) Start() core.Pos {
	return e.start
}

// FrontierLen returns the number of candidate positions.
func (e *Engine) FrontierLen() int {
	return len(e.frontier)
}

// FrontierAt returns the i-th candidate position.
func (e *Engine) FrontierAt(i int) core.Pos {
	return e.bounds.At(int(e.frontier[i]))
}

// Arrivals returns how many positions have joined the frontier so far.
func (e *Engine) Arrivals() int {
	return len(e.arrivals)
}

// Arrival returns the frontier index of the k-th position to join the
// frontier, or -1 once that position has been taken.
func (e *Engine) Arrival(k int) int {
	return int(e.slot[e.arrivals[k]])
}

// Target returns the rounded mean color of the assigned neighbours of the
// i-th candidate.
func (e *Engine) Target(i int) core.RGB {
	p := e.frontier[i]
	n := uint16(e.count[p])
	if n == 0 {
		return core.RGB{}
	}
	return core.RGB{
		R: uint8((e.sumR[p] + n/2) / n),
		G: uint8((e.sumG[p] + n/2) / n),
		B: uint8((e.sumB[p] + n/2) / n),
	}
}

// Step commits exactly one color. The first call seeds the start position;
// later calls let the policy pick a frontier position. Errors wrapping
// core.ErrInconsistent are fatal and leave the engine unusable.
func (e *Engine) Step() error {
	c, ok := e.colors.Peek()
	if !ok {
		return ErrExhausted
	}

	var idx int32
	if e.placed == 0 {
		idx = int32(e.bounds.Index(e.start))
	} else {
		if len(e.frontier) == 0 {
			return fmt.Errorf("engine: frontier empty with %d of %d colors placed: %w",
				e.placed, e.Total(), core.ErrInconsistent)
		}
		i := e.policy.Select(e, c)
		if i < 0 || i >= len(e.frontier) {
			return fmt.Errorf("engine: policy chose slot %d of %d: %w", i, len(e.frontier), core.ErrInconsistent)
		}
		idx = e.frontier[i]
		e.removeFrontier(i)
	}

	if err := e.commit(idx, c); err != nil {
		return err
	}
	e.colors.Next()
	return nil
}

// Run steps until every color is placed, ctx is cancelled, or a step fails.
// Cancellation is observed between steps and returns ctx.Err().
func (e *Engine) Run(ctx context.Context, hook StepHook) error {
	done := ctx.Done()
	for !e.Done() {
		select {
		case <-done:
			return ctx.Err()
		default:
		}
		if err := e.Step(); err != nil {
			return err
		}
		if hook != nil {
			hook(e.placed)
		}
	}
	return nil
}

// commit assigns color c to canvas index idx and grows the frontier.
func (e *Engine) commit(idx int32, c core.RGB) error {
	if e.assigned[idx] {
		return fmt.Errorf("engine: position %v assigned twice: %w", e.bounds.At(int(idx)), core.ErrInconsistent)
	}
	p := e.bounds.At(int(idx))
	if !e.canvas.Set(p.X, p.Y, c.RGBA8(e.space.Depth())) {
		return fmt.Errorf("engine: raster pixel %v already written: %w", p, core.ErrInconsistent)
	}
	e.assigned[idx] = true
	e.placed++

	for _, off := range e.conn.Offsets() {
		q := p.Add(off)
		if !e.bounds.Contains(q) {
			continue
		}
		qi := int32(e.bounds.Index(q))
		e.sumR[qi] += uint16(c.R)
		e.sumG[qi] += uint16(c.G)
		e.sumB[qi] += uint16(c.B)
		e.count[qi]++
		if !e.assigned[qi] && e.slot[qi] < 0 {
			e.slot[qi] = int32(len(e.frontier))
			e.frontier = append(e.frontier, qi)
			e.arrivals = append(e.arrivals, qi)
		}
	}
	return nil
}

// removeFrontier drops the i-th candidate by moving the last one into its slot.
func (e *Engine) removeFrontier(i int) {
	last := len(e.frontier) - 1
	gone := e.frontier[i]
	if i != last {
		moved := e.frontier[last]
		e.frontier[i] = moved
		e.slot[moved] = int32(i)
	}
	e.frontier = e.frontier[:last]
	e.slot[gone] = -1
}
