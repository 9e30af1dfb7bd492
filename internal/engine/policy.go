package engine

import "github.com/vovakirdan/allcolors/internal/core"

// View is the read-only state a Policy may inspect while choosing where the
// next color goes. Frontier indices are only valid for the duration of one
// Select call.
type View interface {
	// Bounds returns the canvas rectangle.
	Bounds() core.Rect

	// FrontierLen returns the number of candidate positions.
	FrontierLen() int

	// FrontierAt returns the i-th candidate position.
	FrontierAt(i int) core.Pos

	// Target returns the mean color of the assigned neighbours of the i-th
	// candidate, in the color space's channel units.
	Target(i int) core.RGB

	// Arrivals returns how many positions have ever joined the frontier.
	// Each position joins at most once.
	Arrivals() int

	// Arrival returns the frontier index of the k-th position to join the
	// frontier, or -1 if it is no longer a candidate.
	Arrival(k int) int

	// Placed returns how many colors have been committed so far.
	Placed() int
}

// Policy chooses a frontier position for each color.
// Implementations must be deterministic for a given construction seed and
// sequence of calls.
type Policy interface {
	// Select returns an index in [0, v.FrontierLen()) for color c.
	// It is never called with an empty frontier.
	Select(v View, c core.RGB) int
}

// PolicyFunc adapts a plain function to the Policy interface.
type PolicyFunc func(v View, c core.RGB) int

// Select calls f(v, c).
func (f PolicyFunc) Select(v View, c core.RGB) int {
	return f(v, c)
}
