// Package core provides fundamental types and utilities shared by the
// generator and the viewer. It contains no external dependencies (especially
// no Bubble Tea) to keep the placement logic pure and testable.
package core

import "fmt"

// Pos is a canvas position.
// X increases to the right, Y increases downward (screen coordinates).
type Pos struct {
	X int
	Y int
}

// P is a shorthand constructor for Pos.
func P(x, y int) Pos {
	return Pos{X: x, Y: y}
}

// String returns a human-readable representation.
func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns the sum of two positions.
func (p Pos) Add(o Pos) Pos {
	return Pos{X: p.X + o.X, Y: p.Y + o.Y}
}

// Connectivity selects which cells count as neighbours of a position.
type Connectivity int

const (
	Connect4 Connectivity = 4 // edge neighbours only
	Connect8 Connectivity = 8 // edge and corner neighbours
)

var (
	offsets4 = []Pos{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}
	offsets8 = []Pos{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}
)

// Valid reports whether c is a supported connectivity.
func (c Connectivity) Valid() bool {
	return c == Connect4 || c == Connect8
}

// Offsets returns the neighbour offsets in a fixed order (row-major).
// The returned slice must not be modified.
func (c Connectivity) Offsets() []Pos {
	if c == Connect4 {
		return offsets4
	}
	return offsets8
}

// Rect represents an axis-aligned rectangle on the canvas.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point is inside this rectangle.
func (r Rect) Contains(p Pos) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Pos {
	return Pos{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Index converts a position inside r to a row-major offset relative to r.
func (r Rect) Index(p Pos) int {
	return (p.Y-r.Y)*r.W + (p.X - r.X)
}

// At is the inverse of Index.
func (r Rect) At(i int) Pos {
	return Pos{X: r.X + i%r.W, Y: r.Y + i/r.W}
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
