// Package raster provides the canvas shared between the generator and the
// viewer.
//
// Pixel layout is RGBA8: four bytes per pixel in R, G, B, A order, rows
// top to bottom, no padding (stride = 4*width). Unassigned pixels hold the
// sentinel 00 00 00 00; assigned pixels always carry alpha 0xFF.
//
// Exactly one goroutine may call Set. Any number of goroutines may read
// concurrently. Each pixel is stored in a single atomic word, so a reader
// never sees half of a pixel, but a snapshot taken during generation may mix
// pixels from different moments. That is acceptable for a live preview and is
// the only consistency the type promises while a writer is active.
package raster

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/vovakirdan/allcolors/internal/core"
)

// BytesPerPixel is the size of one pixel in a snapshot.
const BytesPerPixel = 4

// Sentinel is the value of a pixel that has not been assigned yet.
var Sentinel = [4]byte{0, 0, 0, 0}

// MaxPixels is the largest supported canvas area. Pixel indices fit in int32.
const MaxPixels = math.MaxInt32

// Raster is a fixed-size RGBA8 canvas.
type Raster struct {
	width  int
	height int
	pixels []atomic.Uint32 // little-endian packed R,G,B,A
	filled atomic.Int64
}

// New allocates a raster with every pixel set to the sentinel.
func New(width, height int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raster: size %dx%d must be positive: %w", width, height, core.ErrConfig)
	}
	if width > MaxPixels/height {
		return nil, fmt.Errorf("raster: size %dx%d exceeds %d pixels: %w", width, height, MaxPixels, core.ErrConfig)
	}
	return &Raster{
		width:  width,
		height: height,
		pixels: make([]atomic.Uint32, width*height),
	}, nil
}

// Width returns the canvas width in pixels.
func (r *Raster) Width() int {
	return r.width
}

// Height returns the canvas height in pixels.
func (r *Raster) Height() int {
	return r.height
}

// Stride returns the number of bytes per snapshot row.
func (r *Raster) Stride() int {
	return r.width * BytesPerPixel
}

// Len returns the size of a full snapshot in bytes.
func (r *Raster) Len() int {
	return r.width * r.height * BytesPerPixel
}

// Bounds returns the canvas rectangle.
func (r *Raster) Bounds() core.Rect {
	return core.NewRect(0, 0, r.width, r.height)
}

// Set stores an opaque pixel. It reports whether the pixel was previously
// unassigned; an assigned pixel is never overwritten. Out-of-bounds
// coordinates are ignored and report false.
func (r *Raster) Set(x, y int, px [4]byte) bool {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return false
	}
	if !r.pixels[y*r.width+x].CompareAndSwap(0, binary.LittleEndian.Uint32(px[:])) {
		return false
	}
	r.filled.Add(1)
	return true
}

// Pixel returns the current value at (x, y), or the sentinel out of bounds.
func (r *Raster) Pixel(x, y int) [4]byte {
	var px [4]byte
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return px
	}
	binary.LittleEndian.PutUint32(px[:], r.pixels[y*r.width+x].Load())
	return px
}

// Assigned reports whether (x, y) holds a real color.
func (r *Raster) Assigned(x, y int) bool {
	return r.Pixel(x, y)[3] != 0
}

// Filled returns the number of non-sentinel pixels. It never decreases.
func (r *Raster) Filled() int {
	return int(r.filled.Load())
}

// Snapshot copies the canvas into dst, growing it if needed, and returns
// the filled slice. The copy is best-effort while a writer is active.
func (r *Raster) Snapshot(dst []byte) []byte {
	n := r.Len()
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for i := range r.pixels {
		binary.LittleEndian.PutUint32(dst[i*BytesPerPixel:], r.pixels[i].Load())
	}
	return dst
}

// Digest returns the xxhash of a fresh snapshot. Two rasters with equal
// digests hold, with overwhelming probability, identical pixels.
func (r *Raster) Digest() uint64 {
	return xxhash.Sum64(r.Snapshot(nil))
}

// Image returns a snapshot as an image.RGBA. Sentinel pixels are fully
// transparent.
func (r *Raster) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	r.Snapshot(img.Pix)
	return img
}
