package core

// RGB is a quantized color. Channels range over [0, 2^depth-1] for the depth
// of the color space that produced it.
type RGB struct {
	R, G, B uint8
}

// MinDepth and MaxDepth bound the supported bits per channel.
// Depth 8 already yields a 4096x4096 canvas.
const (
	MinDepth = 1
	MaxDepth = 8
)

// Levels returns the number of values per channel at the given depth.
func Levels(depth int) int {
	return 1 << depth
}

// ColorCount returns the size of the color cube at the given depth.
func ColorCount(depth int) int {
	l := Levels(depth)
	return l * l * l
}

// Pack encodes c as a single index in [0, ColorCount(depth)).
// Red is the most significant channel.
func Pack(c RGB, depth int) uint32 {
	return uint32(c.R)<<(2*depth) | uint32(c.G)<<depth | uint32(c.B)
}

// Unpack is the inverse of Pack.
func Unpack(i uint32, depth int) RGB {
	mask := uint32(Levels(depth) - 1)
	return RGB{
		R: uint8(i >> (2 * depth) & mask),
		G: uint8(i >> depth & mask),
		B: uint8(i & mask),
	}
}

// Scale widens a channel value from depth bits to 8 bits,
// computing round(v * 255 / (2^depth - 1)).
func Scale(v uint8, depth int) uint8 {
	top := Levels(depth) - 1
	if top == 0 {
		return 0
	}
	return uint8((int(v)*255 + top/2) / top)
}

// RGBA8 expands c to an opaque 8-bit pixel in R, G, B, A byte order.
func (c RGB) RGBA8(depth int) [4]byte {
	return [4]byte{Scale(c.R, depth), Scale(c.G, depth), Scale(c.B, depth), 0xFF}
}

// DistSq returns the squared Euclidean distance between two colors.
func DistSq(a, b RGB) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}
