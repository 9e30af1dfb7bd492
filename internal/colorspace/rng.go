package colorspace

// RNG is a deterministic pseudo-random number generator (xorshift64).
// The same seed always yields the same stream on every platform.
type RNG struct {
	state uint64
}

// NewRNG creates a new RNG with the given seed.
func NewRNG(seed uint64) *RNG {
	// Mix the seed so that small consecutive seeds diverge immediately.
	s := seed + 0x9E3779B97F4A7C15
	s = (s ^ (s >> 30)) * 0xBF58476D1CE4E5B9
	s = (s ^ (s >> 27)) * 0x94D049BB133111EB
	s ^= s >> 31
	if s == 0 {
		s = 88172645463325252 // xorshift must not start at zero
	}
	return &RNG{state: s}
}

// Next returns the next random uint64.
func (r *RNG) Next() uint64 {
	r.state ^= r.state << 13
	r.state ^= r.state >> 7
	r.state ^= r.state << 17
	return r.state
}

// Intn returns a random int in [0, n).
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}
