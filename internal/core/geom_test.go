package core

import (
	"errors"
	"testing"
)

func TestRectIndexRoundTrip(t *testing.T) {
	r := NewRect(0, 0, 7, 3)
	for i := 0; i < r.W*r.H; i++ {
		p := r.At(i)
		if !r.Contains(p) {
			t.Fatalf("At(%d) = %v, outside %v", i, p, r)
		}
		if got := r.Index(p); got != i {
			t.Fatalf("Index(At(%d)) = %d", i, got)
		}
	}
}

func TestRectCenter(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want Pos
	}{
		{"even", NewRect(0, 0, 4, 2), P(2, 1)},
		{"odd", NewRect(0, 0, 5, 3), P(2, 1)},
		{"classic", NewRect(0, 0, 2048, 1024), P(1024, 512)},
		{"single", NewRect(0, 0, 1, 1), P(0, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.r.Center(); got != tc.want {
				t.Errorf("Center() = %v, expected %v", got, tc.want)
			}
		})
	}
}

func TestConnectivityOffsets(t *testing.T) {
	if n := len(Connect4.Offsets()); n != 4 {
		t.Errorf("Connect4 has %d offsets", n)
	}
	if n := len(Connect8.Offsets()); n != 8 {
		t.Errorf("Connect8 has %d offsets", n)
	}
	if Connectivity(6).Valid() {
		t.Error("6-connectivity should be invalid")
	}
	for _, o := range Connect8.Offsets() {
		if o == P(0, 0) {
			t.Error("offsets must not include the origin")
		}
	}
}

func TestPackUnpack(t *testing.T) {
	for depth := MinDepth; depth <= 4; depth++ {
		seen := make(map[RGB]bool)
		for i := 0; i < ColorCount(depth); i++ {
			c := Unpack(uint32(i), depth)
			if seen[c] {
				t.Fatalf("depth %d: duplicate color %v", depth, c)
			}
			seen[c] = true
			if got := Pack(c, depth); got != uint32(i) {
				t.Fatalf("depth %d: Pack(Unpack(%d)) = %d", depth, i, got)
			}
		}
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		v     uint8
		depth int
		want  uint8
	}{
		{0, 1, 0},
		{1, 1, 255},
		{1, 2, 85},
		{3, 2, 255},
		{64, 7, 129},
		{127, 7, 255},
		{200, 8, 200},
	}

	for _, tc := range tests {
		if got := Scale(tc.v, tc.depth); got != tc.want {
			t.Errorf("Scale(%d, %d) = %d, expected %d", tc.v, tc.depth, got, tc.want)
		}
	}
}

func TestGenConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  GenConfig
		ok   bool
	}{
		{"tiny", GenConfig{Depth: 1, Width: 4, Height: 2, Connectivity: Connect8}, true},
		{"classic", GenConfig{Depth: 7, Width: 2048, Height: 1024, Connectivity: Connect4}, true},
		{"area mismatch", GenConfig{Depth: 1, Width: 3, Height: 3, Connectivity: Connect8}, false},
		{"depth zero", GenConfig{Depth: 0, Width: 1, Height: 1, Connectivity: Connect8}, false},
		{"depth too large", GenConfig{Depth: 9, Width: 1 << 13, Height: 1 << 14, Connectivity: Connect8}, false},
		{"bad connectivity", GenConfig{Depth: 1, Width: 4, Height: 2, Connectivity: 3}, false},
		{"negative", GenConfig{Depth: 1, Width: -4, Height: -2, Connectivity: Connect8}, false},
		// 8 * (2^61+1) wraps to exactly 8 in int.
		{"area overflow", GenConfig{Depth: 1, Width: 8, Height: 1<<61 + 1, Connectivity: Connect8}, false},
		{"area overflow swapped", GenConfig{Depth: 1, Width: 1<<61 + 1, Height: 8, Connectivity: Connect8}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok && err != nil {
				t.Errorf("Validate() = %v, expected nil", err)
			}
			if !tc.ok && !errors.Is(err, ErrConfig) {
				t.Errorf("Validate() = %v, expected ErrConfig", err)
			}
		})
	}
}
