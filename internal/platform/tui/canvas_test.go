package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/allcolors/internal/core"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name         string
		srcW, srcH   int
		maxW, maxH   int
		wantW, wantH int
	}{
		{"wide into square", 2048, 1024, 80, 80, 80, 40},
		{"square into wide", 512, 512, 100, 40, 40, 40},
		{"upscale", 8, 8, 80, 44, 44, 44},
		{"exact", 64, 64, 64, 64, 64, 64},
		{"degenerate", 4, 2, 0, 10, 0, 0},
		{"thin", 4096, 1, 10, 10, 10, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, h := Fit(tc.srcW, tc.srcH, tc.maxW, tc.maxH)
			if w != tc.wantW || h != tc.wantH {
				t.Errorf("Fit() = %dx%d, expected %dx%d", w, h, tc.wantW, tc.wantH)
			}
		})
	}
}

func TestDrawCanvasHalfBlocks(t *testing.T) {
	// 2x2 canvas: top row red, sentinel; bottom row blue, green.
	snap := []byte{
		255, 0, 0, 255, 0, 0, 0, 0,
		0, 0, 255, 255, 0, 255, 0, 255,
	}
	s := core.NewScreen(2, 1)
	DrawCanvas(s, snap, 2, 2, core.NewRect(0, 0, 2, 1))

	left := s.GetCell(0, 0)
	if left.Rune != upperHalf {
		t.Errorf("left rune = %q, expected %q", left.Rune, upperHalf)
	}
	if left.FG != (core.Tint{R: 255, Set: true}) || left.BG != (core.Tint{B: 255, Set: true}) {
		t.Errorf("left cell = %+v", left)
	}

	right := s.GetCell(1, 0)
	if right.Rune != lowerHalf || right.FG != (core.Tint{G: 255, Set: true}) || right.BG.Set {
		t.Errorf("right cell = %+v, expected lower half in green", right)
	}
}

func TestDrawCanvasBlankAndCentered(t *testing.T) {
	snap := make([]byte, 4*4*4)
	s := core.NewScreen(10, 4)
	s.DrawText(0, 0, "xxxxxxxxxx")
	DrawCanvas(s, snap, 4, 4, core.NewRect(0, 0, 10, 4))

	// 4x4 pixels scale to 8x8, i.e. 8 columns by 4 rows, centered at x=1.
	if got := s.Row(0); got != "x        x" {
		t.Errorf("row 0 = %q", got)
	}
	if strings.ContainsAny(s.String(), string([]rune{upperHalf, lowerHalf})) {
		t.Error("unassigned pixels should draw as blanks")
	}
}

func TestDrawCanvasShortSnapshot(t *testing.T) {
	s := core.NewScreen(4, 2)
	DrawCanvas(s, make([]byte, 3), 2, 2, core.NewRect(0, 0, 4, 2))
	if strings.TrimSpace(s.String()) != "" {
		t.Error("short snapshot should draw nothing")
	}
}

func TestRenderScreenPlain(t *testing.T) {
	s := core.NewScreen(5, 2)
	s.DrawText(0, 0, "hello")
	s.DrawText(0, 1, "world")

	if got := RenderScreen(s, nil); got != "hello\nworld" {
		t.Errorf("RenderScreen() = %q", got)
	}
}

func TestRenderScreenColored(t *testing.T) {
	s := core.NewScreen(3, 1)
	red := core.Tint{R: 255, Set: true}
	for x := 0; x < 3; x++ {
		s.SetCell(x, 0, core.Cell{Rune: upperHalf, FG: red})
	}
	out := RenderScreen(s, nil)
	if strings.Count(out, string(upperHalf)) != 3 {
		t.Errorf("RenderScreen() = %q, expected three half blocks", out)
	}
}

func TestHexTint(t *testing.T) {
	if got := hex(core.Tint{R: 0x12, G: 0xab, B: 0x0f, Set: true}); string(got) != "#12ab0f" {
		t.Errorf("hex() = %q", got)
	}
}
