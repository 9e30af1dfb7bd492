package tui

import (
	"github.com/vovakirdan/allcolors/internal/core"
	"github.com/vovakirdan/allcolors/internal/raster"
)

// Half-block glyphs: each terminal cell shows two vertically stacked pixels.
const (
	upperHalf = '▀'
	lowerHalf = '▄'
)

// Fit returns the largest size with the aspect ratio of srcW x srcH that fits
// in maxW x maxH. Small sources are scaled up.
func Fit(srcW, srcH, maxW, maxH int) (w, h int) {
	if srcW <= 0 || srcH <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	w, h = maxW, srcH*maxW/srcW
	if h > maxH {
		w, h = srcW*maxH/srcH, maxH
	}
	return core.Max(w, 1), core.Max(h, 1)
}

// DrawCanvas samples an RGBA8 snapshot of srcW x srcH pixels into area of the
// screen, centered, using nearest-neighbour scaling and half-block cells.
// Unassigned pixels keep the terminal's default colors.
func DrawCanvas(s *core.Screen, snap []byte, srcW, srcH int, area core.Rect) {
	if len(snap) < srcW*srcH*raster.BytesPerPixel {
		return
	}
	w, h := Fit(srcW, srcH, area.W, area.H*2)
	if w == 0 {
		return
	}
	rows := (h + 1) / 2
	ox := area.X + (area.W-w)/2
	oy := area.Y + (area.H-rows)/2

	pixel := func(px, py int) core.Tint {
		if py >= h {
			return core.Tint{}
		}
		sx := px * srcW / w
		sy := py * srcH / h
		i := (sy*srcW + sx) * raster.BytesPerPixel
		return core.TintOf([4]byte{snap[i], snap[i+1], snap[i+2], snap[i+3]})
	}

	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < w; cx++ {
			top := pixel(cx, 2*cy)
			bottom := pixel(cx, 2*cy+1)

			var c core.Cell
			switch {
			case top.Set:
				c = core.Cell{Rune: upperHalf, FG: top, BG: bottom}
			case bottom.Set:
				c = core.Cell{Rune: lowerHalf, FG: bottom}
			default:
				c = core.Cell{Rune: ' '}
			}
			s.SetCell(ox+cx, oy+cy, c)
		}
	}
}
