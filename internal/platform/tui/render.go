package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/allcolors/internal/core"
)

// tintPair keys the per-render style cache.
type tintPair struct {
	fg, bg core.Tint
}

// hex formats a tint as a lipgloss truecolor value.
func hex(t core.Tint) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", t.R, t.G, t.B))
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same colors to minimize ANSI escape sequences.
// A nil renderer uses lipgloss's default one.
func RenderScreen(s *core.Screen, r *lipgloss.Renderer) string {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	styles := make(map[tintPair]lipgloss.Style)
	styleFor := func(k tintPair) lipgloss.Style {
		if st, ok := styles[k]; ok {
			return st
		}
		st := r.NewStyle()
		if k.fg.Set {
			st = st.Foreground(hex(k.fg))
		}
		if k.bg.Set {
			st = st.Background(hex(k.bg))
		}
		styles[k] = st
		return st
	}

	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*4 + s.Height())

	for y, h := 0, s.Height(); y < h; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			start := tintPair{cell.FG, cell.BG}

			// Collect consecutive cells with same colors
			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if (tintPair{cell.FG, cell.BG}) != start {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if !start.fg.Set && !start.bg.Set {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(styleFor(start).Render(run.String()))
		}
	}
	return sb.String()
}
