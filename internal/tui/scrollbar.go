package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// renderScrollIndicator draws a one-line position rail for a list of total
// rows of which visible are shown starting at offset. It returns "" when
// everything fits.
func renderScrollIndicator(width, offset, visible, total int) string {
	if width <= 0 || visible <= 0 || total <= visible {
		return ""
	}
	maxOffset := total - visible
	offset = clamp(offset, 0, maxOffset)

	prefix := "  ↕ "
	trackW := width - lipgloss.Width(prefix) - 2
	if trackW < 6 {
		return fitAnsiWidth(fmt.Sprintf("%s%d/%d", prefix, offset, maxOffset), width)
	}

	thumbW := clamp(int(math.Round(float64(visible)/float64(total)*float64(trackW))), 1, trackW)
	thumbPos := 0
	if trackW > thumbW {
		thumbPos = int(math.Round(float64(offset) / float64(maxOffset) * float64(trackW-thumbW)))
	}

	rail := lipgloss.NewStyle().Foreground(colorSurface1)
	thumb := lipgloss.NewStyle().Foreground(colorAccent)
	arrow := lipgloss.NewStyle().Foreground(colorDim)

	line := prefix +
		arrow.Render("▲") +
		rail.Render(strings.Repeat("─", thumbPos)) +
		thumb.Render(strings.Repeat("━", thumbW)) +
		rail.Render(strings.Repeat("─", trackW-thumbPos-thumbW)) +
		arrow.Render("▼")
	return fitAnsiWidth(line, width)
}

// fitAnsiWidth cuts or pads s to exactly width terminal cells, keeping
// escape sequences intact.
func fitAnsiWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	out := ansi.Cut(s, 0, width)
	if pad := width - lipgloss.Width(out); pad > 0 {
		out += strings.Repeat(" ", pad)
	}
	return out
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
