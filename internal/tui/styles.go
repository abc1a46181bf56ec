package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// ─── Color Palette ──────────────────────────────────────────────────────────
//
// Assigned by applyTheme; the values below are Catppuccin Mocha.

var (
	colorBase     = lipgloss.Color("#1E1E2E")
	colorMantle   = lipgloss.Color("#181825")
	colorSurface0 = lipgloss.Color("#313244")
	colorSurface1 = lipgloss.Color("#45475A")
	colorText     = lipgloss.Color("#CDD6F4")
	colorSubtext  = lipgloss.Color("#A6ADC8")
	colorDim      = lipgloss.Color("#585B70")

	colorAccent   = lipgloss.Color("#CBA6F7")
	colorBlue     = lipgloss.Color("#89B4FA")
	colorSapphire = lipgloss.Color("#74C7EC")
	colorGreen    = lipgloss.Color("#A6E3A1")
	colorYellow   = lipgloss.Color("#F9E2AF")
	colorRed      = lipgloss.Color("#F38BA8")
	colorPeach    = lipgloss.Color("#FAB387")
	colorTeal     = lipgloss.Color("#94E2D5")
	colorLavender = lipgloss.Color("#B4BEFE")
)

// ─── Reusable Styles ────────────────────────────────────────────────────────

var (
	headerStyle        lipgloss.Style
	headerBrandStyle   lipgloss.Style
	sectionHeaderStyle lipgloss.Style
	helpStyle          lipgloss.Style
	helpKeyStyle       lipgloss.Style
	labelStyle         lipgloss.Style
	valueStyle         lipgloss.Style
	dimStyle           lipgloss.Style
	metricValueStyle   lipgloss.Style
	errorStyle         lipgloss.Style
	selectedStyle      lipgloss.Style
	cardStyle          lipgloss.Style
)

func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorLavender)

	headerBrandStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorAccent)

	sectionHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorBlue)

	helpStyle = lipgloss.NewStyle().
		Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
		Foreground(colorSapphire).
		Bold(true)

	labelStyle = lipgloss.NewStyle().
		Foreground(colorSubtext)

	valueStyle = lipgloss.NewStyle().
		Foreground(colorText)

	dimStyle = lipgloss.NewStyle().
		Foreground(colorDim)

	metricValueStyle = lipgloss.NewStyle().
		Foreground(colorPeach).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorRed).
		Bold(true)

	selectedStyle = lipgloss.NewStyle().
		Foreground(colorMantle).
		Background(colorAccent).
		Bold(true).
		Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSurface1).
		Padding(0, 1)
}

// barStyle colors a chart bar by its share of the largest value in view.
func barStyle(value, maxValue float64) lipgloss.Style {
	style := lipgloss.NewStyle()
	switch {
	case maxValue <= 0:
		return style.Foreground(colorDim)
	case value >= 0.8*maxValue:
		return style.Foreground(colorPeach)
	case value >= 0.5*maxValue:
		return style.Foreground(colorYellow)
	default:
		return style.Foreground(colorTeal)
	}
}
