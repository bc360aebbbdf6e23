// Package formatter renders the objectives tree for terminals.
package formatter

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/starford/tiwaz/internal/tree"
)

// Gruvbox-inspired palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ToneStyle returns the style for a status or tier badge tone.
func ToneStyle(t tree.Tone) lipgloss.Style {
	switch t {
	case tree.ToneSuccess:
		return StyleGreen
	case tree.ToneDanger:
		return StyleRed
	case tree.TonePrimary:
		return StylePurple
	case tree.ToneSecondary:
		return StyleYellow
	case tree.ToneNeutral:
		return StyleDim
	default:
		return StyleBlue
	}
}

// Printer renders with or without ANSI styling.
type Printer struct {
	// Plain disables all styling, for pipes and files.
	Plain bool
	// BarWidth is the progress bar width in cells.
	BarWidth int
}

func (p Printer) render(s lipgloss.Style, text string) string {
	if p.Plain {
		return text
	}
	return s.Render(text)
}
