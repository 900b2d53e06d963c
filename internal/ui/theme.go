package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// hobbit's color palette — growth greens, calm slate, warm accents.
var (
	// Primary colors
	Leaf     = lipgloss.Color("#39D353")
	Moss     = lipgloss.Color("#26A641")
	Fern     = lipgloss.Color("#006D32")
	Soil     = lipgloss.Color("#0E4429")
	Slate    = lipgloss.Color("#8B949E")
	Ember    = lipgloss.Color("#FFA657")
	Ruby     = lipgloss.Color("#E0115F")
	Sky      = lipgloss.Color("#58A6FF")
	Dim      = lipgloss.Color("#666666")
	Bright   = lipgloss.Color("#FFFFFF")
	CellGrey = lipgloss.Color("#2D333B")

	// Semantic styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Leaf)

	Subtitle = lipgloss.NewStyle().
			Foreground(Moss)

	Success = lipgloss.NewStyle().
		Foreground(Leaf)

	Error = lipgloss.NewStyle().
		Foreground(Ruby)

	Warning = lipgloss.NewStyle().
		Foreground(Ember)

	Info = lipgloss.NewStyle().
		Foreground(Sky)

	Muted = lipgloss.NewStyle().
		Foreground(Dim)

	Accent = lipgloss.NewStyle().
		Foreground(Leaf).
		Bold(true)

	KeyStyle = lipgloss.NewStyle().
			Foreground(Moss).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Bright)

	// HeatLevels indexes heatmap bucket → cell style, from no-data to the
	// deepest green. Same ramp GitHub uses, dark to bright.
	HeatLevels = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(Dim),
		lipgloss.NewStyle().Foreground(CellGrey),
		lipgloss.NewStyle().Foreground(Soil),
		lipgloss.NewStyle().Foreground(Fern),
		lipgloss.NewStyle().Foreground(Moss),
		lipgloss.NewStyle().Foreground(Leaf),
	}
)

// Icon constants — consistent emoji language.
const (
	IconHobbit  = "🌿"
	IconDone    = "✅"
	IconFire    = "🔥"
	IconChart   = "📊"
	IconCal     = "📅"
	IconSeed    = "🌱"
	IconStar    = "⭐"
	IconWarn    = "⚠️ "
	IconError   = "✗ "
	IconOk      = "✓ "
	IconArrow   = "→"
	IconDot     = "·"
	IconPartial = "◐"
	IconEmpty   = "○"
	IconFull    = "●"
)

func init() {
	// Piped output gets plain text, not ANSI soup.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}
