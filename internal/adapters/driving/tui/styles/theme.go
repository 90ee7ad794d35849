// Package styles holds the lipgloss styles shared by the TUI views.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/curricula/internal/core/domain"
)

// Palette is the set of colours the styles are built from.
type Palette struct {
	Accent  lipgloss.Color
	Info    lipgloss.Color
	Text    lipgloss.Color
	Dim     lipgloss.Color
	Good    lipgloss.Color
	Bad     lipgloss.Color
	Frame   lipgloss.Color
	BarFill lipgloss.Color

	// Types colours the badge of each chunk type.
	Types map[domain.ChunkType]lipgloss.Color
}

// DefaultPalette is a dark palette with one hue per chunk type.
func DefaultPalette() Palette {
	return Palette{
		Accent:  lipgloss.Color("#7C3AED"),
		Info:    lipgloss.Color("#06B6D4"),
		Text:    lipgloss.Color("#CDD6F4"),
		Dim:     lipgloss.Color("#6C7086"),
		Good:    lipgloss.Color("#A6E3A1"),
		Bad:     lipgloss.Color("#F38BA8"),
		Frame:   lipgloss.Color("#45475A"),
		BarFill: lipgloss.Color("#181825"),
		Types: map[domain.ChunkType]lipgloss.Color{
			domain.ChunkTypeFee:                 lipgloss.Color("#A6E3A1"),
			domain.ChunkTypeOccupationalProfile: lipgloss.Color("#F9E2AF"),
			domain.ChunkTypeCurriculumSummary:   lipgloss.Color("#89B4FA"),
			domain.ChunkTypeCurriculumSemester:  lipgloss.Color("#74C7EC"),
			domain.ChunkTypeProgramComplete:     lipgloss.Color("#CBA6F7"),
			domain.ChunkTypeProgramOverview:     lipgloss.Color("#FAB387"),
		},
	}
}

// Styles are the rendered styles of a palette.
type Styles struct {
	palette Palette

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style

	// Fee highlights tuition amounts.
	Fee lipgloss.Style
}

// New builds styles from p.
func New(p Palette) *Styles {
	return &Styles{
		palette:  p,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(p.Info),
		Normal:   lipgloss.NewStyle().Foreground(p.Text),
		Muted:    lipgloss.NewStyle().Foreground(p.Dim),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(p.Text).Background(p.Accent),
		Error:    lipgloss.NewStyle().Foreground(p.Bad),
		Success:  lipgloss.NewStyle().Foreground(p.Good),
		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Frame).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().Foreground(p.Dim).Background(p.BarFill).Padding(0, 1),
		Help:      lipgloss.NewStyle().Foreground(p.Dim),
		Fee:       lipgloss.NewStyle().Bold(true).Foreground(p.Good),
	}
}

// DefaultStyles returns styles built from DefaultPalette.
func DefaultStyles() *Styles {
	return New(DefaultPalette())
}

// Palette returns the colours the styles were built from.
func (s *Styles) Palette() Palette {
	return s.palette
}

// TypeBadge renders "[label]" in the colour of chunk type t.
func (s *Styles) TypeBadge(t domain.ChunkType) string {
	colour, ok := s.palette.Types[t]
	if !ok {
		colour = s.palette.Info
	}
	return lipgloss.NewStyle().Foreground(colour).Render("[" + TypeLabel(t) + "]")
}

// TypeLabel returns the short badge text for a chunk type.
func TypeLabel(t domain.ChunkType) string {
	switch t {
	case domain.ChunkTypeFee:
		return "fee"
	case domain.ChunkTypeOccupationalProfile:
		return "profile"
	case domain.ChunkTypeCurriculumSummary:
		return "curriculum"
	case domain.ChunkTypeCurriculumSemester:
		return "semester"
	case domain.ChunkTypeProgramComplete:
		return "program"
	case domain.ChunkTypeProgramOverview:
		return "overview"
	default:
		return "chunk"
	}
}
