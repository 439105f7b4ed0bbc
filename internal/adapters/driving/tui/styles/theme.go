// Package styles holds the lipgloss palette shared by the TUI views.
package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the palette. Each role has a light and a dark terminal variant;
// lipgloss picks one from the detected background.
type Theme struct {
	Accent  lipgloss.AdaptiveColor
	Accent2 lipgloss.AdaptiveColor
	Text    lipgloss.AdaptiveColor
	Dim     lipgloss.AdaptiveColor
	Edge    lipgloss.AdaptiveColor
	Bar     lipgloss.AdaptiveColor

	// Match, Partial and Mismatch grade similarity scores and diff lines.
	Match    lipgloss.AdaptiveColor
	Partial  lipgloss.AdaptiveColor
	Mismatch lipgloss.AdaptiveColor
}

// DefaultTheme returns the proofcheck palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:   lipgloss.AdaptiveColor{Light: "#1F6F8B", Dark: "#2E86AB"},
		Accent2:  lipgloss.AdaptiveColor{Light: "#4A7C82", Dark: "#7FB7BE"},
		Text:     lipgloss.AdaptiveColor{Light: "#1B1F24", Dark: "#E6E8EB"},
		Dim:      lipgloss.AdaptiveColor{Light: "#5B6270", Dark: "#6B7280"},
		Edge:     lipgloss.AdaptiveColor{Light: "#C4C9D0", Dark: "#3A4048"},
		Bar:      lipgloss.AdaptiveColor{Light: "#E4E7EB", Dark: "#111418"},
		Match:    lipgloss.AdaptiveColor{Light: "#2F7D32", Dark: "#5FB760"},
		Partial:  lipgloss.AdaptiveColor{Light: "#A66300", Dark: "#E0A030"},
		Mismatch: lipgloss.AdaptiveColor{Light: "#B3261E", Dark: "#E5534B"},
	}
}

// Similarity at or above GoodScore renders as a match, at or above
// FairScore as partial, anything lower as a mismatch.
const (
	GoodScore = 0.95
	FairScore = 0.80
)

// Styles are the rendered roles derived from a Theme.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Help     lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	InputField   lipgloss.Style
	FocusedField lipgloss.Style

	DiffAdded   lipgloss.Style
	DiffRemoved lipgloss.Style

	StatusBar lipgloss.Style
}

// NewStyles builds styles from theme, or from DefaultTheme when nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	fg := func(c lipgloss.AdaptiveColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	field := func(c lipgloss.AdaptiveColor) lipgloss.Style {
		return lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(c).Padding(0, 1)
	}

	return &Styles{
		theme:    theme,
		Title:    fg(theme.Accent).Bold(true),
		Subtitle: fg(theme.Accent2).Bold(true),
		Normal:   fg(theme.Text),
		Muted:    fg(theme.Dim),
		Selected: fg(theme.Text).Background(theme.Accent).Bold(true),
		Help:     fg(theme.Dim),

		Success: fg(theme.Match),
		Warning: fg(theme.Partial),
		Error:   fg(theme.Mismatch),

		InputField:   field(theme.Edge),
		FocusedField: field(theme.Accent),

		DiffAdded:   fg(theme.Match),
		DiffRemoved: fg(theme.Mismatch),

		StatusBar: fg(theme.Dim).Background(theme.Bar).Padding(0, 1),
	}
}

// DefaultStyles returns styles for DefaultTheme.
func DefaultStyles() *Styles {
	return NewStyles(nil)
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Score picks the grade style for a similarity in [0,1].
func (s *Styles) Score(v float64) lipgloss.Style {
	switch {
	case v >= GoodScore:
		return s.Success
	case v >= FairScore:
		return s.Warning
	default:
		return s.Error
	}
}

// Percent renders v as a graded percentage, e.g. "97.5%".
func (s *Styles) Percent(v float64) string {
	return s.Score(v).Render(fmt.Sprintf("%.1f%%", v*100))
}
