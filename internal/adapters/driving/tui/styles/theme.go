// Package styles provides the colour theme and chat styling for the interview TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
)

// Theme is the colour palette. Every colour adapts to light and dark
// terminal backgrounds.
type Theme struct {
	Accent    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	Faint     lipgloss.AdaptiveColor
	Frame     lipgloss.AdaptiveColor
	Bar       lipgloss.AdaptiveColor

	// Outcome colours.
	Confirmed lipgloss.AdaptiveColor
	Tentative lipgloss.AdaptiveColor
	Alert     lipgloss.AdaptiveColor
}

// DefaultTheme is a teal clinical palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:    lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#22D3EE"},
		Highlight: lipgloss.AdaptiveColor{Light: "#0369A1", Dark: "#38BDF8"},
		Text:      lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"},
		Faint:     lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"},
		Frame:     lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"},
		Bar:       lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#111827"},
		Confirmed: lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"},
		Tentative: lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"},
		Alert:     lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"},
	}
}

// Styles holds the lipgloss styles shared by every view.
type Styles struct {
	theme *Theme

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style
	Border     lipgloss.Style

	// Chat transcript.
	System lipgloss.Style
	User   lipgloss.Style

	// Diagnosis frames a rule diagnosis. Best-match and no-match
	// outcomes use Tentative and NoMatch.
	Diagnosis lipgloss.Style
	Tentative lipgloss.Style
	NoMatch   lipgloss.Style

	// Checked marks a chosen multi-select option.
	Checked lipgloss.Style
}

// NewStyles builds the styles for a theme; nil means DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	framed := func(c lipgloss.AdaptiveColor) lipgloss.Style {
		return lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderForeground(c).
			Foreground(c).
			PaddingLeft(1)
	}

	return &Styles{
		theme:    theme,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Highlight),
		Normal:   lipgloss.NewStyle().Foreground(theme.Text),
		Muted:    lipgloss.NewStyle().Foreground(theme.Faint),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(theme.Bar).Background(theme.Accent),
		Error:    lipgloss.NewStyle().Foreground(theme.Alert),
		Success:  lipgloss.NewStyle().Foreground(theme.Confirmed),
		Warning:  lipgloss.NewStyle().Foreground(theme.Tentative),
		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Frame).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().Foreground(theme.Faint).Background(theme.Bar).Padding(0, 1),
		Help:      lipgloss.NewStyle().Foreground(theme.Faint).Italic(true),
		Border:    lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(theme.Frame),
		System:    lipgloss.NewStyle().Foreground(theme.Text),
		User:      lipgloss.NewStyle().Bold(true).Foreground(theme.Highlight).PaddingLeft(2),
		Diagnosis: framed(theme.Confirmed),
		Tentative: framed(theme.Tentative),
		NoMatch:   framed(theme.Alert),
		Checked:   lipgloss.NewStyle().Bold(true).Foreground(theme.Confirmed),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// ForOutcome returns the frame used to show an outcome of the given kind.
func (s *Styles) ForOutcome(kind domain.OutcomeKind) lipgloss.Style {
	switch kind {
	case domain.OutcomeBestMatch:
		return s.Tentative
	case domain.OutcomeNoMatch:
		return s.NoMatch
	default:
		return s.Diagnosis
	}
}
