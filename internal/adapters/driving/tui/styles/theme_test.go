package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
)

func TestDefaultTheme_AdaptsToBothBackgrounds(t *testing.T) {
	theme := DefaultTheme()

	for name, c := range map[string]lipgloss.AdaptiveColor{
		"accent":    theme.Accent,
		"highlight": theme.Highlight,
		"text":      theme.Text,
		"faint":     theme.Faint,
		"frame":     theme.Frame,
		"bar":       theme.Bar,
		"confirmed": theme.Confirmed,
		"tentative": theme.Tentative,
		"alert":     theme.Alert,
	} {
		assert.NotEmpty(t, c.Light, name)
		assert.NotEmpty(t, c.Dark, name)
	}
}

func TestDefaultTheme_OutcomeColoursDiffer(t *testing.T) {
	theme := DefaultTheme()

	assert.NotEqual(t, theme.Confirmed, theme.Tentative)
	assert.NotEqual(t, theme.Confirmed, theme.Alert)
	assert.NotEqual(t, theme.Tentative, theme.Alert)
}

func TestNewStyles_NilTheme(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s)
	assert.Equal(t, DefaultTheme(), s.Theme())
}

func TestStyles_Render(t *testing.T) {
	s := DefaultStyles()

	cases := map[string]lipgloss.Style{
		"title":     s.Title,
		"muted":     s.Muted,
		"selected":  s.Selected,
		"error":     s.Error,
		"help":      s.Help,
		"status":    s.StatusBar,
		"user":      s.User,
		"diagnosis": s.Diagnosis,
	}
	for name, style := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, style.Render("Asthma"), "Asthma")
		})
	}
}

func TestStyles_ForOutcome(t *testing.T) {
	s := DefaultStyles()
	theme := s.Theme()

	assert.Equal(t, theme.Confirmed, s.ForOutcome(domain.OutcomeRule).GetForeground())
	assert.Equal(t, theme.Tentative, s.ForOutcome(domain.OutcomeBestMatch).GetForeground())
	assert.Equal(t, theme.Alert, s.ForOutcome(domain.OutcomeNoMatch).GetForeground())
	assert.Equal(t, theme.Confirmed, s.Checked.GetForeground())
}
