// Package diseases lists the catalog's disease profiles.
package diseases

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driving"
)

// View browses diseases and the symptoms of their profiles.
type View struct {
	styles         *styles.Styles
	catalogService driving.CatalogService

	profiles []domain.DiseaseProfile
	labels   map[string]string
	selected int

	width  int
	height int
}

// NewView creates a new diseases view.
func NewView(s *styles.Styles, catalogService driving.CatalogService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	v := &View{styles: s, catalogService: catalogService, width: 80, height: 24}
	v.load()
	return v
}

func (v *View) load() {
	v.labels = make(map[string]string)
	if v.catalogService == nil {
		return
	}
	for _, sym := range v.catalogService.Symptoms() {
		v.labels[sym.Token] = sym.Label
	}
	v.profiles = v.catalogService.Profiles()
}

// Init implements the view lifecycle; the catalog is static.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the diseases view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
		case "down", "j":
			if v.selected < len(v.profiles)-1 {
				v.selected++
			}
		}
	}
	return v, nil
}

// View renders the disease list and the selected profile.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Diseases"))
	b.WriteString("\n\n")

	if len(v.profiles) == 0 {
		b.WriteString(v.styles.Muted.Render("No disease profiles loaded."))
		return b.String()
	}

	visible := max(v.height-16, 3)
	start := 0
	if v.selected >= visible {
		start = v.selected - visible + 1
	}
	for i := start; i < min(start+visible, len(v.profiles)); i++ {
		name := v.profiles[i].Disease
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + name))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + name))
		}
		b.WriteString("\n")
	}

	p := v.profiles[v.selected]
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("%s profile (%d symptoms)", p.Disease, len(p.Symptoms))))
	b.WriteString("\n")
	for _, token := range p.Symptoms {
		b.WriteString(" - " + v.label(token) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [esc] Back"))
	return b.String()
}

func (v *View) label(token string) string {
	if l, ok := v.labels[token]; ok && l != "" {
		return l
	}
	return token
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Selected returns the selected profile, if any.
func (v *View) Selected() (domain.DiseaseProfile, bool) {
	if len(v.profiles) == 0 {
		return domain.DiseaseProfile{}, false
	}
	return v.profiles[v.selected], true
}
