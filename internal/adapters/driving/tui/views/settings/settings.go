// Package settings provides the settings view for the TUI.
package settings

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driving"
)

// View lists every setting. Enter edits the selected value; the recorder
// backend cycles through its allowed values instead.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	entries  []domain.SettingEntry
	selected int
	editing  bool
	editor   textinput.Model
	notice   string
	err      error

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	editor := textinput.New()
	editor.CharLimit = 256

	return &View{
		styles:          s,
		settingsService: settingsService,
		editor:          editor,
	}
}

// Init loads the current settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// Reset leaves edit mode and clears notices.
func (v *View) Reset() {
	v.editing = false
	v.editor.Blur()
	v.notice = ""
	v.err = nil
}

func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

func (v *View) save(key, value string) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		return messages.SettingsSaved{Key: key, Err: svc.Set(key, value)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case messages.SettingsLoaded:
		v.err = msg.Err
		if msg.Settings != nil {
			v.entries = msg.Settings.Entries()
			if v.selected >= len(v.entries) {
				v.selected = 0
			}
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			v.notice = ""
			return v, nil
		}
		v.err = nil
		v.notice = "Saved " + msg.Key
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKey(msg)
		}
		return v.handleKey(msg)
	}

	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.entries)-1 {
			v.selected++
		}
	case "enter":
		if len(v.entries) == 0 || v.settingsService == nil {
			return v, nil
		}
		entry := v.entries[v.selected]
		if entry.Key == domain.SettingSessionsBackend {
			return v, v.save(entry.Key, nextBackend(entry.Value).String())
		}
		v.editing = true
		v.editor.SetValue(entry.Value)
		v.editor.CursorEnd()
		return v, v.editor.Focus()
	}
	return v, nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.editing = false
		v.editor.Blur()
		return v, nil
	case "enter":
		v.editing = false
		v.editor.Blur()
		return v, v.save(v.entries[v.selected].Key, strings.TrimSpace(v.editor.Value()))
	}
	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

// nextBackend cycles csv -> sqlite -> both -> none -> csv.
func nextBackend(current string) domain.RecorderBackend {
	all := domain.AllRecorderBackends()
	for i, b := range all {
		if b.String() == current {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// View renders the settings list.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if len(v.entries) == 0 && v.err == nil {
		b.WriteString(v.styles.Muted.Render("Loading..."))
	}

	for i, e := range v.entries {
		value := e.Value
		if value == "" {
			value = "(default)"
		}
		if e.Key == domain.SettingSessionsBackend {
			value += v.styles.Muted.Render("  " + domain.RecorderBackend(e.Value).Description())
		}
		line := fmt.Sprintf("%-20s %s", e.Key, value)
		switch {
		case i == v.selected && v.editing:
			b.WriteString("> " + fmt.Sprintf("%-20s ", e.Key) + v.editor.View())
		case i == v.selected:
			b.WriteString(v.styles.Selected.Render("> " + line))
		default:
			b.WriteString(v.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	} else if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [enter] Edit  [esc] Back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
