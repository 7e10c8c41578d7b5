// Package menu provides the start menu of the TUI.
package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/styles"
)

// Entry is one line of the start menu. Key jumps straight to it.
type Entry struct {
	Key   string
	Label string
	Hint  string
	View  messages.ViewType
	Quit  bool
}

// Entries lists the start menu in display order.
func Entries() []Entry {
	return []Entry{
		{Key: "i", Label: "Start interview", Hint: "Answer a few questions and get a likely diagnosis", View: messages.ViewInterview},
		{Key: "h", Label: "Session history", Hint: "Earlier sessions and their outcomes", View: messages.ViewHistory},
		{Key: "d", Label: "Diseases", Hint: "Browse the diseases the rule catalog knows", View: messages.ViewDiseases},
		{Key: "s", Label: "Settings", Hint: "Session log backend, treatment folder and ranking", View: messages.ViewSettings},
		{Key: "?", Label: "Help", Hint: "Keyboard shortcuts", View: messages.ViewHelp},
		{Key: "q", Label: "Quit", Quit: true},
	}
}

// View is the start menu.
type View struct {
	styles  *styles.Styles
	entries []Entry
	cursor  int
	width   int
	height  int
	ready   bool
}

// NewView creates the start menu.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		entries: Entries(),
		width:   80,
		height:  24,
	}
}

// Init has nothing to load.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update moves the cursor or activates an entry.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		return v, v.handleKey(msg.String())
	}
	return v, nil
}

func (v *View) handleKey(key string) tea.Cmd {
	n := len(v.entries)
	switch key {
	case "up", "k":
		v.cursor = (v.cursor - 1 + n) % n
		return nil
	case "down", "j", "tab":
		v.cursor = (v.cursor + 1) % n
		return nil
	case "enter":
		return v.activate(v.cursor)
	}
	for i, e := range v.entries {
		if e.Key == key {
			v.cursor = i
			return v.activate(i)
		}
	}
	return nil
}

func (v *View) activate(i int) tea.Cmd {
	e := v.entries[i]
	if e.Quit {
		return tea.Quit
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: e.View}
	}
}

// View renders the menu with the hint of the highlighted entry.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("AI Medical Expert"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Symptom interview and likely diagnosis"))
	b.WriteString("\n\n")

	for i, e := range v.entries {
		line := "[" + e.Key + "] " + e.Label
		if i == v.cursor {
			b.WriteString("> " + v.styles.Subtitle.Render(line))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	if hint := v.entries[v.cursor].Hint; hint != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(hint))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Move  [Enter] Open  [q] Quit"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the highlighted entry index.
func (v *View) Selected() int {
	return v.cursor
}
