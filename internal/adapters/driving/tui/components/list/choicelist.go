// Package list provides the multi-select option list for the TUI.
package list

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/styles"
)

// ChoiceList is a navigable list of options that can be toggled on and off.
type ChoiceList struct {
	options  []string
	checked  []bool
	selected int
	styles   *styles.Styles
}

// NewChoiceList creates an empty choice list.
func NewChoiceList(s *styles.Styles) *ChoiceList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &ChoiceList{styles: s}
}

// SetOptions replaces the options and clears every check.
func (c *ChoiceList) SetOptions(options []string) {
	c.options = append([]string(nil), options...)
	c.checked = make([]bool, len(options))
	c.selected = 0
}

// Update handles navigation and toggling keys.
func (c *ChoiceList) Update(msg tea.Msg) (*ChoiceList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			c.MoveUp()
		case "down", "j":
			c.MoveDown()
		case " ", "x":
			c.Toggle()
		}
	}
	return c, nil
}

// View renders the options as checkboxes.
func (c *ChoiceList) View() string {
	if len(c.options) == 0 {
		return c.styles.Muted.Render("No options")
	}

	lines := make([]string, 0, len(c.options))
	for i, o := range c.options {
		cursor := "  "
		if i == c.selected {
			cursor = "> "
		}
		box := "[ ] "
		label := c.styles.Normal.Render(o)
		if c.checked[i] {
			box = "[x] "
			label = c.styles.Checked.Render(o)
		}
		if i == c.selected {
			label = c.styles.Selected.Render(o)
		}
		lines = append(lines, cursor+box+label)
	}
	return strings.Join(lines, "\n")
}

// Toggle flips the option under the cursor.
func (c *ChoiceList) Toggle() {
	if len(c.options) == 0 {
		return
	}
	c.checked[c.selected] = !c.checked[c.selected]
}

// Checked returns the checked options in display order.
func (c *ChoiceList) Checked() []string {
	var out []string
	for i, ok := range c.checked {
		if ok {
			out = append(out, c.options[i])
		}
	}
	return out
}

// MoveUp moves the cursor up.
func (c *ChoiceList) MoveUp() {
	if c.selected > 0 {
		c.selected--
	}
}

// MoveDown moves the cursor down.
func (c *ChoiceList) MoveDown() {
	if c.selected < len(c.options)-1 {
		c.selected++
	}
}

// Selected returns the cursor index.
func (c *ChoiceList) Selected() int {
	return c.selected
}

// Count returns the number of options.
func (c *ChoiceList) Count() int {
	return len(c.options)
}
