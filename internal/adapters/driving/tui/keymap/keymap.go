// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select confirms a selection.
	Select key.Binding

	// Send submits the current answer.
	Send key.Binding

	// Toggle flips a multi-select option.
	Toggle key.Binding

	// Yes answers a yes/no question with yes.
	Yes key.Binding

	// No answers a yes/no question with no.
	No key.Binding

	// Treatment opens treatment information after a diagnosis.
	Treatment key.Binding

	// Restart starts a new interview once the current one has finished.
	Restart key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "no"),
		),
		Treatment: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "treatment"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "new interview"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Help}
}

// YesNoHelp returns keybindings shown while a yes/no question is open.
func (k *KeyMap) YesNoHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No, k.Back}
}

// MultiHelp returns keybindings shown while a multi-select question is open.
func (k *KeyMap) MultiHelp() []key.Binding {
	return []key.Binding{k.Up, k.Toggle, k.Send, k.Back}
}

// TextHelp returns keybindings shown while a free-text question is open.
func (k *KeyMap) TextHelp() []key.Binding {
	return []key.Binding{k.Send, k.Back}
}

// FinishedHelp returns keybindings shown after a diagnosis.
func (k *KeyMap) FinishedHelp() []key.Binding {
	return []key.Binding{k.Treatment, k.Restart, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Yes, k.No, k.Toggle, k.Send},
		{k.Treatment, k.Restart, k.Back},
		{k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
