// Package status provides the status bar shown under the interview.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
)

// State represents the interview state for display.
type State string

const (
	StateIdle     State = "idle"
	StateWaiting  State = "waiting"
	StateQuestion State = "question"
	StateFinished State = "finished"
	StateError    State = "error"
)

// Bar displays interview progress and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	kind     domain.QuestionKind
	message  string
	question int
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateIdle,
		width:  80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateWaiting:
		return s.styles.Muted.Render("Thinking...")
	case StateQuestion:
		return s.styles.Normal.Render(fmt.Sprintf("Question %d", s.question))
	case StateFinished:
		if s.message != "" {
			return s.styles.Success.Render(s.message)
		}
		return s.styles.Success.Render("Finished")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateIdle:
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch {
	case s.state == StateQuestion && s.kind == domain.KindYesNo:
		bindings = s.keymap.YesNoHelp()
	case s.state == StateQuestion && s.kind == domain.KindMulti:
		bindings = s.keymap.MultiHelp()
	case s.state == StateQuestion:
		bindings = s.keymap.TextHelp()
	case s.state == StateFinished:
		bindings = s.keymap.FinishedHelp()
	default:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetQuestion switches to the question state for question number n.
func (s *Bar) SetQuestion(n int, kind domain.QuestionKind) {
	s.state = StateQuestion
	s.question = n
	s.kind = kind
	s.message = ""
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Clear resets the status bar to its idle state.
func (s *Bar) Clear() {
	s.state = StateIdle
	s.message = ""
	s.question = 0
	s.kind = ""
}
