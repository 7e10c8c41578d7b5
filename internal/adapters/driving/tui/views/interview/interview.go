// Package interview provides the chat-style interview view for the TUI.
package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/bridge"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medexpert-cli/internal/logger"
)

// chrome is the number of rows used by the title, answer area and status bar.
const chrome = 9

// View runs one interview at a time over a bridge and renders it as a chat.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.AnswerInput
	choices   *list.ChoiceList
	statusbar *status.Bar
	viewport  viewport.Model

	interviewService driving.InterviewService
	treatmentService driving.TreatmentService
	ctx              context.Context
	cancel           context.CancelFunc

	bridge     *bridge.Bridge
	question   *bridge.Question
	transcript []string
	followUp   string
	outcome    *domain.Outcome
	err        error
	finished   bool

	width  int
	height int
	ready  bool
}

// NewView creates a new interview view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	interviewService driving.InterviewService,
	treatmentService driving.TreatmentService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:           s,
		keymap:           km,
		input:            input.NewAnswerInput(s),
		choices:          list.NewChoiceList(s),
		statusbar:        status.NewBar(s, km),
		viewport:         viewport.New(80, 24-chrome),
		interviewService: interviewService,
		treatmentService: treatmentService,
		ctx:              context.Background(),
		width:            80,
		height:           24,
	}
}

// WithContext sets the parent context for interviews started by the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts a fresh interview.
func (v *View) Init() tea.Cmd {
	return v.Start()
}

// Start abandons any running interview and begins a new one.
func (v *View) Start() tea.Cmd {
	v.Stop()
	v.reset()

	ctx, cancel := context.WithCancel(v.ctx)
	b := bridge.New()
	if err := b.Run(ctx, v.interviewService); err != nil {
		cancel()
		v.fail(err)
		return nil
	}
	v.bridge = b
	v.cancel = cancel
	v.statusbar.SetState(status.StateWaiting)
	logger.Debug("tui: interview started")
	return waitForEvent(b)
}

// Stop cancels the running interview, if any. A pending question can no
// longer be answered and is dropped.
func (v *View) Stop() {
	v.question = nil
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	if v.bridge != nil {
		v.bridge.Close()
		v.bridge = nil
	}
}

func (v *View) reset() {
	v.question = nil
	v.transcript = nil
	v.followUp = ""
	v.outcome = nil
	v.err = nil
	v.finished = false
	v.input.Reset()
	v.input.Blur()
	v.choices.SetOptions(nil)
	v.statusbar.Clear()
	v.refresh()
}

func waitForEvent(b *bridge.Bridge) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-b.Events()
		if !ok {
			return messages.StreamClosed{Source: b}
		}
		return messages.BridgeEvent{Source: b, Event: e}
	}
}

// Update handles messages for the interview view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.BridgeEvent:
		if msg.Source != v.bridge || v.bridge == nil {
			return v, nil
		}
		return v, v.handleEvent(msg.Event)

	case messages.StreamClosed:
		return v, nil

	case messages.TreatmentOpened:
		if msg.Err != nil {
			v.appendLine(v.styles.Error.Render("Could not open treatment information: " + msg.Err.Error()))
		} else {
			v.appendLine(v.styles.Muted.Render("Opened treatment information: " + msg.Link.Target))
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	return v, nil
}

func (v *View) handleEvent(e bridge.Event) tea.Cmd {
	next := waitForEvent(v.bridge)

	switch ev := e.(type) {
	case *bridge.Question:
		v.question = ev
		prompt := ev.Prompt
		if ev.Kind == domain.KindMulti {
			prompt += " " + domain.MultiSelectHint
		}
		v.appendLine(v.styles.System.Render(prompt))
		v.statusbar.SetQuestion(ev.Seq, ev.Kind)
		switch ev.Kind {
		case domain.KindMulti:
			v.choices.SetOptions(ev.Options)
		case domain.KindText:
			v.input.Reset()
			return tea.Batch(v.input.Focus(), next)
		}

	case bridge.Notice:
		if kind, ok := diagnosisKind(ev.Text); ok {
			v.appendLine(v.styles.ForOutcome(kind).Render(ev.Text))
		} else {
			v.appendLine(v.styles.System.Render(ev.Text))
		}

	case bridge.FollowUp:
		v.followUp = ev.Disease
		v.appendLine(v.styles.Muted.Render(fmt.Sprintf("Press t to open treatment information for %s.", ev.Disease)))

	case bridge.Finished:
		v.finished = true
		v.question = nil
		v.outcome = ev.Outcome
		v.err = ev.Err
		if ev.Err != nil {
			v.fail(ev.Err)
		} else {
			v.statusbar.SetState(status.StateFinished)
			if ev.Outcome != nil {
				v.statusbar.SetMessage("Diagnosis: " + ev.Outcome.Diagnosis.Disease)
			}
		}
		return nil
	}
	return next
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	if keymap.Matches(keyStr, v.keymap.Back) {
		v.Stop()
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	}

	if v.finished {
		switch {
		case keymap.Matches(keyStr, v.keymap.Treatment):
			return v, v.openTreatment()
		case keymap.Matches(keyStr, v.keymap.Restart):
			return v, v.Start()
		}
		return v, v.scroll(msg)
	}

	if v.question == nil {
		return v, v.scroll(msg)
	}

	switch v.question.Kind {
	case domain.KindYesNo:
		switch {
		case keymap.Matches(keyStr, v.keymap.Yes):
			v.answer(domain.AnswerResponse(domain.Yes), "yes")
		case keymap.Matches(keyStr, v.keymap.No):
			v.answer(domain.AnswerResponse(domain.No), "no")
		}
		return v, nil

	case domain.KindMulti:
		if keymap.Matches(keyStr, v.keymap.Send) {
			selected := v.choices.Checked()
			echo := domain.None
			if len(selected) > 0 {
				echo = strings.Join(selected, ", ")
			}
			v.answer(domain.SelectionResponse(selected), echo)
			return v, nil
		}
		var cmd tea.Cmd
		v.choices, cmd = v.choices.Update(msg)
		return v, cmd

	default:
		if keymap.Matches(keyStr, v.keymap.Send) {
			text := v.input.Value()
			v.answer(domain.TextResponse(text), text)
			v.input.Reset()
			v.input.Blur()
			return v, nil
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
}

func (v *View) answer(r domain.Response, echo string) {
	q := v.question
	if err := q.Answer(r); err != nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(err.Error())
		return
	}
	v.question = nil
	v.appendLine(v.styles.User.Render("You: " + echo))
	v.statusbar.SetState(status.StateWaiting)
}

func (v *View) openTreatment() tea.Cmd {
	if v.followUp == "" || v.treatmentService == nil {
		return nil
	}
	disease, svc, ctx := v.followUp, v.treatmentService, v.ctx
	return func() tea.Msg {
		link, err := svc.Open(ctx, disease)
		return messages.TreatmentOpened{Link: link, Err: err}
	}
}

func (v *View) scroll(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return cmd
}

func (v *View) fail(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func (v *View) appendLine(line string) {
	v.transcript = append(v.transcript, line)
	v.refresh()
}

func (v *View) refresh() {
	v.viewport.SetContent(strings.Join(v.transcript, "\n\n"))
	v.viewport.GotoBottom()
}

// diagnosisKind classifies a told message that concludes the interview.
func diagnosisKind(text string) (domain.OutcomeKind, bool) {
	switch {
	case strings.HasPrefix(text, "Diagnosis: "+domain.NoMatch):
		return domain.OutcomeNoMatch, true
	case strings.HasPrefix(text, "Best matches:"):
		return domain.OutcomeBestMatch, true
	case strings.HasPrefix(text, "Diagnosis:"):
		return domain.OutcomeRule, true
	default:
		return "", false
	}
}

// View renders the interview.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("AI Medical Expert"))
	b.WriteString("\n\n")
	b.WriteString(v.viewport.View())
	b.WriteString("\n\n")

	if v.question != nil {
		switch v.question.Kind {
		case domain.KindMulti:
			b.WriteString(v.choices.View())
		case domain.KindYesNo:
			b.WriteString(v.styles.Help.Render("[y] yes   [n] no"))
		default:
			b.WriteString(v.input.View())
		}
		b.WriteString("\n")
	}

	b.WriteString(v.statusbar.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.viewport.Width = width
	v.viewport.Height = max(height-chrome, 3)
	v.refresh()
}

// Question returns the open question, if any.
func (v *View) Question() *bridge.Question {
	return v.question
}

// Transcript returns the rendered transcript lines.
func (v *View) Transcript() []string {
	return v.transcript
}

// Finished reports whether the current interview has ended.
func (v *View) Finished() bool {
	return v.finished
}

// Outcome returns the outcome of the finished interview.
func (v *View) Outcome() *domain.Outcome {
	return v.outcome
}

// FollowUp returns the disease whose treatment can be opened.
func (v *View) FollowUp() string {
	return v.followUp
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
