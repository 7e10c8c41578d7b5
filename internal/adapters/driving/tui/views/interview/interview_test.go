package interview

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/bridge"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driven"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driving"
)

type scriptedInterview func(ctx context.Context, port driven.InteractionPort) (*domain.Outcome, error)

func (f scriptedInterview) Run(ctx context.Context, port driven.InteractionPort) (*domain.Outcome, error) {
	return f(ctx, port)
}

type mockTreatment struct {
	mu     sync.Mutex
	opened []string
}

func (m *mockTreatment) Resolve(disease string) (driving.TreatmentLink, error) {
	return driving.TreatmentLink{Disease: disease, Target: "https://example.org/" + disease}, nil
}

func (m *mockTreatment) Open(_ context.Context, disease string) (driving.TreatmentLink, error) {
	m.mu.Lock()
	m.opened = append(m.opened, disease)
	m.mu.Unlock()
	return m.Resolve(disease)
}

// await executes cmd and returns the first bridge message it yields.
func await(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)

	out := make(chan tea.Msg, 8)
	var launch func(c tea.Cmd)
	launch = func(c tea.Cmd) {
		go func() {
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, sub := range batch {
					if sub != nil {
						launch(sub)
					}
				}
				return
			}
			switch msg.(type) {
			case messages.BridgeEvent, messages.StreamClosed, messages.TreatmentOpened, messages.ViewChanged:
				out <- msg
			}
		}()
	}
	launch(cmd)

	select {
	case msg := <-out:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

// pumpUntil feeds bridge messages into the view until cond holds.
func pumpUntil(t *testing.T, v *View, cmd tea.Cmd, cond func() bool) tea.Cmd {
	t.Helper()
	for !cond() {
		_, cmd = v.Update(await(t, cmd))
	}
	return cmd
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func typeText(v *View, s string) {
	for _, r := range s {
		v.Update(keyRune(r))
	}
}

func fullScript(got *[]any) scriptedInterview {
	return func(ctx context.Context, p driven.InteractionPort) (*domain.Outcome, error) {
		if err := p.Tell(ctx, domain.Greeting); err != nil {
			return nil, err
		}
		name, err := p.AskText(ctx, "What's your name?")
		if err != nil {
			return nil, err
		}
		answer, err := p.AskYesNo(ctx, "Are you suffering from fatigue?")
		if err != nil {
			return nil, err
		}
		fever, err := p.AskMulti(ctx, "Do you suffer from fever?", []string{"Normal Fever", "Low Fever", "High Fever"})
		if err != nil {
			return nil, err
		}
		*got = []any{name, answer, fever}
		_ = p.Tell(ctx, "Diagnosis: Dengue\nMatched symptoms:\n - High Fever")
		_ = p.RevealFollowUp(ctx, "Dengue")
		_ = p.Tell(ctx, domain.ClosingMessage)
		return &domain.Outcome{Kind: domain.OutcomeRule, Diagnosis: domain.Diagnosis{Disease: "Dengue"}}, nil
	}
}

func TestView_FullInterview(t *testing.T) {
	var got []any
	treatment := &mockTreatment{}
	v := NewView(nil, nil, fullScript(&got), treatment)
	v.SetDimensions(100, 40)

	cmd := v.Init()
	cmd = pumpUntil(t, v, cmd, func() bool { return v.Question() != nil })
	assert.Equal(t, domain.KindText, v.Question().Kind)
	assert.Contains(t, v.Transcript()[0], domain.Greeting)

	typeText(v, "Ana")
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, v.Question())

	cmd = pumpUntil(t, v, cmd, func() bool { return v.Question() != nil })
	assert.Equal(t, domain.KindYesNo, v.Question().Kind)
	assert.Contains(t, v.View(), "[y] yes")
	v.Update(keyRune('y'))

	cmd = pumpUntil(t, v, cmd, func() bool { return v.Question() != nil })
	assert.Equal(t, domain.KindMulti, v.Question().Kind)
	assert.Contains(t, v.View(), domain.MultiSelectHint)
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(keyRune(' '))
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	pumpUntil(t, v, cmd, v.Finished)

	require.NoError(t, v.Err())
	assert.Equal(t, []any{"Ana", domain.Yes, []string{"High Fever"}}, got)
	assert.Equal(t, "Dengue", v.FollowUp())
	assert.Equal(t, "Dengue", v.Outcome().Diagnosis.Disease)
	assert.Equal(t, status.StateFinished, v.statusbar.State())

	transcript := strings.Join(v.Transcript(), "\n")
	assert.Contains(t, transcript, "You: Ana")
	assert.Contains(t, transcript, "You: yes")
	assert.Contains(t, transcript, "You: High Fever")
	assert.Contains(t, transcript, "Press t to open treatment information for Dengue.")

	_, openCmd := v.Update(keyRune('t'))
	msg := await(t, openCmd)
	v.Update(msg)
	assert.Equal(t, []string{"Dengue"}, treatment.opened)
	assert.Contains(t, strings.Join(v.Transcript(), "\n"), "Opened treatment information: https://example.org/Dengue")
}

func TestView_EmptySelectionSendsNone(t *testing.T) {
	var got []string
	svc := scriptedInterview(func(ctx context.Context, p driven.InteractionPort) (*domain.Outcome, error) {
		var err error
		got, err = p.AskMulti(ctx, "fever?", []string{"Low Fever"})
		return nil, err
	})
	v := NewView(nil, nil, svc, nil)

	cmd := pumpUntil(t, v, v.Init(), func() bool { return v.Question() != nil })
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	pumpUntil(t, v, cmd, v.Finished)

	assert.Equal(t, []string{domain.None}, got)
	assert.Contains(t, strings.Join(v.Transcript(), "\n"), "You: none")
}

func TestView_NoTreatmentBeforeFollowUp(t *testing.T) {
	svc := scriptedInterview(func(context.Context, driven.InteractionPort) (*domain.Outcome, error) {
		return &domain.Outcome{Kind: domain.OutcomeNoMatch, Diagnosis: domain.NoMatchDiagnosis()}, nil
	})
	treatment := &mockTreatment{}
	v := NewView(nil, nil, svc, treatment)

	pumpUntil(t, v, v.Init(), v.Finished)

	_, cmd := v.Update(keyRune('t'))
	assert.Nil(t, cmd)
	assert.Empty(t, treatment.opened)
}

func TestView_FaultShowsError(t *testing.T) {
	svc := scriptedInterview(func(context.Context, driven.InteractionPort) (*domain.Outcome, error) {
		return nil, errors.New("engine fault: boom")
	})
	v := NewView(nil, nil, svc, nil)

	pumpUntil(t, v, v.Init(), v.Finished)

	assert.EqualError(t, v.Err(), "engine fault: boom")
	assert.Equal(t, status.StateError, v.statusbar.State())
	assert.Contains(t, v.View(), "Error: engine fault: boom")
}

func TestView_EscAbandonsInterview(t *testing.T) {
	workerErr := make(chan error, 1)
	svc := scriptedInterview(func(ctx context.Context, p driven.InteractionPort) (*domain.Outcome, error) {
		_, err := p.AskYesNo(ctx, "fatigue?")
		workerErr <- err
		return nil, err
	})
	v := NewView(nil, nil, svc, nil)

	pumpUntil(t, v, v.Init(), func() bool { return v.Question() != nil })
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, await(t, cmd))
	assert.Nil(t, v.Question(), "an abandoned question cannot be answered")
	err := <-workerErr
	assert.True(t, errors.Is(err, context.Canceled) || errors.Is(err, bridge.ErrClosed))
}

func TestView_IgnoresStaleEvents(t *testing.T) {
	v := NewView(nil, nil, scriptedInterview(func(ctx context.Context, p driven.InteractionPort) (*domain.Outcome, error) {
		_, err := p.AskText(ctx, "name?")
		return nil, err
	}), nil)
	v.Init()
	defer v.Stop()

	_, cmd := v.Update(messages.BridgeEvent{Source: bridge.New(), Event: bridge.Notice{Text: "old session"}})

	assert.Nil(t, cmd)
	for _, line := range v.Transcript() {
		assert.NotContains(t, line, "old session")
	}
}

func TestView_RestartAfterFinish(t *testing.T) {
	runs := 0
	svc := scriptedInterview(func(ctx context.Context, p driven.InteractionPort) (*domain.Outcome, error) {
		runs++
		return &domain.Outcome{Kind: domain.OutcomeNoMatch, Diagnosis: domain.NoMatchDiagnosis()}, p.Tell(ctx, "run")
	})
	v := NewView(nil, nil, svc, nil)

	pumpUntil(t, v, v.Init(), v.Finished)
	_, cmd := v.Update(keyRune('r'))
	assert.False(t, v.Finished())
	pumpUntil(t, v, cmd, v.Finished)

	assert.Equal(t, 2, runs)
	assert.Len(t, v.Transcript(), 1)
}

func TestDiagnosisKind(t *testing.T) {
	tests := []struct {
		text string
		want domain.OutcomeKind
		ok   bool
	}{
		{domain.Diagnosis{Disease: "Asthma"}.Message(), domain.OutcomeRule, true},
		{domain.NoMatchDiagnosis().Message(), domain.OutcomeNoMatch, true},
		{"Best matches:\n - Flu", domain.OutcomeBestMatch, true},
		{domain.ClosingMessage, "", false},
	}

	for _, tt := range tests {
		kind, ok := diagnosisKind(tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
		assert.Equal(t, tt.want, kind, tt.text)
	}
}
