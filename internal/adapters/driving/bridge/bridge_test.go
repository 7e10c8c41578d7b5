package bridge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medexpert-cli/internal/adapters/driven/catalog"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driven"
	"github.com/custodia-labs/medexpert-cli/internal/core/services"
)

// fakeInterview runs an arbitrary script against the port.
type fakeInterview struct {
	run func(ctx context.Context, port driven.InteractionPort) (*domain.Outcome, error)
}

func (f fakeInterview) Run(ctx context.Context, port driven.InteractionPort) (*domain.Outcome, error) {
	return f.run(ctx, port)
}

func next(t *testing.T, b *Bridge) Event {
	t.Helper()
	select {
	case e, ok := <-b.Events():
		require.True(t, ok, "event stream closed")
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func nextQuestion(t *testing.T, b *Bridge) *Question {
	t.Helper()
	q, ok := next(t, b).(*Question)
	require.True(t, ok, "expected a question")
	return q
}

func drain(t *testing.T, b *Bridge) []Event {
	t.Helper()
	var out []Event
	deadline := time.After(2 * time.Second)
	for {
		select {
		case e, ok := <-b.Events():
			if !ok {
				return out
			}
			out = append(out, e)
		case <-deadline:
			t.Fatal("event stream never closed")
		}
	}
}

func TestBridge_FullInterviewAllNo(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	store := memory.NewSessionStore()
	svc := services.NewInterviewService(cat, store, 0)

	b := New()
	require.NoError(t, b.Run(context.Background(), svc))

	var notices []string
	var finished Finished
	for e := range b.Events() {
		switch ev := e.(type) {
		case *Question:
			switch ev.Kind {
			case domain.KindText:
				require.NoError(t, ev.Answer(domain.TextResponse("Ana")))
			case domain.KindYesNo:
				require.NoError(t, ev.Answer(domain.AnswerResponse(domain.No)))
			case domain.KindMulti:
				require.NoError(t, ev.Answer(domain.SelectionResponse(nil)))
			}
		case Notice:
			notices = append(notices, ev.Text)
		case FollowUp:
			t.Fatalf("no follow-up expected for %s", ev.Disease)
		case Finished:
			finished = ev
		}
	}

	require.NoError(t, finished.Err)
	require.NotNil(t, finished.Outcome)
	assert.Equal(t, domain.OutcomeNoMatch, finished.Outcome.Kind)
	assert.Equal(t, domain.Greeting, notices[0])
	assert.Equal(t, domain.ClosingMessage, notices[len(notices)-1])
	assert.Equal(t, 1, store.Len())
}

func TestBridge_QuestionsAreNumbered(t *testing.T) {
	b := New()
	require.NoError(t, b.Run(context.Background(), fakeInterview{run: func(ctx context.Context, p driven.InteractionPort) (*domain.Outcome, error) {
		if _, err := p.AskText(ctx, "name?"); err != nil {
			return nil, err
		}
		_, err := p.AskText(ctx, "gender?")
		return nil, err
	}}))

	q1 := nextQuestion(t, b)
	require.NoError(t, q1.Answer(domain.TextResponse("Ana")))
	q2 := nextQuestion(t, b)
	require.NoError(t, q2.Answer(domain.TextResponse("f")))

	assert.Equal(t, 1, q1.Seq)
	assert.Equal(t, 2, q2.Seq)
	assert.Equal(t, "gender?", q2.Prompt)
	drain(t, b)
}

func TestBridge_SecondConcurrentAskFails(t *testing.T) {
	secondErr := make(chan error, 1)
	b := New()
	require.NoError(t, b.Run(context.Background(), fakeInterview{run: func(ctx context.Context, p driven.InteractionPort) (*domain.Outcome, error) {
		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = p.AskYesNo(ctx, "first?")
		}()
		// Wait until the first question is open.
		for len(b.slot) == 0 {
			time.Sleep(time.Millisecond)
		}
		_, err := p.AskYesNo(ctx, "second?")
		secondErr <- err
		<-done
		return nil, nil
	}}))

	q := nextQuestion(t, b)
	assert.ErrorIs(t, <-secondErr, ErrQuestionOutstanding)
	require.NoError(t, q.Answer(domain.AnswerResponse(domain.Yes)))
	drain(t, b)
}

func TestQuestion_Answer(t *testing.T) {
	tests := []struct {
		name    string
		kind    domain.QuestionKind
		options []string
		resp    domain.Response
		wantErr error
		want    domain.Response
	}{
		{name: "text", kind: domain.KindText, resp: domain.TextResponse(""), want: domain.TextResponse("")},
		{name: "yes", kind: domain.KindYesNo, resp: domain.AnswerResponse(domain.Yes), want: domain.AnswerResponse(domain.Yes)},
		{name: "maybe", kind: domain.KindYesNo, resp: domain.AnswerResponse("maybe"), wantErr: ErrInvalidResponse},
		{name: "empty selection", kind: domain.KindMulti, options: []string{"Low", "High"}, resp: domain.Response{}, want: domain.SelectionResponse(nil)},
		{name: "valid selection", kind: domain.KindMulti, options: []string{"Low", "High"}, resp: domain.SelectionResponse([]string{"High"}), want: domain.SelectionResponse([]string{"High"})},
		{name: "unknown option", kind: domain.KindMulti, options: []string{"Low", "High"}, resp: domain.SelectionResponse([]string{"Huge"}), wantErr: ErrInvalidResponse},
		{name: "none mixed", kind: domain.KindMulti, options: []string{"Low"}, resp: domain.SelectionResponse([]string{"Low", domain.None}), wantErr: ErrInvalidResponse},
		{name: "duplicate", kind: domain.KindMulti, options: []string{"Low"}, resp: domain.SelectionResponse([]string{"Low", "Low"}), wantErr: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newQuestion(1, tt.kind, "prompt", tt.options)
			err := q.Answer(tt.resp)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, q.Open(), "invalid answer keeps the question open")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, <-q.reply)
			assert.False(t, q.Open())
		})
	}
}

func TestQuestion_AnswerTwice(t *testing.T) {
	q := newQuestion(1, domain.KindYesNo, "fever?", nil)
	require.NoError(t, q.Answer(domain.AnswerResponse(domain.No)))
	assert.ErrorIs(t, q.Answer(domain.AnswerResponse(domain.Yes)), ErrAlreadyAnswered)
}

func TestBridge_CancelReleasesWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := New()
	require.NoError(t, b.Run(ctx, fakeInterview{run: func(ctx context.Context, p driven.InteractionPort) (*domain.Outcome, error) {
		_, err := p.AskYesNo(ctx, "fatigue?")
		return nil, err
	}}))

	q := nextQuestion(t, b)
	cancel()

	fin, ok := next(t, b).(Finished)
	require.True(t, ok)
	assert.ErrorIs(t, fin.Err, context.Canceled)
	assert.ErrorIs(t, q.Answer(domain.AnswerResponse(domain.Yes)), ErrClosed)
	drain(t, b)
}

func TestBridge_CloseReleasesWorker(t *testing.T) {
	workerErr := make(chan error, 1)
	b := New()
	require.NoError(t, b.Run(context.Background(), fakeInterview{run: func(ctx context.Context, p driven.InteractionPort) (*domain.Outcome, error) {
		_, err := p.AskText(ctx, "name?")
		workerErr <- err
		return nil, err
	}}))

	nextQuestion(t, b)
	b.Close()
	b.Close()

	assert.ErrorIs(t, <-workerErr, ErrClosed)
	drain(t, b)
	assert.ErrorIs(t, b.Tell(context.Background(), "late"), ErrClosed)
}

func TestBridge_RunTwice(t *testing.T) {
	svc := fakeInterview{run: func(context.Context, driven.InteractionPort) (*domain.Outcome, error) {
		return nil, errors.New("boom")
	}}
	b := New()
	require.NoError(t, b.Run(context.Background(), svc))
	assert.ErrorIs(t, b.Run(context.Background(), svc), ErrAlreadyStarted)

	events := drain(t, b)
	require.Len(t, events, 1)
	assert.EqualError(t, events[0].(Finished).Err, "boom")
}

func TestBridge_FollowUpEvent(t *testing.T) {
	b := New()
	require.NoError(t, b.Run(context.Background(), fakeInterview{run: func(ctx context.Context, p driven.InteractionPort) (*domain.Outcome, error) {
		return &domain.Outcome{Kind: domain.OutcomeRule}, p.RevealFollowUp(ctx, "Asthma")
	}}))

	events := drain(t, b)
	require.Len(t, events, 2)
	assert.Equal(t, FollowUp{Disease: "Asthma"}, events[0])
	assert.Equal(t, domain.OutcomeRule, events[1].(Finished).Outcome.Kind)
}
