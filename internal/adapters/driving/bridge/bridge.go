package bridge

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driven"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medexpert-cli/internal/logger"
)

// eventBuffer lets notices queue up while the surface renders.
const eventBuffer = 16

// Ensure Bridge implements the interface.
var _ driven.InteractionPort = (*Bridge)(nil)

// Bridge is a single-use channel between one interview worker and one
// surface.
type Bridge struct {
	events chan Event
	slot   chan struct{}
	closed chan struct{}

	closeOnce sync.Once
	started   atomic.Bool
	seq       atomic.Int64
}

// New creates an idle bridge.
func New() *Bridge {
	return &Bridge{
		events: make(chan Event, eventBuffer),
		slot:   make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

// Events returns the stream the surface consumes. It is closed after
// Finished has been delivered.
func (b *Bridge) Events() <-chan Event {
	return b.events
}

// Run starts svc on a worker goroutine. It returns immediately.
func (b *Bridge) Run(ctx context.Context, svc driving.InterviewService) error {
	if !b.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	go b.work(ctx, svc)
	return nil
}

func (b *Bridge) work(ctx context.Context, svc driving.InterviewService) {
	defer close(b.events)

	outcome, err := svc.Run(ctx, b)
	if err != nil {
		logger.Debug("bridge: interview ended with error: %v", err)
	}
	// Finished must be delivered even after cancellation; only Close stops it.
	select {
	case b.events <- Finished{Outcome: outcome, Err: err}:
	case <-b.closed:
	}
}

// Close releases a worker blocked on the surface. Safe to call repeatedly.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() { close(b.closed) })
}

// AskText implements driven.InteractionPort.
func (b *Bridge) AskText(ctx context.Context, prompt string) (string, error) {
	r, err := b.ask(ctx, domain.KindText, prompt, nil)
	if err != nil {
		return "", err
	}
	return r.Text, nil
}

// AskYesNo implements driven.InteractionPort.
func (b *Bridge) AskYesNo(ctx context.Context, prompt string) (domain.Answer, error) {
	r, err := b.ask(ctx, domain.KindYesNo, prompt, nil)
	if err != nil {
		return "", err
	}
	return r.Answer, nil
}

// AskMulti implements driven.InteractionPort.
func (b *Bridge) AskMulti(ctx context.Context, prompt string, options []string) ([]string, error) {
	r, err := b.ask(ctx, domain.KindMulti, prompt, options)
	if err != nil {
		return nil, err
	}
	return r.Selected, nil
}

// Tell implements driven.InteractionPort.
func (b *Bridge) Tell(ctx context.Context, message string) error {
	return b.publish(ctx, Notice{Text: message})
}

// RevealFollowUp implements driven.InteractionPort.
func (b *Bridge) RevealFollowUp(ctx context.Context, disease string) error {
	return b.publish(ctx, FollowUp{Disease: disease})
}

func (b *Bridge) ask(ctx context.Context, kind domain.QuestionKind, prompt string, options []string) (domain.Response, error) {
	select {
	case b.slot <- struct{}{}:
	default:
		return domain.Response{}, ErrQuestionOutstanding
	}
	defer func() { <-b.slot }()

	q := newQuestion(int(b.seq.Add(1)), kind, prompt, options)
	if err := b.publish(ctx, q); err != nil {
		q.expire()
		return domain.Response{}, err
	}

	select {
	case r := <-q.reply:
		return r, nil
	case <-ctx.Done():
		return b.abandon(q, ctx.Err())
	case <-b.closed:
		return b.abandon(q, ErrClosed)
	}
}

// abandon expires q, unless an answer raced in, in which case it wins.
func (b *Bridge) abandon(q *Question, cause error) (domain.Response, error) {
	if q.expire() {
		return domain.Response{}, cause
	}
	return <-q.reply, nil
}

func (b *Bridge) publish(ctx context.Context, e Event) error {
	select {
	case <-b.closed:
		return ErrClosed
	default:
	}
	select {
	case b.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-b.closed:
		return ErrClosed
	}
}
