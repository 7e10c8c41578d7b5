package mcp

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/bridge"
	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medexpert-cli/internal/logger"
)

// session is one interview running over a bridge between tool calls.
type session struct {
	id     string
	bridge *bridge.Bridge
	cancel context.CancelFunc

	// mu serialises tool calls on the same session.
	mu       sync.Mutex
	question *bridge.Question
	done     bool
	// carry holds events read by an advance whose caller went away.
	carry StepOutput

	// lastUsed is guarded by the registry lock.
	lastUsed time.Time
}

// registry maps session IDs to running interviews.
type registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	now      func() time.Time
}

func newRegistry() *registry {
	return &registry{sessions: make(map[string]*session), now: time.Now}
}

// start launches svc on a new bridge. The interview outlives the tool call
// that started it, so it runs on its own context.
func (r *registry) start(svc driving.InterviewService) (*session, error) {
	ctx, cancel := context.WithCancel(context.Background())
	b := bridge.New()
	if err := b.Run(ctx, svc); err != nil {
		cancel()
		return nil, err
	}

	s := &session{id: uuid.New().String(), bridge: b, cancel: cancel}
	r.mu.Lock()
	s.lastUsed = r.now()
	r.sessions[s.id] = s
	r.mu.Unlock()
	logger.Debug("mcp: interview %s started", s.id)
	return s, nil
}

func (r *registry) get(id string) (*session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrUnknownSession
	}
	s.lastUsed = r.now()
	return s, nil
}

// end stops a session and forgets it.
func (r *registry) end(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrUnknownSession
	}
	s.stop()
	return nil
}

func (r *registry) closeAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*session)
	r.mu.Unlock()
	for _, s := range all {
		s.stop()
	}
}

// reap stops sessions untouched for longer than idle and returns how
// many it removed.
func (r *registry) reap(idle time.Duration) int {
	cutoff := r.now().Add(-idle)
	r.mu.Lock()
	var stale []*session
	for id, s := range r.sessions {
		if s.lastUsed.Before(cutoff) {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		logger.Debug("mcp: interview %s expired", s.id)
		s.stop()
	}
	return len(stale)
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (s *session) stop() {
	s.cancel()
	s.bridge.Close()
}

// advance consumes events until the interview asks a question or finishes.
// Events read before ctx ends are kept for the next call. The caller must
// hold s.mu.
func (s *session) advance(ctx context.Context) (StepOutput, error) {
	out := s.carry
	out.SessionID = s.id
	s.carry = StepOutput{}
	for {
		select {
		case <-ctx.Done():
			s.carry = out
			return StepOutput{SessionID: s.id}, ctx.Err()
		case e, ok := <-s.bridge.Events():
			if !ok {
				s.done = true
				out.Finished = true
				return out, nil
			}
			switch ev := e.(type) {
			case bridge.Notice:
				out.Messages = append(out.Messages, ev.Text)
			case bridge.FollowUp:
				out.FollowUp = ev.Disease
			case *bridge.Question:
				s.question = ev
				out.Question = questionOutput(ev)
				return out, nil
			case bridge.Finished:
				s.done = true
				out.Finished = true
				if ev.Err != nil {
					out.Error = ev.Err.Error()
				}
				if ev.Outcome != nil {
					out.Outcome = outcomeOutput(ev.Outcome)
				}
				return out, nil
			}
		}
	}
}

func questionOutput(q *bridge.Question) *QuestionOutput {
	out := &QuestionOutput{Seq: q.Seq, Kind: q.Kind.String(), Prompt: q.Prompt, Options: q.Options}
	if q.Kind == domain.KindMulti {
		out.Hint = domain.MultiSelectHint
	}
	return out
}

func outcomeOutput(o *domain.Outcome) *OutcomeOutput {
	out := &OutcomeOutput{
		Kind:       o.Kind.String(),
		Disease:    o.Diagnosis.Disease,
		Provenance: o.Diagnosis.Provenance.String(),
		Score:      o.Diagnosis.Score,
		Matched:    o.Diagnosis.Matched,
		Affirmed:   o.Affirmed,
	}
	if o.Record != nil {
		out.RecordID = o.Record.ID
	}
	return out
}
