package bridge

import (
	"slices"
	"sync"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
)

// Event is anything published on the bridge stream.
type Event interface {
	isEvent()
}

// Notice is a message told to the user.
type Notice struct {
	Text string
}

// FollowUp announces that treatment information is available for Disease.
type FollowUp struct {
	Disease string
}

// Finished is the last event of a session.
type Finished struct {
	Outcome *domain.Outcome
	Err     error
}

type questionState int

const (
	questionOpen questionState = iota
	questionAnswered
	questionExpired
)

// Question is an open prompt awaiting exactly one valid Answer.
type Question struct {
	// Seq numbers questions from 1 within a session.
	Seq int

	Kind    domain.QuestionKind
	Prompt  string
	Options []string

	mu    sync.Mutex
	state questionState
	reply chan domain.Response
}

func newQuestion(seq int, kind domain.QuestionKind, prompt string, options []string) *Question {
	return &Question{
		Seq:     seq,
		Kind:    kind,
		Prompt:  prompt,
		Options: slices.Clone(options),
		reply:   make(chan domain.Response, 1),
	}
}

// Answer delivers r to the waiting worker. An invalid response leaves the
// question open so the surface can ask again.
func (q *Question) Answer(r domain.Response) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	switch q.state {
	case questionAnswered:
		return ErrAlreadyAnswered
	case questionExpired:
		return ErrClosed
	}

	normalised, err := q.validate(r)
	if err != nil {
		return err
	}
	q.state = questionAnswered
	q.reply <- normalised
	return nil
}

// Open reports whether the question still accepts an answer.
func (q *Question) Open() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state == questionOpen
}

// expire stops the question from accepting answers. It reports false when
// an answer already arrived.
func (q *Question) expire() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.state != questionOpen {
		return false
	}
	q.state = questionExpired
	return true
}

func (q *Question) validate(r domain.Response) (domain.Response, error) {
	switch q.Kind {
	case domain.KindText:
		return domain.TextResponse(r.Text), nil

	case domain.KindYesNo:
		if !r.Answer.IsValid() {
			return domain.Response{}, errInvalid("answer must be yes or no, got %q", r.Answer)
		}
		return domain.AnswerResponse(r.Answer), nil

	case domain.KindMulti:
		sel := domain.SelectionResponse(r.Selected)
		if len(sel.Selected) == 1 && sel.Selected[0] == domain.None {
			return sel, nil
		}
		seen := make(map[string]bool, len(sel.Selected))
		for _, label := range sel.Selected {
			if label == domain.None {
				return domain.Response{}, errInvalid("%q cannot be combined with other options", domain.None)
			}
			if !slices.Contains(q.Options, label) {
				return domain.Response{}, errInvalid("%q is not one of %v", label, q.Options)
			}
			if seen[label] {
				return domain.Response{}, errInvalid("%q selected twice", label)
			}
			seen[label] = true
		}
		return sel, nil

	default:
		return domain.Response{}, errInvalid("unsupported question kind %q", q.Kind)
	}
}

func (*Question) isEvent() {}
func (Notice) isEvent()    {}
func (FollowUp) isEvent()  {}
func (Finished) isEvent()  {}
