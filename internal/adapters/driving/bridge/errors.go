package bridge

import (
	"errors"
	"fmt"
)

// Protocol errors.
var (
	// ErrQuestionOutstanding is returned to a worker that asks while a
	// question is still open.
	ErrQuestionOutstanding = errors.New("a question is already outstanding")

	// ErrAlreadyAnswered is returned when a question is answered twice.
	ErrAlreadyAnswered = errors.New("question already answered")

	// ErrInvalidResponse is returned when a response does not fit the
	// question. The question stays open.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrClosed is returned once the bridge has been closed.
	ErrClosed = errors.New("bridge closed")

	// ErrAlreadyStarted is returned when Run is called twice.
	ErrAlreadyStarted = errors.New("interview already started")
)

func errInvalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidResponse}, args...)...)
}
