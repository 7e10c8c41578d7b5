// Package multi fans a session record out to several recorders.
package multi

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driven"
	"github.com/custodia-labs/medexpert-cli/internal/logger"
)

// Ensure Recorder implements the interface.
var _ driven.SessionRecorder = (*Recorder)(nil)

// Named pairs a recorder with the name used in error messages.
type Named struct {
	Name     string
	Recorder driven.SessionRecorder
}

// Recorder appends every record to all of its sinks. A failing sink does
// not stop the others.
type Recorder struct {
	sinks []Named
}

// NewRecorder returns a recorder over the given sinks. Nil recorders are
// skipped.
func NewRecorder(sinks ...Named) *Recorder {
	r := &Recorder{}
	for _, s := range sinks {
		if s.Recorder != nil {
			r.sinks = append(r.sinks, s)
		}
	}
	return r
}

// Len returns the number of sinks.
func (r *Recorder) Len() int {
	return len(r.sinks)
}

// Append writes to every sink. Failures are joined, each wrapping
// domain.ErrRecorderFailure.
func (r *Recorder) Append(ctx context.Context, record domain.SessionRecord) error {
	var errs []error
	for _, s := range r.sinks {
		if err := s.Recorder.Append(ctx, record); err != nil {
			logger.Warn("recorder %s failed: %v", s.Name, err)
			errs = append(errs, fmt.Errorf("%w: %s: %w", domain.ErrRecorderFailure, s.Name, err))
			continue
		}
		logger.Debug("recorded session %s to %s", record.ID, s.Name)
	}
	return errors.Join(errs...)
}
