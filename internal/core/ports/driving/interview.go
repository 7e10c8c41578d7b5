package driving

import (
	"context"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driven"
)

// InterviewService runs symptom interviews.
type InterviewService interface {
	// Run conducts one interview over port and returns its outcome.
	// Faults are returned as errors wrapping domain.ErrEngineFault and
	// produce no outcome and no session record.
	Run(ctx context.Context, port driven.InteractionPort) (*domain.Outcome, error)
}
