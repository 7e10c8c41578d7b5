package driving

import (
	"context"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
)

// HistoryService lists recorded interview sessions.
type HistoryService interface {
	// List returns the most recent sessions, newest first.
	List(ctx context.Context, limit int) ([]domain.SessionRecord, error)
}
