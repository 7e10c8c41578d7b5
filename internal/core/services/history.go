package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driven"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// ErrHistoryUnavailable is returned when no readable session sink is configured.
var ErrHistoryUnavailable = errors.New("session history unavailable: no readable session store configured")

// HistoryService lists recorded sessions.
type HistoryService struct {
	reader driven.SessionReader
}

// NewHistoryService creates a new history service.
// The reader is optional (can be nil).
func NewHistoryService(reader driven.SessionReader) *HistoryService {
	return &HistoryService{reader: reader}
}

// List returns the most recent sessions, newest first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.SessionRecord, error) {
	if s.reader == nil {
		return nil, ErrHistoryUnavailable
	}
	return s.reader.List(ctx, limit)
}
