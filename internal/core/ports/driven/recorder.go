package driven

import (
	"context"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
)

// SessionRecorder appends finished sessions to a log.
// Append is best-effort: callers report failures but never abort on them.
type SessionRecorder interface {
	// Append writes one record.
	Append(ctx context.Context, record domain.SessionRecord) error
}

// SessionReader reads recorded sessions back.
type SessionReader interface {
	// List returns the most recent records, newest first.
	// A limit of zero or less returns all records.
	List(ctx context.Context, limit int) ([]domain.SessionRecord, error)
}

// SessionStore is a recorder that can also be read back.
type SessionStore interface {
	SessionRecorder
	SessionReader
}
