package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driven"
)

// sessionStore implements driven.SessionStore.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// Append inserts one session record.
func (s *sessionStore) Append(ctx context.Context, record domain.SessionRecord) error {
	matched, err := json.Marshal(nonNil(record.Matched))
	if err != nil {
		return fmt.Errorf("marshalling matched symptoms: %w", err)
	}
	affirmed, err := json.Marshal(nonNil(record.Affirmed))
	if err != nil {
		return fmt.Errorf("marshalling affirmed symptoms: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO sessions (id, recorded_at, name, gender, diagnosis, provenance, score, matched, affirmed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.Timestamp.UTC().Format(time.RFC3339Nano),
		record.Subject.Name, record.Subject.Gender,
		record.Diagnosis, record.Provenance.String(), record.Score,
		string(matched), string(affirmed))
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// List returns the most recent sessions, newest first.
func (s *sessionStore) List(ctx context.Context, limit int) ([]domain.SessionRecord, error) {
	query := `
		SELECT id, recorded_at, name, gender, diagnosis, provenance, score, matched, affirmed
		FROM sessions
		ORDER BY recorded_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var records []domain.SessionRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return records, nil
}

func scanSession(rows *sql.Rows) (*domain.SessionRecord, error) {
	var (
		rec                       domain.SessionRecord
		recordedAt, provenance    string
		matchedJSON, affirmedJSON string
	)
	err := rows.Scan(&rec.ID, &recordedAt, &rec.Subject.Name, &rec.Subject.Gender,
		&rec.Diagnosis, &provenance, &rec.Score, &matchedJSON, &affirmedJSON)
	if err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, recordedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing session time %q: %w", recordedAt, err)
	}
	rec.Timestamp = ts
	rec.Provenance = domain.Provenance(provenance)

	if err := json.Unmarshal([]byte(matchedJSON), &rec.Matched); err != nil {
		return nil, fmt.Errorf("unmarshalling matched symptoms: %w", err)
	}
	if err := json.Unmarshal([]byte(affirmedJSON), &rec.Affirmed); err != nil {
		return nil, fmt.Errorf("unmarshalling affirmed symptoms: %w", err)
	}
	return &rec, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
