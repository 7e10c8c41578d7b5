// Package csvlog appends finished sessions to a CSV file and reads them back.
//
// The file layout is one header row followed by one row per session:
//
//	timestamp,name,gender,diagnosis,matched_symptoms,yes_symptoms
//
// Multi-valued columns are joined with ";". The header is written only when
// the file does not exist yet, so an existing log keeps growing.
package csvlog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driven"
)

// Header is the column row written to a new log file.
var Header = []string{"timestamp", "name", "gender", "diagnosis", "matched_symptoms", "yes_symptoms"}

const listSep = ";"

// Ensure Log implements the interface.
var _ driven.SessionStore = (*Log)(nil)

// Log is a CSV-backed session log.
type Log struct {
	mu   sync.Mutex
	path string
}

// New returns a log writing to path. The file is created on first Append.
func New(path string) *Log {
	return &Log{path: path}
}

// Path returns the CSV file path.
func (l *Log) Path() string {
	return l.path
}

// Append writes one row, preceded by the header when the file is new.
func (l *Log) Append(ctx context.Context, record domain.SessionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, statErr := os.Stat(l.path)
	writeHeader := errors.Is(statErr, os.ErrNotExist)

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(Header); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Write(row(record)); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func row(r domain.SessionRecord) []string {
	affirmed := append([]string(nil), r.Affirmed...)
	sort.Strings(affirmed)
	return []string{
		r.Timestamp.Format(time.RFC3339Nano),
		r.Subject.Name,
		r.Subject.Gender,
		r.Diagnosis,
		strings.Join(r.Matched, listSep),
		strings.Join(affirmed, listSep),
	}
}

// List returns the most recent rows, newest first. A missing file is an
// empty log. Rows carry no ID or score; provenance is only known for
// "No match" rows.
func (l *Log) List(ctx context.Context, limit int) ([]domain.SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.SessionRecord{}, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Header)

	var records []domain.SessionRecord
	for line := 1; ; line++ {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", l.path, err)
		}
		if line == 1 && fields[0] == Header[0] {
			continue
		}
		rec, err := parseRow(fields)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", l.path, line, err)
		}
		records = append(records, rec)
	}

	// Rows are appended in time order; reverse for newest first.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	if records == nil {
		records = []domain.SessionRecord{}
	}
	return records, nil
}

func parseRow(fields []string) (domain.SessionRecord, error) {
	ts, err := time.Parse(time.RFC3339Nano, fields[0])
	if err != nil {
		return domain.SessionRecord{}, fmt.Errorf("invalid timestamp %q: %w", fields[0], err)
	}
	rec := domain.SessionRecord{
		Timestamp: ts,
		Subject:   domain.Subject{Name: fields[1], Gender: fields[2]},
		Diagnosis: fields[3],
		Matched:   splitList(fields[4]),
		Affirmed:  splitList(fields[5]),
	}
	if rec.Diagnosis == domain.NoMatch {
		rec.Provenance = domain.ProvenanceNone
	}
	return rec, nil
}

func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, listSep)
}
