package domain

import (
	"sort"
	"time"
)

// Subject identifies the person interviewed.
type Subject struct {
	Name   string
	Gender string
}

// SessionRecord is the immutable log entry appended when a session ends.
type SessionRecord struct {
	// ID is a time-sortable unique identifier.
	ID string

	// Timestamp is when the session finalized.
	Timestamp time.Time

	// Subject is the interviewed person.
	Subject Subject

	// Diagnosis is the disease name or NoMatch.
	Diagnosis string

	// Provenance is how the diagnosis was reached.
	Provenance Provenance

	// Score is the best-match coverage, zero otherwise.
	Score float64

	// Matched is the display list of supporting symptoms.
	Matched []string

	// Affirmed is the full affirmed-symptom set, sorted.
	Affirmed []string
}

// NewSessionRecord builds a record from a finished outcome. Slices are
// copied so the record shares nothing with the interview.
func NewSessionRecord(id string, ts time.Time, o *Outcome) SessionRecord {
	matched := append([]string(nil), o.Diagnosis.Matched...)
	affirmed := append([]string(nil), o.Affirmed...)
	sort.Strings(affirmed)

	prov := o.Diagnosis.Provenance
	if o.Kind == OutcomeNoMatch {
		prov = ProvenanceNone
	}
	return SessionRecord{
		ID:         id,
		Timestamp:  ts,
		Subject:    o.Subject,
		Diagnosis:  o.Diagnosis.Disease,
		Provenance: prov,
		Score:      o.Diagnosis.Score,
		Matched:    matched,
		Affirmed:   affirmed,
	}
}
