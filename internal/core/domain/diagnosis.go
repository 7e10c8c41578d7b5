package domain

import (
	"fmt"
	"strings"
)

// NoMatch is the outcome label when neither a rule nor the ranker produced
// a suggestion.
const NoMatch = "No match"

// NoMatchMessage is told to the user for a "No match" outcome.
const NoMatchMessage = "Symptoms did not match known patterns - consult a physician"

// Provenance records how a diagnosis was reached.
type Provenance string

// Available provenances.
const (
	// ProvenanceRule means a disease rule met its vote threshold.
	ProvenanceRule Provenance = "rule"

	// ProvenanceBestMatch means the fallback ranker produced the suggestion.
	ProvenanceBestMatch Provenance = "best-match"

	// ProvenanceNone is used for "No match" records.
	ProvenanceNone Provenance = "none"
)

// String returns the string representation.
func (p Provenance) String() string {
	return string(p)
}

// Diagnosis is a concluded disease with the symptoms that supported it.
type Diagnosis struct {
	// Disease is the concluded disease name, or NoMatch.
	Disease string

	// Matched is the display list of supporting symptoms.
	Matched []string

	// Provenance is how the diagnosis was reached.
	Provenance Provenance

	// Score is the profile coverage in (0, 1]; zero for rule diagnoses.
	Score float64
}

// IsMatch reports whether the diagnosis names a disease.
func (d Diagnosis) IsMatch() bool {
	return d.Disease != "" && d.Disease != NoMatch
}

// NoMatchDiagnosis is the diagnosis reported when nothing matched.
func NoMatchDiagnosis() Diagnosis {
	return Diagnosis{Disease: NoMatch, Matched: []string{NoMatchMessage}, Provenance: ProvenanceNone}
}

// Message renders the diagnosis as told to the user.
func (d Diagnosis) Message() string {
	var b strings.Builder
	b.WriteString("Diagnosis: ")
	b.WriteString(d.Disease)
	b.WriteString("\nMatched symptoms:")
	for _, m := range d.Matched {
		b.WriteString("\n - ")
		b.WriteString(m)
	}
	return b.String()
}

// BestMatch is one entry of the fallback ranking.
type BestMatch struct {
	Disease string

	// Score is |affirmed ∩ profile| / |profile|.
	Score float64

	// Matched holds the overlapping tokens, sorted.
	Matched []string

	// Overlap and ProfileSize are the integer parts of Score.
	Overlap     int
	ProfileSize int
}

// Percent returns the score as a truncated integer percentage.
func (m BestMatch) Percent() int {
	if m.ProfileSize == 0 {
		return 0
	}
	return m.Overlap * 100 / m.ProfileSize
}

// String renders the ranking line shown to the user.
func (m BestMatch) String() string {
	return fmt.Sprintf("%s (%d%% match; matched: %s)", m.Disease, m.Percent(), strings.Join(m.Matched, ", "))
}

// FormatBestMatches renders the ranked list under a "Best matches:" heading.
func FormatBestMatches(matches []BestMatch) string {
	var b strings.Builder
	b.WriteString("Best matches:")
	for _, m := range matches {
		b.WriteString("\n - ")
		b.WriteString(m.String())
	}
	return b.String()
}

// OutcomeKind classifies how an interview terminated.
type OutcomeKind string

// Available outcome kinds.
const (
	OutcomeRule      OutcomeKind = "rule"
	OutcomeBestMatch OutcomeKind = "best_match"
	OutcomeNoMatch   OutcomeKind = "no_match"
)

// String returns the string representation.
func (k OutcomeKind) String() string {
	return string(k)
}

// Outcome is the single terminal result of an interview. Faults are not
// outcomes; they are returned as errors wrapping ErrEngineFault.
type Outcome struct {
	Kind      OutcomeKind
	Diagnosis Diagnosis

	// Ranked is the full fallback ranking, empty for rule outcomes.
	Ranked []BestMatch

	Subject  Subject
	Affirmed []string

	// Record is the appended session record, nil if recording failed.
	Record *SessionRecord
}

// HasFollowUp reports whether the treatment follow-up applies.
func (o *Outcome) HasFollowUp() bool {
	return o != nil && o.Kind != OutcomeNoMatch && o.Diagnosis.IsMatch()
}
