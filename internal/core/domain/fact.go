package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Answer is a resolved yes/no reply.
type Answer string

// Yes/no answers.
const (
	Yes Answer = "yes"
	No  Answer = "no"
)

// None is the multi-select sentinel returned when no option is chosen.
const None = "none"

// Unknown substitutes for an empty identity answer.
const Unknown = "Unknown"

// IsValid returns true for "yes" and "no".
func (a Answer) IsValid() bool {
	return a == Yes || a == No
}

// String returns the string representation.
func (a Answer) String() string {
	return string(a)
}

// ParseAnswer accepts yes/no in any case, including the short forms y and n.
func ParseAnswer(s string) (Answer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return Yes, nil
	case "n", "no":
		return No, nil
	default:
		return "", fmt.Errorf("%w: %q is not yes or no", ErrInvalidInput, s)
	}
}

// FactValue is the current value of a fact: free text, a yes/no answer,
// or the options selected in a multi-select question. For multi-select
// facts Text holds the aggregate yes/no so guards can compare it.
type FactValue struct {
	Text    string
	Options []string
}

// TextValue wraps free text.
func TextValue(s string) FactValue {
	return FactValue{Text: s}
}

// AnswerValue wraps a yes/no answer.
func AnswerValue(a Answer) FactValue {
	return FactValue{Text: string(a)}
}

// OptionsValue wraps a multi-select reply. The aggregate is "yes" unless
// nothing was chosen.
func OptionsValue(selected []string) FactValue {
	if len(selected) == 0 || (len(selected) == 1 && selected[0] == None) {
		return FactValue{Text: string(No), Options: []string{None}}
	}
	opts := make([]string, len(selected))
	copy(opts, selected)
	return FactValue{Text: string(Yes), Options: opts}
}

// IsList reports whether the value came from a multi-select question.
func (v FactValue) IsList() bool {
	return v.Options != nil
}

// String renders the value for logs and transcripts.
func (v FactValue) String() string {
	if v.IsList() {
		return strings.Join(v.Options, ", ")
	}
	return v.Text
}

// Fact is a key with its current value.
type Fact struct {
	Key   string
	Value FactValue
}

// SymptomSet is an unordered set of canonical symptom tokens.
type SymptomSet map[string]struct{}

// NewSymptomSet creates a set from tokens, ignoring empty strings.
func NewSymptomSet(tokens ...string) SymptomSet {
	s := make(SymptomSet, len(tokens))
	for _, t := range tokens {
		s.Add(t)
	}
	return s
}

// Add inserts a token. Adding an existing token is a no-op.
func (s SymptomSet) Add(token string) {
	if token == "" {
		return
	}
	s[token] = struct{}{}
}

// Has reports whether the token is in the set.
func (s SymptomSet) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// Sorted returns the tokens in ascending order.
func (s SymptomSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// WorkingMemory holds the facts asked so far and the affirmed-symptom set
// for a single interview. It is owned by one goroutine and is not safe
// for concurrent use. Nothing is ever removed from it.
type WorkingMemory struct {
	facts    map[string]FactValue
	order    []string
	affirmed SymptomSet
}

// NewWorkingMemory creates an empty working memory.
func NewWorkingMemory() *WorkingMemory {
	return &WorkingMemory{
		facts:    make(map[string]FactValue),
		affirmed: make(SymptomSet),
	}
}

// Set assigns a fact, overwriting any previous value.
func (m *WorkingMemory) Set(key string, value FactValue) {
	if _, ok := m.facts[key]; !ok {
		m.order = append(m.order, key)
	}
	m.facts[key] = value
}

// Get returns the current value of a fact.
func (m *WorkingMemory) Get(key string) (FactValue, bool) {
	v, ok := m.facts[key]
	return v, ok
}

// Equals reports whether the fact is assigned and its value equals want.
func (m *WorkingMemory) Equals(key, want string) bool {
	v, ok := m.facts[key]
	return ok && v.Text == want
}

// Facts returns all facts in first-assignment order.
func (m *WorkingMemory) Facts() []Fact {
	out := make([]Fact, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, Fact{Key: k, Value: m.facts[k]})
	}
	return out
}

// RecordAffirmed adds a symptom token to the affirmed set.
func (m *WorkingMemory) RecordAffirmed(token string) {
	m.affirmed.Add(token)
}

// IsAffirmed reports whether a token has been affirmed.
func (m *WorkingMemory) IsAffirmed(token string) bool {
	return m.affirmed.Has(token)
}

// AffirmedCount returns the size of the affirmed set.
func (m *WorkingMemory) AffirmedCount() int {
	return len(m.affirmed)
}

// Affirmed returns the affirmed tokens sorted ascending.
func (m *WorkingMemory) Affirmed() []string {
	return m.affirmed.Sorted()
}

// AffirmedSet returns a copy of the affirmed set.
func (m *WorkingMemory) AffirmedSet() SymptomSet {
	out := make(SymptomSet, len(m.affirmed))
	for t := range m.affirmed {
		out[t] = struct{}{}
	}
	return out
}
