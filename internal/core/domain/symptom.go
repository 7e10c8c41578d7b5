package domain

import (
	"fmt"
	"strings"
)

// Symptom is a canonical symptom token with a human-readable label.
type Symptom struct {
	Token string
	Label string
}

// NormaliseToken lowercases s and replaces spaces with underscores,
// e.g. "High Fever" becomes "high_fever".
func NormaliseToken(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

// SymptomRegistry is the single canonical list of symptom tokens.
// Rule questions and disease profiles may only reference tokens it contains.
type SymptomRegistry struct {
	order   []string
	byToken map[string]Symptom
}

// NewSymptomRegistry builds a registry, rejecting empty, non-canonical
// or duplicate tokens.
func NewSymptomRegistry(symptoms []Symptom) (*SymptomRegistry, error) {
	r := &SymptomRegistry{
		order:   make([]string, 0, len(symptoms)),
		byToken: make(map[string]Symptom, len(symptoms)),
	}
	for _, s := range symptoms {
		if s.Token == "" {
			return nil, fmt.Errorf("%w: empty symptom token", ErrInvalidCatalog)
		}
		if NormaliseToken(s.Token) != s.Token {
			return nil, fmt.Errorf("%w: symptom token %q is not canonical", ErrInvalidCatalog, s.Token)
		}
		if _, dup := r.byToken[s.Token]; dup {
			return nil, fmt.Errorf("%w: duplicate symptom token %q", ErrInvalidCatalog, s.Token)
		}
		if s.Label == "" {
			s.Label = strings.ReplaceAll(s.Token, "_", " ")
		}
		r.order = append(r.order, s.Token)
		r.byToken[s.Token] = s
	}
	return r, nil
}

// Lookup returns the symptom for a token.
func (r *SymptomRegistry) Lookup(token string) (Symptom, bool) {
	s, ok := r.byToken[token]
	return s, ok
}

// Has reports whether the token is registered.
func (r *SymptomRegistry) Has(token string) bool {
	_, ok := r.byToken[token]
	return ok
}

// Require returns ErrUnknownSymptom when the token is not registered.
func (r *SymptomRegistry) Require(token string) error {
	if !r.Has(token) {
		return fmt.Errorf("%w: %q", ErrUnknownSymptom, token)
	}
	return nil
}

// Symptoms returns all symptoms in declaration order.
func (r *SymptomRegistry) Symptoms() []Symptom {
	out := make([]Symptom, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.byToken[t])
	}
	return out
}

// Len returns the number of registered symptoms.
func (r *SymptomRegistry) Len() int {
	return len(r.order)
}
