package domain

import (
	"errors"
	"fmt"
	"sort"
)

// Identity fact keys.
const (
	FactName   = "name"
	FactGender = "gender"
)

// QuestionKind identifies how a question is answered.
type QuestionKind string

// Available question kinds.
const (
	// KindText is a free-text question.
	KindText QuestionKind = "text"

	// KindYesNo is a yes/no question.
	KindYesNo QuestionKind = "yes_no"

	// KindMulti is a multi-select question with a "none" sentinel.
	KindMulti QuestionKind = "multi"
)

// IsValid returns true if the kind is recognised.
func (k QuestionKind) IsValid() bool {
	switch k {
	case KindText, KindYesNo, KindMulti:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k QuestionKind) String() string {
	return string(k)
}

// Condition is a single fact equality, e.g. fever == "no".
type Condition struct {
	Fact   string
	Equals string
}

// Guard is a conjunction of conditions. An empty guard always holds.
type Guard []Condition

// Holds reports whether every referenced fact is assigned and equal to
// the expected value. Unassigned facts make the guard fail.
func (g Guard) Holds(m *WorkingMemory) bool {
	for _, c := range g {
		if !m.Equals(c.Fact, c.Equals) {
			return false
		}
	}
	return true
}

// Facts returns the fact keys the guard references.
func (g Guard) Facts() []string {
	out := make([]string, len(g))
	for i, c := range g {
		out[i] = c.Fact
	}
	return out
}

// Option is one multi-select choice. Choosing it sets Fact to "yes"
// and records Token.
type Option struct {
	Label string
	Fact  string
	Token string
}

// Question is an interview prompt whose answer is written to Fact.
type Question struct {
	Fact    string
	Prompt  string
	Kind    QuestionKind
	Token   string
	Options []Option
}

// OptionLabels returns the labels shown for a multi-select question.
func (q Question) OptionLabels() []string {
	out := make([]string, len(q.Options))
	for i, o := range q.Options {
		out[i] = o.Label
	}
	return out
}

// Vote is a disease-rule sub-question. A "yes" counts towards the
// rule's threshold and records Token.
type Vote struct {
	Prompt string
	Token  string
}

// DiseaseRule finalizes Disease when at least Threshold of its votes are "yes".
type DiseaseRule struct {
	Disease   string
	Guard     Guard
	Votes     []Vote
	Threshold int
	Labels    []string
}

// Branch is a guarded sub-interview: its questions are asked once the
// guard holds, then its disease rules are evaluated in order.
type Branch struct {
	Name      string
	Guard     Guard
	Questions []Question
	Rules     []DiseaseRule
}

// DiseaseProfile is the canonical symptom set of a disease, used only by
// best-match ranking.
type DiseaseProfile struct {
	Disease  string
	Symptoms []string
}

// Catalog is the immutable rule catalog. It is built once at startup and
// handed to the interview service; nothing mutates it afterwards.
type Catalog struct {
	Identity []Question
	Base     []Question
	Branches []Branch
	Profiles []DiseaseProfile
	Symptoms *SymptomRegistry
}

// Validate checks internal consistency. All problems are reported together,
// each wrapping ErrInvalidCatalog.
//
//nolint:gocognit // one pass over every catalog section
func (c *Catalog) Validate() error {
	if c.Symptoms == nil {
		return fmt.Errorf("%w: missing symptom registry", ErrInvalidCatalog)
	}

	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidCatalog}, args...)...))
	}
	checkToken := func(where, token string) {
		if token != "" && !c.Symptoms.Has(token) {
			fail("%s references unknown symptom %q", where, token)
		}
	}

	produced := make(map[string]bool)
	checkQuestion := func(where string, q Question) {
		if q.Fact == "" {
			fail("%s: question %q has no fact", where, q.Prompt)
		}
		if q.Prompt == "" {
			fail("%s: question for fact %q has no prompt", where, q.Fact)
		}
		if !q.Kind.IsValid() {
			fail("%s: question %q has unsupported kind %q", where, q.Fact, q.Kind)
		}
		produced[q.Fact] = true
		checkToken(where+"/"+q.Fact, q.Token)
		if q.Kind == KindMulti {
			if len(q.Options) == 0 {
				fail("%s: multi-select %q has no options", where, q.Fact)
			}
			seen := make(map[string]bool)
			for _, o := range q.Options {
				if o.Label == "" || o.Label == None || seen[o.Label] {
					fail("%s: multi-select %q has invalid option %q", where, q.Fact, o.Label)
				}
				seen[o.Label] = true
				if o.Fact == "" {
					fail("%s: option %q has no fact", where, o.Label)
				}
				produced[o.Fact] = true
				checkToken(where+"/"+o.Label, o.Token)
			}
		}
	}

	for _, q := range c.Identity {
		if q.Kind != KindText {
			fail("identity question %q must be free text", q.Fact)
		}
		checkQuestion("identity", q)
	}
	for _, q := range c.Base {
		checkQuestion("base", q)
	}

	names := make(map[string]bool)
	for _, b := range c.Branches {
		if b.Name == "" || names[b.Name] {
			fail("branch name %q is empty or duplicated", b.Name)
		}
		names[b.Name] = true
		for _, q := range b.Questions {
			checkQuestion("branch "+b.Name, q)
		}
	}

	// Guards are checked after every question so a branch may reference
	// facts produced anywhere earlier in the catalog.
	for _, b := range c.Branches {
		for _, f := range b.Guard.Facts() {
			if !produced[f] {
				fail("branch %s guard references fact %q that no question sets", b.Name, f)
			}
		}
		for _, r := range b.Rules {
			if r.Disease == "" {
				fail("branch %s has a rule with no disease", b.Name)
			}
			if r.Threshold < 1 || r.Threshold > len(r.Votes) {
				fail("rule %s threshold %d out of range 1..%d", r.Disease, r.Threshold, len(r.Votes))
			}
			for _, f := range r.Guard.Facts() {
				if !produced[f] {
					fail("rule %s guard references fact %q that no question sets", r.Disease, f)
				}
			}
			for _, v := range r.Votes {
				if v.Token == "" {
					fail("rule %s vote %q has no token", r.Disease, v.Prompt)
				}
				checkToken("rule "+r.Disease, v.Token)
			}
		}
	}

	diseases := make(map[string]bool)
	for _, p := range c.Profiles {
		if p.Disease == "" || diseases[p.Disease] {
			fail("profile disease %q is empty or duplicated", p.Disease)
		}
		diseases[p.Disease] = true
		for _, t := range p.Symptoms {
			checkToken("profile "+p.Disease, t)
		}
	}

	return errors.Join(errs...)
}

// Rule returns the disease rule for a disease name.
func (c *Catalog) Rule(disease string) (DiseaseRule, bool) {
	for _, b := range c.Branches {
		for _, r := range b.Rules {
			if r.Disease == disease {
				return r, true
			}
		}
	}
	return DiseaseRule{}, false
}

// Profile returns the profile for a disease name.
func (c *Catalog) Profile(disease string) (DiseaseProfile, bool) {
	for _, p := range c.Profiles {
		if p.Disease == disease {
			return p, true
		}
	}
	return DiseaseProfile{}, false
}

// Diseases returns every disease named by a rule or profile, sorted.
func (c *Catalog) Diseases() []string {
	set := make(map[string]struct{})
	for _, b := range c.Branches {
		for _, r := range b.Rules {
			set[r.Disease] = struct{}{}
		}
	}
	for _, p := range c.Profiles {
		set[p.Disease] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
