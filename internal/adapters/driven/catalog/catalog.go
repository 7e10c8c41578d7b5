// Package catalog loads the rule catalog from YAML.
//
// The built-in catalog is embedded in the binary. A different catalog can
// be supplied as a file with the same schema; it is validated the same way.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
)

//go:embed catalog.yaml
var builtin []byte

// document is the YAML schema.
type document struct {
	Symptoms []symptomDoc  `yaml:"symptoms"`
	Identity []questionDoc `yaml:"identity"`
	Base     []questionDoc `yaml:"base"`
	Branches []branchDoc   `yaml:"branches"`
	Profiles []profileDoc  `yaml:"profiles"`
}

type symptomDoc struct {
	Token string `yaml:"token"`
	Label string `yaml:"label"`
}

type conditionDoc struct {
	Fact   string `yaml:"fact"`
	Equals string `yaml:"equals"`
}

type optionDoc struct {
	Label string `yaml:"label"`
	Fact  string `yaml:"fact"`
	Token string `yaml:"token"`
}

type questionDoc struct {
	Fact    string      `yaml:"fact"`
	Prompt  string      `yaml:"prompt"`
	Kind    string      `yaml:"kind"`
	Token   string      `yaml:"token"`
	Options []optionDoc `yaml:"options"`
}

type voteDoc struct {
	Prompt string `yaml:"prompt"`
	Token  string `yaml:"token"`
}

type ruleDoc struct {
	Disease   string         `yaml:"disease"`
	When      []conditionDoc `yaml:"when"`
	Threshold int            `yaml:"threshold"`
	Votes     []voteDoc      `yaml:"votes"`
	Labels    []string       `yaml:"labels"`
}

type branchDoc struct {
	Name      string         `yaml:"name"`
	When      []conditionDoc `yaml:"when"`
	Questions []questionDoc  `yaml:"questions"`
	Rules     []ruleDoc      `yaml:"rules"`
}

type profileDoc struct {
	Disease  string   `yaml:"disease"`
	Symptoms []string `yaml:"symptoms"`
}

// Default returns the built-in catalog.
func Default() (*domain.Catalog, error) {
	return Parse(builtin)
}

// Load returns the catalog at path, or the built-in one when path is empty.
func Load(path string) (*domain.Catalog, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// LoadFile reads and validates a catalog file.
func LoadFile(path string) (*domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog. Unknown keys are rejected.
func Parse(data []byte) (*domain.Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidCatalog)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCatalog, err)
	}

	c, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (d *document) toDomain() (*domain.Catalog, error) {
	symptoms := make([]domain.Symptom, len(d.Symptoms))
	for i, s := range d.Symptoms {
		symptoms[i] = domain.Symptom{Token: s.Token, Label: s.Label}
	}
	registry, err := domain.NewSymptomRegistry(symptoms)
	if err != nil {
		return nil, err
	}

	c := &domain.Catalog{
		Identity: questions(d.Identity),
		Base:     questions(d.Base),
		Branches: make([]domain.Branch, len(d.Branches)),
		Profiles: make([]domain.DiseaseProfile, len(d.Profiles)),
		Symptoms: registry,
	}
	for i, b := range d.Branches {
		rules := make([]domain.DiseaseRule, len(b.Rules))
		for j, r := range b.Rules {
			votes := make([]domain.Vote, len(r.Votes))
			for k, v := range r.Votes {
				votes[k] = domain.Vote{Prompt: v.Prompt, Token: v.Token}
			}
			rules[j] = domain.DiseaseRule{
				Disease:   r.Disease,
				Guard:     guard(r.When),
				Votes:     votes,
				Threshold: r.Threshold,
				Labels:    r.Labels,
			}
		}
		c.Branches[i] = domain.Branch{
			Name:      b.Name,
			Guard:     guard(b.When),
			Questions: questions(b.Questions),
			Rules:     rules,
		}
	}
	for i, p := range d.Profiles {
		c.Profiles[i] = domain.DiseaseProfile{Disease: p.Disease, Symptoms: p.Symptoms}
	}
	return c, nil
}

func guard(conds []conditionDoc) domain.Guard {
	g := make(domain.Guard, len(conds))
	for i, c := range conds {
		g[i] = domain.Condition{Fact: c.Fact, Equals: c.Equals}
	}
	return g
}

func questions(docs []questionDoc) []domain.Question {
	out := make([]domain.Question, len(docs))
	for i, q := range docs {
		var opts []domain.Option
		for _, o := range q.Options {
			opts = append(opts, domain.Option{Label: o.Label, Fact: o.Fact, Token: o.Token})
		}
		out[i] = domain.Question{
			Fact:    q.Fact,
			Prompt:  q.Prompt,
			Kind:    domain.QuestionKind(q.Kind),
			Token:   q.Token,
			Options: opts,
		}
	}
	return out
}
