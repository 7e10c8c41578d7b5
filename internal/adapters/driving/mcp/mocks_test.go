package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driven"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driving"
)

// mockInterviewService runs a fixed script against the port.
type mockInterviewService struct {
	run func(ctx context.Context, port driven.InteractionPort) (*domain.Outcome, error)
}

func (m *mockInterviewService) Run(ctx context.Context, port driven.InteractionPort) (*domain.Outcome, error) {
	return m.run(ctx, port)
}

// scriptedInterview asks a name, a yes/no and a multi-select question and
// diagnoses Flu when fever is affirmed.
func scriptedInterview() *mockInterviewService {
	return &mockInterviewService{run: func(ctx context.Context, port driven.InteractionPort) (*domain.Outcome, error) {
		if err := port.Tell(ctx, domain.Greeting); err != nil {
			return nil, err
		}
		name, err := port.AskText(ctx, "What is your name?")
		if err != nil {
			return nil, err
		}
		fever, err := port.AskYesNo(ctx, "Do you have a fever?")
		if err != nil {
			return nil, err
		}
		extra, err := port.AskMulti(ctx, "Any of these?", []string{"Cough", "Headache"})
		if err != nil {
			return nil, err
		}
		if fever != domain.Yes {
			d := domain.NoMatchDiagnosis()
			return &domain.Outcome{Kind: domain.OutcomeNoMatch, Diagnosis: d, Subject: domain.Subject{Name: name}}, nil
		}
		matched := append([]string{"Fever"}, extra...)
		d := domain.Diagnosis{Disease: "Flu", Matched: matched, Provenance: domain.ProvenanceRule}
		if err := port.Tell(ctx, d.Message()); err != nil {
			return nil, err
		}
		if err := port.RevealFollowUp(ctx, d.Disease); err != nil {
			return nil, err
		}
		return &domain.Outcome{
			Kind:      domain.OutcomeRule,
			Diagnosis: d,
			Subject:   domain.Subject{Name: name},
			Record:    &domain.SessionRecord{ID: "01J0000000000000000000000"},
		}, nil
	}}
}

var errInterviewFault = errors.New("engine fault")

func faultyInterview() *mockInterviewService {
	return &mockInterviewService{run: func(context.Context, driven.InteractionPort) (*domain.Outcome, error) {
		return nil, errInterviewFault
	}}
}

type mockTreatmentService struct{}

func (m *mockTreatmentService) Resolve(disease string) (driving.TreatmentLink, error) {
	return driving.TreatmentLink{Disease: disease, Target: "Treatment/html/" + disease + ".html", Local: true}, nil
}

func (m *mockTreatmentService) Open(_ context.Context, disease string) (driving.TreatmentLink, error) {
	return m.Resolve(disease)
}

type mockCatalogService struct {
	ranked []domain.BestMatch
	err    error
	topK   int
}

func (m *mockCatalogService) Diseases() []string { return []string{"Common Cold", "Flu"} }

func (m *mockCatalogService) Symptoms() []domain.Symptom {
	return []domain.Symptom{{Token: "fever", Label: "Fever"}, {Token: "cough", Label: "Cough"}}
}

func (m *mockCatalogService) Profiles() []domain.DiseaseProfile {
	return []domain.DiseaseProfile{
		{Disease: "Common Cold", Symptoms: []string{"cough"}},
		{Disease: "Flu", Symptoms: []string{"fever", "cough"}},
	}
}

func (m *mockCatalogService) Rank(_ []string, topK int) ([]domain.BestMatch, error) {
	m.topK = topK
	return m.ranked, m.err
}

type mockHistoryService struct {
	records []domain.SessionRecord
	err     error
}

func (m *mockHistoryService) List(_ context.Context, _ int) ([]domain.SessionRecord, error) {
	return m.records, m.err
}

var sampleRecord = domain.SessionRecord{
	ID:         "01J0000000000000000000000",
	Timestamp:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	Subject:    domain.Subject{Name: "Alex", Gender: "Female"},
	Diagnosis:  "Flu",
	Provenance: domain.ProvenanceRule,
	Matched:    []string{"Fever"},
	Affirmed:   []string{"fever"},
}
