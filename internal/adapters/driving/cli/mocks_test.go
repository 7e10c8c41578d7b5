package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driven"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driving"
)

// mockInterview asks for a name and a fever, and diagnoses Flu on "yes".
type mockInterview struct {
	recordID string
	runs     int
}

func (m *mockInterview) Run(ctx context.Context, port driven.InteractionPort) (*domain.Outcome, error) {
	m.runs++
	name, err := port.AskText(ctx, "What is your name?")
	if err != nil {
		return nil, err
	}
	fever, err := port.AskYesNo(ctx, "Do you have a fever?")
	if err != nil {
		return nil, err
	}
	o := &domain.Outcome{Kind: domain.OutcomeNoMatch, Diagnosis: domain.NoMatchDiagnosis(), Subject: domain.Subject{Name: name}}
	if fever == domain.Yes {
		o.Kind = domain.OutcomeRule
		o.Diagnosis = domain.Diagnosis{Disease: "Flu", Matched: []string{"Fever"}, Provenance: domain.ProvenanceRule}
	}
	if err := port.Tell(ctx, o.Diagnosis.Message()); err != nil {
		return nil, err
	}
	if o.HasFollowUp() {
		if err := port.RevealFollowUp(ctx, o.Diagnosis.Disease); err != nil {
			return nil, err
		}
	}
	if m.recordID != "" {
		o.Record = &domain.SessionRecord{ID: m.recordID}
	}
	return o, nil
}

type mockTreatment struct {
	opened []string
	err    error
}

func (m *mockTreatment) Resolve(disease string) (driving.TreatmentLink, error) {
	if m.err != nil {
		return driving.TreatmentLink{}, m.err
	}
	return driving.TreatmentLink{Disease: disease, Target: "https://en.wikipedia.org/w/index.php?search=" + strings.ReplaceAll(disease, " ", "+")}, nil
}

func (m *mockTreatment) Open(_ context.Context, disease string) (driving.TreatmentLink, error) {
	m.opened = append(m.opened, disease)
	return m.Resolve(disease)
}

type mockHistory struct {
	records []domain.SessionRecord
	limit   int
	err     error
}

func (m *mockHistory) List(_ context.Context, limit int) ([]domain.SessionRecord, error) {
	m.limit = limit
	return m.records, m.err
}

type mockCatalog struct {
	tokens []string
	topK   int
}

func (m *mockCatalog) Diseases() []string { return []string{"Anemia", "Migraine"} }

func (m *mockCatalog) Symptoms() []domain.Symptom {
	return []domain.Symptom{{Token: "fatigue", Label: "Fatigue"}, {Token: "headache", Label: "Headache"}}
}

func (m *mockCatalog) Profiles() []domain.DiseaseProfile {
	return []domain.DiseaseProfile{{Disease: "Anemia", Symptoms: []string{"fatigue", "pale_skin"}}}
}

func (m *mockCatalog) Rank(tokens []string, topK int) ([]domain.BestMatch, error) {
	m.tokens, m.topK = tokens, topK
	for _, t := range tokens {
		if t == "fatigue" {
			return []domain.BestMatch{{Disease: "Anemia", Score: 0.5, Matched: []string{"Fatigue"}, Overlap: 1, ProfileSize: 2}}, nil
		}
	}
	return nil, nil
}

type mockSettings struct {
	settings domain.AppSettings
	sets     map[string]string
	saved    bool
	setErr   error
}

func newMockSettings() *mockSettings {
	return &mockSettings{settings: domain.DefaultAppSettings(), sets: make(map[string]string)}
}

func (m *mockSettings) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettings) Save(s *domain.AppSettings) error {
	m.settings = *s
	m.saved = true
	return nil
}

func (m *mockSettings) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets[key] = value
	return nil
}

func (m *mockSettings) SetRecorderBackend(b domain.RecorderBackend) error {
	return m.Set(domain.SettingSessionsBackend, b.String())
}

func (m *mockSettings) Validate() error { return nil }

func (m *mockSettings) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

var errMock = errors.New("mock failure")

var sampleRecords = []domain.SessionRecord{
	{
		ID:         "01HZY8T5D9Q1K4X2W7M3N6P0RS",
		Timestamp:  time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC),
		Subject:    domain.Subject{Name: "Alex", Gender: "Female"},
		Diagnosis:  "Arthritis",
		Provenance: domain.ProvenanceRule,
		Matched:    []string{"Joint pain"},
		Affirmed:   []string{"joint_pain", "stiffness"},
	},
}

// testEnv installs mock services and captures command output.
type testEnv struct {
	interview  *mockInterview
	unrecorded *mockInterview
	treatment  *mockTreatment
	history    *mockHistory
	catalog    *mockCatalog
	settings   *mockSettings
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		interview:  &mockInterview{recordID: "01HZY8T5D9Q1K4X2W7M3N6P0RS"},
		unrecorded: &mockInterview{},
		treatment:  &mockTreatment{},
		history:    &mockHistory{},
		catalog:    &mockCatalog{},
		settings:   newMockSettings(),
	}
	SetServices(&Services{
		Interview:         env.interview,
		InterviewNoRecord: env.unrecorded,
		Treatment:         env.treatment,
		History:           env.history,
		Catalog:           env.catalog,
		Settings:          env.settings,
	})

	origTerminal := isTerminal
	isTerminal = func(*os.File) bool { return false }

	t.Cleanup(func() {
		SetServices(nil)
		isTerminal = origTerminal
		resetFlags()
	})
	return env
}

func resetFlags() {
	verbose = false
	configDir = ""
	ephemeral = false
	interviewPlain = false
	interviewNoRecord = false
	historyLimit = 20
	historyJSON = false
	rankLimit = domain.DefaultTopK
	treatmentPrint = false
}

// execute runs the root command with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

var (
	_ driving.InterviewService = (*mockInterview)(nil)
	_ driving.TreatmentService = (*mockTreatment)(nil)
	_ driving.HistoryService   = (*mockHistory)(nil)
	_ driving.CatalogService   = (*mockCatalog)(nil)
	_ driving.SettingsService  = (*mockSettings)(nil)
)
