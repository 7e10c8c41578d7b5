package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driven"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medexpert-cli/internal/logger"
)

// Ensure InterviewService implements the interface.
var _ driving.InterviewService = (*InterviewService)(nil)

// faultPrefix is told to the user when an interview aborts.
const faultPrefix = "System: An error occurred: "

// InterviewService runs the symptom interview: identity, base questions,
// guarded branches with their disease rules, then best-match fallback.
// The catalog is read-only, so one service can run many sessions at once.
type InterviewService struct {
	catalog  *domain.Catalog
	recorder driven.SessionRecorder
	topK     int
	now      func() time.Time
	ids      *idSource
}

// NewInterviewService creates a new interview service.
// The recorder is optional (can be nil); topK <= 0 uses the default.
func NewInterviewService(
	catalog *domain.Catalog,
	recorder driven.SessionRecorder,
	topK int,
) *InterviewService {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &InterviewService{
		catalog:  catalog,
		recorder: recorder,
		topK:     topK,
		now:      time.Now,
		ids:      newIDSource(),
	}
}

// SetClock overrides the clock used for session timestamps.
func (s *InterviewService) SetClock(now func() time.Time) {
	s.now = now
}

// Catalog returns the catalog the service was built with.
func (s *InterviewService) Catalog() *domain.Catalog {
	return s.catalog
}

// Run conducts one interview over port.
//
// Normal termination returns the outcome and a nil error. Any failure
// while the interview is in progress is reported to the user once and
// returned wrapped in domain.ErrEngineFault; no outcome is produced and
// nothing is recorded.
func (s *InterviewService) Run(ctx context.Context, port driven.InteractionPort) (*domain.Outcome, error) {
	if port == nil {
		return nil, fmt.Errorf("%w: interaction port is required", domain.ErrInvalidInput)
	}
	if s.catalog == nil {
		return nil, fmt.Errorf("%w: catalog is required", domain.ErrInvalidInput)
	}

	logger.Section("Interview")

	iv := &interview{
		svc:    s,
		port:   port,
		memory: domain.NewWorkingMemory(),
		phase:  domain.PhaseStart,
	}

	outcome, err := iv.run(ctx)
	if err != nil {
		logger.Warn("Interview aborted in phase %s: %v", iv.phase, err)
		// The session context may already be cancelled; the fault notice
		// still has to reach the user.
		if tellErr := port.Tell(context.WithoutCancel(ctx), faultPrefix+err.Error()); tellErr != nil {
			logger.Debug("Fault notice not delivered: %v", tellErr)
		}
		if errors.Is(err, domain.ErrEngineFault) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrEngineFault, err)
	}

	logger.Info("Interview finished: %s (%s)", outcome.Diagnosis.Disease, outcome.Kind)
	return outcome, nil
}

// branchResult is the explicit terminal value of a branch evaluation.
type branchResult struct {
	concluded bool
	diagnosis domain.Diagnosis
}

// interview is the state of a single session. It is owned by the
// goroutine calling Run.
type interview struct {
	svc     *InterviewService
	port    driven.InteractionPort
	memory  *domain.WorkingMemory
	subject domain.Subject
	phase   domain.Phase
}

func (iv *interview) enter(p domain.Phase) {
	logger.Debug("Phase: %s -> %s", iv.phase, p)
	iv.phase = p
}

func (iv *interview) run(ctx context.Context) (*domain.Outcome, error) {
	if err := iv.port.Tell(ctx, domain.Greeting); err != nil {
		return nil, fmt.Errorf("greeting: %w", err)
	}

	iv.enter(domain.PhaseIdentity)
	for _, q := range iv.svc.catalog.Identity {
		if err := iv.ask(ctx, q); err != nil {
			return nil, err
		}
	}
	iv.subject = domain.Subject{
		Name:   iv.identity(domain.FactName),
		Gender: iv.identity(domain.FactGender),
	}

	iv.enter(domain.PhaseBase)
	for _, q := range iv.svc.catalog.Base {
		if err := iv.ask(ctx, q); err != nil {
			return nil, err
		}
	}

	iv.enter(domain.PhaseBranches)
	for _, b := range iv.svc.catalog.Branches {
		if !b.Guard.Holds(iv.memory) {
			logger.Debug("Branch %s: guard does not hold", b.Name)
			continue
		}
		res, err := iv.evaluateBranch(ctx, b)
		if err != nil {
			return nil, fmt.Errorf("branch %s: %w", b.Name, err)
		}
		if res.concluded {
			return iv.finalize(ctx, &domain.Outcome{
				Kind:      domain.OutcomeRule,
				Diagnosis: res.diagnosis,
			})
		}
	}

	iv.enter(domain.PhaseFallback)
	ranked := RankBestMatches(iv.memory.AffirmedSet(), iv.svc.catalog.Profiles, iv.svc.topK)
	logger.Debug("Fallback ranked %d candidates from %d affirmed symptoms", len(ranked), iv.memory.AffirmedCount())
	if len(ranked) == 0 {
		return iv.finalize(ctx, &domain.Outcome{
			Kind:      domain.OutcomeNoMatch,
			Diagnosis: domain.NoMatchDiagnosis(),
		})
	}

	top := ranked[0]
	return iv.finalize(ctx, &domain.Outcome{
		Kind: domain.OutcomeBestMatch,
		Diagnosis: domain.Diagnosis{
			Disease:    top.Disease,
			Matched:    slices.Clone(top.Matched),
			Provenance: domain.ProvenanceBestMatch,
			Score:      top.Score,
		},
		Ranked: ranked,
	})
}

// identity returns an identity fact, or domain.Unknown when it was not asked.
func (iv *interview) identity(key string) string {
	if v, ok := iv.memory.Get(key); ok {
		return v.Text
	}
	return domain.Unknown
}

// ask poses a catalog question and writes its answer to working memory.
func (iv *interview) ask(ctx context.Context, q domain.Question) error {
	switch q.Kind {
	case domain.KindText:
		text, err := iv.port.AskText(ctx, q.Prompt)
		if err != nil {
			return fmt.Errorf("ask %s: %w", q.Fact, err)
		}
		iv.memory.Set(q.Fact, domain.TextValue(domain.NormaliseIdentity(text)))

	case domain.KindYesNo:
		answer, err := iv.askYesNo(ctx, q.Prompt)
		if err != nil {
			return fmt.Errorf("ask %s: %w", q.Fact, err)
		}
		iv.memory.Set(q.Fact, domain.AnswerValue(answer))
		if answer == domain.Yes {
			iv.memory.RecordAffirmed(q.Token)
		}

	case domain.KindMulti:
		selected, err := iv.port.AskMulti(ctx, q.Prompt, q.OptionLabels())
		if err != nil {
			return fmt.Errorf("ask %s: %w", q.Fact, err)
		}
		if err := iv.applySelection(q, selected); err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: question kind %q", domain.ErrUnsupportedType, q.Kind)
	}

	v, _ := iv.memory.Get(q.Fact)
	logger.Debug("Fact %s = %s", q.Fact, v)
	return nil
}

func (iv *interview) askYesNo(ctx context.Context, prompt string) (domain.Answer, error) {
	answer, err := iv.port.AskYesNo(ctx, prompt)
	if err != nil {
		return "", err
	}
	if !answer.IsValid() {
		return "", fmt.Errorf("%w: answer %q to %q", domain.ErrInvalidInput, answer, prompt)
	}
	return answer, nil
}

// applySelection sets the aggregate fact and one fact per option, and
// records the tokens of the chosen options.
func (iv *interview) applySelection(q domain.Question, selected []string) error {
	value := domain.OptionsValue(selected)
	chosen := make(map[string]bool, len(value.Options))
	for _, label := range value.Options {
		if label == domain.None {
			continue
		}
		if !slices.Contains(q.OptionLabels(), label) {
			return fmt.Errorf("%w: %q is not an option of %s", domain.ErrInvalidInput, label, q.Fact)
		}
		chosen[label] = true
	}

	iv.memory.Set(q.Fact, value)
	for _, o := range q.Options {
		if chosen[o.Label] {
			iv.memory.Set(o.Fact, domain.AnswerValue(domain.Yes))
			iv.memory.RecordAffirmed(o.Token)
		} else {
			iv.memory.Set(o.Fact, domain.AnswerValue(domain.No))
		}
	}
	return nil
}

// evaluateBranch asks the branch questions, then evaluates the nested
// rules in order. The first rule to reach its threshold concludes.
func (iv *interview) evaluateBranch(ctx context.Context, b domain.Branch) (branchResult, error) {
	logger.Debug("Branch %s: entered", b.Name)
	for _, q := range b.Questions {
		if err := iv.ask(ctx, q); err != nil {
			return branchResult{}, err
		}
	}

	for _, r := range b.Rules {
		if !r.Guard.Holds(iv.memory) {
			logger.Debug("Rule %s: guard does not hold", r.Disease)
			continue
		}
		fired, err := iv.evaluateRule(ctx, r)
		if err != nil {
			return branchResult{}, fmt.Errorf("rule %s: %w", r.Disease, err)
		}
		if fired {
			return branchResult{
				concluded: true,
				diagnosis: domain.Diagnosis{
					Disease:    r.Disease,
					Matched:    slices.Clone(r.Labels),
					Provenance: domain.ProvenanceRule,
				},
			}, nil
		}
	}
	return branchResult{}, nil
}

// evaluateRule asks every vote question and reports whether the yes
// count reached the threshold.
func (iv *interview) evaluateRule(ctx context.Context, r domain.DiseaseRule) (bool, error) {
	if r.Threshold < 1 || r.Threshold > len(r.Votes) {
		return false, fmt.Errorf("%w: threshold %d of %d votes", domain.ErrInvalidCatalog, r.Threshold, len(r.Votes))
	}

	yes := 0
	for _, v := range r.Votes {
		answer, err := iv.askYesNo(ctx, v.Prompt)
		if err != nil {
			return false, err
		}
		if answer == domain.Yes {
			yes++
			iv.memory.RecordAffirmed(v.Token)
		}
	}
	logger.Debug("Rule %s: %d/%d yes, threshold %d", r.Disease, yes, len(r.Votes), r.Threshold)
	return yes >= r.Threshold, nil
}

// finalize tells the result, reveals the follow-up, records the session
// and tells the closing message, in that order.
func (iv *interview) finalize(ctx context.Context, o *domain.Outcome) (*domain.Outcome, error) {
	iv.enter(domain.PhaseFinalized)
	o.Subject = iv.subject
	o.Affirmed = iv.memory.Affirmed()

	message := o.Diagnosis.Message()
	if o.Kind == domain.OutcomeBestMatch {
		message = domain.FormatBestMatches(o.Ranked)
	}
	if err := iv.port.Tell(ctx, message); err != nil {
		return nil, fmt.Errorf("tell diagnosis: %w", err)
	}
	if o.HasFollowUp() {
		if err := iv.port.RevealFollowUp(ctx, o.Diagnosis.Disease); err != nil {
			return nil, fmt.Errorf("reveal follow-up: %w", err)
		}
	}

	iv.record(ctx, o)

	// The session is complete once recorded; a failed closing message
	// does not turn it into a fault.
	if err := iv.port.Tell(ctx, domain.ClosingMessage); err != nil {
		logger.Warn("Closing message not delivered: %v", err)
	}
	return o, nil
}

// record appends the session record. Failures are told to the user and
// never abort the session.
func (iv *interview) record(ctx context.Context, o *domain.Outcome) {
	if iv.svc.recorder == nil {
		logger.Debug("No session recorder configured")
		return
	}

	now := iv.svc.now()
	rec := domain.NewSessionRecord(iv.svc.ids.next(now), now, o)
	if err := iv.svc.recorder.Append(ctx, rec); err != nil {
		logger.Warn("%v: %v", domain.ErrRecorderFailure, err)
		if tellErr := iv.port.Tell(ctx, fmt.Sprintf("(Session logging failed: %v)", err)); tellErr != nil {
			logger.Debug("Recorder failure notice not delivered: %v", tellErr)
		}
		return
	}
	logger.Debug("Session %s recorded", rec.ID)
	o.Record = &rec
}

// idSource generates time-sortable session IDs. mu guards entropy.
type idSource struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func newIDSource() *idSource {
	return &idSource{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (s *idSource) next(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}
