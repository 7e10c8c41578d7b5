package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
)

// StartInput is the input schema for the start_interview tool.
type StartInput struct{}

// AnswerInput is the input schema for the answer_question tool.
type AnswerInput struct {
	SessionID  string   `json:"session_id" jsonschema:"the session returned by start_interview"`
	Answer     string   `json:"answer,omitempty" jsonschema:"free text, or yes/no for yes_no questions"`
	Selections []string `json:"selections,omitempty" jsonschema:"chosen options for multi questions; empty means none"`
}

// EndInput is the input schema for the end_interview tool.
type EndInput struct {
	SessionID string `json:"session_id" jsonschema:"the session to abandon"`
}

// EndOutput is the output schema for the end_interview tool.
type EndOutput struct {
	Ended bool `json:"ended"`
}

// TreatmentInput is the input schema for the resolve_treatment tool.
type TreatmentInput struct {
	Disease string `json:"disease" jsonschema:"the diagnosed disease name"`
}

// TreatmentOutput is the output schema for the resolve_treatment tool.
type TreatmentOutput struct {
	Disease string `json:"disease"`
	Target  string `json:"target"`
	Local   bool   `json:"local"`
}

// RankInput is the input schema for the rank_symptoms tool.
type RankInput struct {
	Symptoms []string `json:"symptoms" jsonschema:"symptom tokens to rank disease profiles against"`
	Limit    int      `json:"limit,omitempty" jsonschema:"maximum number of matches (default 3)"`
}

// RankOutput is the output schema for the rank_symptoms tool.
type RankOutput struct {
	Matches []MatchOutput `json:"matches"`
}

// MatchOutput is one ranked disease.
type MatchOutput struct {
	Disease string   `json:"disease"`
	Score   float64  `json:"score"`
	Percent int      `json:"percent"`
	Matched []string `json:"matched"`
}

// StepOutput is what an interview produced since the last tool call.
type StepOutput struct {
	SessionID string          `json:"session_id"`
	Messages  []string        `json:"messages,omitempty"`
	Question  *QuestionOutput `json:"question,omitempty"`
	FollowUp  string          `json:"follow_up,omitempty"`
	Finished  bool            `json:"finished"`
	Outcome   *OutcomeOutput  `json:"outcome,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// QuestionOutput is the question awaiting an answer.
type QuestionOutput struct {
	Seq     int      `json:"seq"`
	Kind    string   `json:"kind"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options,omitempty"`
	Hint    string   `json:"hint,omitempty"`
}

// OutcomeOutput is the terminal result of an interview.
type OutcomeOutput struct {
	Kind       string   `json:"kind"`
	Disease    string   `json:"disease"`
	Provenance string   `json:"provenance"`
	Score      float64  `json:"score,omitempty"`
	Matched    []string `json:"matched"`
	Affirmed   []string `json:"affirmed"`
	RecordID   string   `json:"record_id,omitempty"`
}

const defaultRankLimit = 3

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "start_interview",
		Description: "Start a symptom interview and return its first question",
	}, s.handleStart)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "answer_question",
		Description: "Answer the open question of an interview and return the next step",
	}, s.handleAnswer)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "end_interview",
		Description: "Abandon a running interview",
	}, s.handleEnd)

	if s.ports.Treatment != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "resolve_treatment",
			Description: "Find treatment information for a diagnosed disease",
		}, s.handleTreatment)
	}

	if s.ports.Catalog != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "rank_symptoms",
			Description: "Rank disease profiles by coverage of the given symptom tokens",
		}, s.handleRank)
	}
}

// handleStart handles the start_interview tool invocation.
func (s *Server) handleStart(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StartInput,
) (*mcp.CallToolResult, StepOutput, error) {
	sess, err := s.sessions.start(s.ports.Interview)
	if err != nil {
		return nil, StepOutput{}, err
	}
	return s.step(ctx, sess)
}

// handleAnswer handles the answer_question tool invocation.
func (s *Server) handleAnswer(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnswerInput,
) (*mcp.CallToolResult, StepOutput, error) {
	sess, err := s.sessions.get(input.SessionID)
	if err != nil {
		return nil, StepOutput{}, err
	}

	sess.mu.Lock()
	q := sess.question
	if q == nil && !sess.done {
		// An earlier call gave up before the question arrived; deliver it now.
		sess.mu.Unlock()
		return s.step(ctx, sess)
	}
	if q == nil || !q.Open() {
		sess.mu.Unlock()
		return nil, StepOutput{}, ErrNoQuestion
	}
	resp, err := toResponse(q.Kind, input)
	if err == nil {
		err = q.Answer(resp)
	}
	if err != nil {
		sess.mu.Unlock()
		return nil, StepOutput{}, err
	}
	sess.question = nil
	sess.mu.Unlock()

	return s.step(ctx, sess)
}

// step advances sess and forgets it once finished.
func (s *Server) step(ctx context.Context, sess *session) (*mcp.CallToolResult, StepOutput, error) {
	sess.mu.Lock()
	out, err := sess.advance(ctx)
	done := sess.done
	sess.mu.Unlock()
	if err != nil {
		return nil, out, err
	}
	if done {
		_ = s.sessions.end(sess.id)
	}
	return nil, out, nil
}

func toResponse(kind domain.QuestionKind, input AnswerInput) (domain.Response, error) {
	switch kind {
	case domain.KindYesNo:
		a, err := domain.ParseAnswer(input.Answer)
		if err != nil {
			return domain.Response{}, err
		}
		return domain.AnswerResponse(a), nil
	case domain.KindMulti:
		selected := input.Selections
		if len(selected) == 0 && strings.TrimSpace(input.Answer) != "" {
			for _, part := range strings.Split(input.Answer, ",") {
				if part = strings.TrimSpace(part); part != "" {
					selected = append(selected, part)
				}
			}
		}
		return domain.SelectionResponse(selected), nil
	default:
		return domain.TextResponse(input.Answer), nil
	}
}

// handleEnd handles the end_interview tool invocation.
func (s *Server) handleEnd(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input EndInput,
) (*mcp.CallToolResult, EndOutput, error) {
	if err := s.sessions.end(input.SessionID); err != nil {
		return nil, EndOutput{}, err
	}
	return nil, EndOutput{Ended: true}, nil
}

// handleTreatment handles the resolve_treatment tool invocation.
func (s *Server) handleTreatment(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input TreatmentInput,
) (*mcp.CallToolResult, TreatmentOutput, error) {
	if strings.TrimSpace(input.Disease) == "" || input.Disease == domain.NoMatch {
		return nil, TreatmentOutput{}, fmt.Errorf("%w: a diagnosed disease is required", domain.ErrInvalidInput)
	}
	link, err := s.ports.Treatment.Resolve(input.Disease)
	if err != nil {
		return nil, TreatmentOutput{}, err
	}
	return nil, TreatmentOutput{Disease: link.Disease, Target: link.Target, Local: link.Local}, nil
}

// handleRank handles the rank_symptoms tool invocation.
func (s *Server) handleRank(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input RankInput,
) (*mcp.CallToolResult, RankOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultRankLimit
	}
	matches, err := s.ports.Catalog.Rank(input.Symptoms, limit)
	if err != nil {
		return nil, RankOutput{}, err
	}

	out := RankOutput{Matches: make([]MatchOutput, len(matches))}
	for i, m := range matches {
		out.Matches[i] = MatchOutput{Disease: m.Disease, Score: m.Score, Percent: m.Percent(), Matched: m.Matched}
	}
	return nil, out, nil
}
