package domain

import "strings"

// Greeting is told at the start of every interview.
const Greeting = "Hi, I'm the AI Medical Expert. I'll ask a few questions to help with a likely diagnosis. Please answer honestly."

// ClosingMessage is told after every diagnosis.
const ClosingMessage = "Diagnosis session finished. You can open treatment info or close the app."

// MultiSelectHint is appended to multi-select prompts by surfaces.
const MultiSelectHint = "(choose any then click Send)"

// Response is a surface's reply to an outstanding question. Exactly one
// of the fields is meaningful, depending on the question kind.
type Response struct {
	Text     string
	Answer   Answer
	Selected []string
}

// TextResponse wraps a free-text reply.
func TextResponse(s string) Response {
	return Response{Text: s}
}

// AnswerResponse wraps a yes/no reply.
func AnswerResponse(a Answer) Response {
	return Response{Answer: a}
}

// SelectionResponse wraps a multi-select reply. An empty selection
// becomes the None sentinel.
func SelectionResponse(selected []string) Response {
	if len(selected) == 0 {
		return Response{Selected: []string{None}}
	}
	return Response{Selected: append([]string(nil), selected...)}
}

// NormaliseIdentity trims s and substitutes Unknown for an empty answer.
func NormaliseIdentity(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unknown
	}
	return s
}

// Phase is the interview state-machine position.
type Phase string

// Interview phases.
const (
	PhaseStart     Phase = "start"
	PhaseIdentity  Phase = "identity"
	PhaseBase      Phase = "base"
	PhaseBranches  Phase = "branches"
	PhaseFallback  Phase = "fallback"
	PhaseFinalized Phase = "finalized"
)

// String returns the string representation.
func (p Phase) String() string {
	return string(p)
}
