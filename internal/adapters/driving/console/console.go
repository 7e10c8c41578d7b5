// Package console is a line-oriented interview surface for pipes, scripts
// and terminals where the full-screen TUI is unwanted.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/bridge"
	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medexpert-cli/internal/logger"
)

// ErrEndOfInput is returned when input runs out before the interview ends.
var ErrEndOfInput = errors.New("end of input")

// Console reads answers line by line from in and writes the transcript to out.
type Console struct {
	in        *bufio.Reader
	out       io.Writer
	treatment driving.TreatmentService
}

// New creates a console surface.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// SetTreatmentService enables printing a treatment link after a diagnosis.
func (c *Console) SetTreatmentService(svc driving.TreatmentService) {
	c.treatment = svc
}

// Run conducts one interview. End of input cancels the interview; the
// events it still emits, including its fault notice, are printed before
// Run returns.
func (c *Console) Run(ctx context.Context, svc driving.InterviewService) (*domain.Outcome, error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	b := bridge.New()
	defer b.Close()

	if err := b.Run(ctx, svc); err != nil {
		return nil, err
	}

	for e := range b.Events() {
		switch ev := e.(type) {
		case *bridge.Question:
			if ctx.Err() != nil {
				continue
			}
			if err := c.answer(ev); err != nil {
				logger.Debug("console: input ended: %v", err)
				cancel(ErrEndOfInput)
			}
		case bridge.Notice:
			fmt.Fprintln(c.out, ev.Text)
		case bridge.FollowUp:
			c.followUp(ev.Disease)
		case bridge.Finished:
			if ev.Err != nil && errors.Is(context.Cause(ctx), ErrEndOfInput) {
				return ev.Outcome, fmt.Errorf("%w: %w", ErrEndOfInput, ev.Err)
			}
			return ev.Outcome, ev.Err
		}
	}
	return nil, bridge.ErrClosed
}

// answer prompts until a valid response is accepted.
func (c *Console) answer(q *bridge.Question) error {
	for {
		c.prompt(q)
		line, err := c.readLine()
		if err != nil {
			return err
		}

		resp, err := parse(q, line)
		if err == nil {
			err = q.Answer(resp)
		}
		if err == nil {
			return nil
		}
		if !errors.Is(err, bridge.ErrInvalidResponse) && !errors.Is(err, domain.ErrInvalidInput) {
			return err
		}
		fmt.Fprintf(c.out, "  %s\n", hint(q))
	}
}

func (c *Console) prompt(q *bridge.Question) {
	switch q.Kind {
	case domain.KindYesNo:
		fmt.Fprintf(c.out, "%s [y/n] ", q.Prompt)
	case domain.KindMulti:
		fmt.Fprintf(c.out, "%s %s\n", q.Prompt, domain.MultiSelectHint)
		for i, o := range q.Options {
			fmt.Fprintf(c.out, "  %d) %s\n", i+1, o)
		}
		fmt.Fprint(c.out, "> ")
	default:
		fmt.Fprintf(c.out, "%s ", q.Prompt)
	}
}

func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *Console) followUp(disease string) {
	if c.treatment == nil {
		return
	}
	link, err := c.treatment.Resolve(disease)
	if err != nil {
		logger.Debug("console: no treatment link for %s: %v", disease, err)
		return
	}
	fmt.Fprintf(c.out, "Treatment information: %s\n", link.Target)
}

func hint(q *bridge.Question) string {
	if q.Kind == domain.KindMulti {
		return fmt.Sprintf("Enter numbers or names separated by commas (1-%d), or leave empty for none.", len(q.Options))
	}
	return "Please answer yes or no."
}

func parse(q *bridge.Question, line string) (domain.Response, error) {
	switch q.Kind {
	case domain.KindYesNo:
		a, err := domain.ParseAnswer(line)
		if err != nil {
			return domain.Response{}, err
		}
		return domain.AnswerResponse(a), nil
	case domain.KindMulti:
		sel, err := ParseSelection(line, q.Options)
		if err != nil {
			return domain.Response{}, err
		}
		return domain.SelectionResponse(sel), nil
	default:
		return domain.TextResponse(line), nil
	}
}

// ParseSelection reads a comma-separated list of option numbers (1-based)
// or option labels. Labels match case-insensitively. An empty line or
// "none" selects nothing.
func ParseSelection(line string, options []string) ([]string, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.EqualFold(line, domain.None) {
		return nil, nil
	}

	var selected []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(line, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		label, ok := resolveOption(part, options)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not an option", domain.ErrInvalidInput, part)
		}
		if !seen[label] {
			seen[label] = true
			selected = append(selected, label)
		}
	}
	return selected, nil
}

func resolveOption(part string, options []string) (string, bool) {
	if n, err := strconv.Atoi(part); err == nil {
		if n < 1 || n > len(options) {
			return "", false
		}
		return options[n-1], true
	}
	for _, o := range options {
		if strings.EqualFold(o, part) {
			return o, true
		}
	}
	return "", false
}
