package driven

import (
	"context"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
)

// InteractionPort is how the interview asks questions and reports results.
// Every Ask call is a suspension point: it blocks until the user answers
// or ctx is done. At most one question is outstanding at a time.
type InteractionPort interface {
	// AskText asks a free-text question.
	AskText(ctx context.Context, prompt string) (string, error)

	// AskYesNo asks a yes/no question.
	AskYesNo(ctx context.Context, prompt string) (domain.Answer, error)

	// AskMulti asks a multi-select question. The result is a non-empty
	// subset of options, or [domain.None] when nothing was chosen.
	AskMulti(ctx context.Context, prompt string, options []string) ([]string, error)

	// Tell shows a message to the user.
	Tell(ctx context.Context, message string) error

	// RevealFollowUp enables the treatment follow-up for a disease.
	RevealFollowUp(ctx context.Context, disease string) error
}
