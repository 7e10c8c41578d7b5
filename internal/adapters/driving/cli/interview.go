package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/console"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medexpert-cli/internal/logger"
)

var (
	interviewPlain    bool
	interviewNoRecord bool
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run a symptom interview",
	Long: `Run a symptom interview and report the likely diagnosis.

When stdout is a terminal the interview runs in the chat-style TUI;
otherwise, or with --plain, questions are printed line by line and
answers are read from stdin.

Plain mode answers:
  yes/no questions   y, yes, n, no
  checklists         comma-separated option numbers or labels, or "none"

The finished session is appended to the configured session log unless
--no-record is given.`,
	Args: cobra.NoArgs,
	RunE: runInterview,
}

func init() {
	interviewCmd.Flags().BoolVar(&interviewPlain, "plain", false, "use the line console instead of the TUI")
	interviewCmd.Flags().BoolVar(&interviewNoRecord, "no-record", false, "do not record the session")
	rootCmd.AddCommand(interviewCmd)
}

func selectInterview() (driving.InterviewService, error) {
	svc := interviewService
	if interviewNoRecord {
		svc = unrecordedService
	}
	if svc == nil {
		return nil, notConfigured("interview")
	}
	return svc, nil
}

func runInterview(cmd *cobra.Command, _ []string) error {
	if !interviewPlain && isTerminal(os.Stdout) {
		return runTUI(cmd, true)
	}

	svc, err := selectInterview()
	if err != nil {
		return err
	}

	c := console.New(cmd.InOrStdin(), cmd.OutOrStdout())
	if treatmentService != nil {
		c.SetTreatmentService(treatmentService)
	}

	outcome, err := c.Run(cmd.Context(), svc)
	if err != nil {
		return fmt.Errorf("interview failed: %w", err)
	}
	if outcome != nil && outcome.Record != nil {
		logger.Info("session %s recorded: %s", outcome.Record.ID, describeOutcome(outcome))
	}
	return nil
}

func runTUI(cmd *cobra.Command, interview bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	svc, err := selectInterview()
	if err != nil {
		return err
	}

	ports := tui.NewPorts(svc, treatmentService)
	ports.History = historyService
	ports.Catalog = catalogService
	ports.Settings = settingsService

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())
	if interview {
		app.WithInitialView(messages.ViewInterview)
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// describeOutcome is the one-line summary printed by non-interactive commands.
func describeOutcome(o *domain.Outcome) string {
	if o == nil {
		return ""
	}
	switch o.Kind {
	case domain.OutcomeRule:
		return fmt.Sprintf("%s (rule)", o.Diagnosis.Disease)
	case domain.OutcomeBestMatch:
		return fmt.Sprintf("%s (best match, %.0f%%)", o.Diagnosis.Disease, o.Diagnosis.Score*100)
	default:
		return domain.NoMatch
	}
}
