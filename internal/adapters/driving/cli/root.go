// Package cli provides the medexpert command-line interface.
// It is a driving adapter: commands call core services through driving ports.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medexpert-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string
	ephemeral bool
)

// Services holds the driving ports the commands use.
type Services struct {
	// Interview records finished sessions.
	Interview driving.InterviewService

	// InterviewNoRecord runs interviews without recording them.
	InterviewNoRecord driving.InterviewService

	Treatment driving.TreatmentService
	History   driving.HistoryService
	Catalog   driving.CatalogService
	Settings  driving.SettingsService

	// Close releases storage held by the services. Optional.
	Close func() error
}

// Options carries the global flags Bootstrap needs.
type Options struct {
	ConfigDir string

	// Ephemeral uses default settings and keeps sessions in memory.
	// Nothing is read from or written to disk.
	Ephemeral bool
}

// Bootstrap builds the services once flags are parsed.
type Bootstrap func(opts Options) (*Services, error)

var (
	bootstrap Bootstrap
	services  *Services

	interviewService  driving.InterviewService
	unrecordedService driving.InterviewService
	treatmentService  driving.TreatmentService
	historyService    driving.HistoryService
	catalogService    driving.CatalogService
	settingsService   driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "medexpert",
	Short: "AI Medical Expert: symptom interview and likely diagnosis",
	Long: `medexpert interviews you about your symptoms, applies a fixed set of
diagnostic rules and, when no rule is satisfied, ranks disease profiles by
how many of your symptoms they cover.

Run without a subcommand to open the interactive terminal UI.

This tool is not a substitute for a physician.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runRoot,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.medexpert)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "use default settings and keep sessions in memory for this run only")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap sets the function that builds services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs services directly, bypassing Bootstrap.
func SetServices(s *Services) {
	services = s
	if s == nil {
		s = &Services{}
	}
	interviewService = s.Interview
	unrecordedService = s.InterviewNoRecord
	treatmentService = s.Treatment
	historyService = s.History
	catalogService = s.Catalog
	settingsService = s.Settings
}

// Execute runs the root command and releases services afterwards.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if services != nil || bootstrap == nil {
		return nil
	}

	done := logger.Timed("bootstrap")
	s, err := bootstrap(Options{ConfigDir: configDir, Ephemeral: ephemeral})
	done()
	if err != nil {
		return fmt.Errorf("starting medexpert: %w", err)
	}
	SetServices(s)
	return nil
}

func closeServices() {
	if services == nil || services.Close == nil {
		return
	}
	if err := services.Close(); err != nil {
		logger.Warn("closing services: %v", err)
	}
}

func runRoot(cmd *cobra.Command, _ []string) error {
	if !isTerminal(os.Stdout) {
		return cmd.Help()
	}
	return runTUI(cmd, false)
}

var errNotConfigured = errors.New("service not configured")

func notConfigured(name string) error {
	return fmt.Errorf("%s %w", name, errNotConfigured)
}

// isTerminal is replaced in tests.
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
