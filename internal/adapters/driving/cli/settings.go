package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure where sessions are recorded, where treatment
documents live, how many best matches are shown, and which rule catalog
is loaded.

Settings are stored in config.toml inside the configuration directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a single setting",
	Long: `Set a single setting by its dotted key.

Keys:
  sessions.backend    csv | sqlite | both | none
  sessions.csv_path   CSV session log path
  sessions.data_dir   SQLite data directory (empty = ~/.medexpert/data)
  treatment.dir       directory of <disease>.html treatment documents
  ranking.top_k       number of best matches shown (>= 1)
  catalog.path        YAML rule catalog (empty = built-in)`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Sessions]")
	cmd.Printf("  Backend: %s\n", settings.Sessions.Backend.Description())
	if settings.Sessions.Backend.UsesCSV() {
		cmd.Printf("  CSV log: %s\n", settings.Sessions.CSVPath)
	}
	if settings.Sessions.Backend.UsesSQLite() {
		cmd.Printf("  Data dir: %s\n", orDefault(settings.Sessions.DataDir, "~/.medexpert/data"))
	}
	cmd.Println()

	cmd.Println("[Treatment]")
	cmd.Printf("  Directory: %s\n", settings.Treatment.Dir)
	cmd.Println()

	cmd.Println("[Ranking]")
	cmd.Printf("  Best matches shown: %d\n", settings.Ranking.TopK)
	cmd.Println()

	cmd.Println("[Catalog]")
	cmd.Printf("  Path: %s\n", orDefault(settings.Catalog.Path, "built-in"))

	if err := settingsService.Validate(); err != nil {
		cmd.Println()
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return notConfigured("settings")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("%s = %s\n", key, value)
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("medexpert Settings Wizard")
	cmd.Println("=========================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Session recording")
	cmd.Println("-------------------------")
	backends := domain.AllRecorderBackends()
	current := 1
	for i, b := range backends {
		cmd.Printf("  %d. %s\n", i+1, b.Description())
		if b == settings.Sessions.Backend {
			current = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", current)
	settings.Sessions.Backend = backends[parseChoice(readLine(reader), len(backends), current)-1]
	cmd.Println()

	if settings.Sessions.Backend.UsesCSV() {
		settings.Sessions.CSVPath = prompt(cmd, reader, "CSV log path", settings.Sessions.CSVPath)
	}
	if settings.Sessions.Backend.UsesSQLite() {
		settings.Sessions.DataDir = prompt(cmd, reader, "SQLite data directory", settings.Sessions.DataDir)
	}

	cmd.Println()
	cmd.Println("Step 2: Treatment and ranking")
	cmd.Println("-----------------------------")
	settings.Treatment.Dir = prompt(cmd, reader, "Treatment documents directory", settings.Treatment.Dir)
	topK := prompt(cmd, reader, "Best matches shown", strconv.Itoa(settings.Ranking.TopK))
	if n, err := strconv.Atoi(topK); err == nil && n > 0 {
		settings.Ranking.TopK = n
	} else {
		cmd.Printf("Keeping %d: %q is not a positive number\n", settings.Ranking.TopK, topK)
	}

	cmd.Println()
	cmd.Println("Step 3: Rule catalog")
	cmd.Println("--------------------")
	settings.Catalog.Path = prompt(cmd, reader, "Catalog YAML path (empty = built-in)", settings.Catalog.Path)

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println()
	cmd.Print("Validating settings... ")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("settings validation failed: %w", err)
	}
	cmd.Println("OK")
	return nil
}

// prompt shows the current value and keeps it when the reply is empty.
func prompt(cmd *cobra.Command, reader *bufio.Reader, label, current string) string {
	cmd.Printf("%s [%s]: ", label, current)
	if v := readLine(reader); v != "" {
		return v
	}
	return current
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
