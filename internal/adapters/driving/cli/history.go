package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded interview sessions",
	Long: `Lists recorded sessions, newest first.

Sessions are read from SQLite when the sessions backend is sqlite or both,
otherwise from the CSV log.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of sessions (0 = all)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output sessions as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return notConfigured("history")
	}

	records, err := historyService.List(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	if historyJSON {
		return outputHistoryJSON(cmd, records)
	}
	outputHistoryTable(cmd, records)
	return nil
}

type historyEntry struct {
	ID         string   `json:"id,omitempty"`
	Timestamp  string   `json:"timestamp"`
	Name       string   `json:"name"`
	Gender     string   `json:"gender"`
	Diagnosis  string   `json:"diagnosis"`
	Provenance string   `json:"provenance"`
	Score      float64  `json:"score,omitempty"`
	Matched    []string `json:"matched"`
	Affirmed   []string `json:"affirmed"`
}

func outputHistoryJSON(cmd *cobra.Command, records []domain.SessionRecord) error {
	entries := make([]historyEntry, len(records))
	for i, r := range records {
		entries[i] = historyEntry{
			ID:         r.ID,
			Timestamp:  r.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			Name:       r.Subject.Name,
			Gender:     r.Subject.Gender,
			Diagnosis:  r.Diagnosis,
			Provenance: r.Provenance.String(),
			Score:      r.Score,
			Matched:    r.Matched,
			Affirmed:   r.Affirmed,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sessions: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputHistoryTable(cmd *cobra.Command, records []domain.SessionRecord) {
	if len(records) == 0 {
		cmd.Println("No sessions recorded.")
		return
	}

	cmd.Printf("%-16s  %-16s  %-8s  %-24s  %s\n", "WHEN", "NAME", "GENDER", "DIAGNOSIS", "VIA")
	for _, r := range records {
		cmd.Printf("%-16s  %-16s  %-8s  %-24s  %s\n",
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			truncate(r.Subject.Name, 16),
			truncate(r.Subject.Gender, 8),
			truncate(r.Diagnosis, 24),
			r.Provenance,
		)
		if len(r.Affirmed) > 0 {
			cmd.Printf("  symptoms: %s\n", strings.Join(r.Affirmed, ", "))
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
