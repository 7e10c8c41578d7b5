package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
)

var rankLimit int

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the diagnostic rule catalog",
	Long: `Inspect the loaded rule catalog: the diseases it can diagnose, the
symptom tokens it understands, and the best-match ranking of a symptom set.

Set catalog.path to load a YAML catalog instead of the built-in one.`,
}

var catalogDiseasesCmd = &cobra.Command{
	Use:   "diseases",
	Short: "List diseases and their symptom profiles",
	Args:  cobra.NoArgs,
	RunE:  runCatalogDiseases,
}

var catalogSymptomsCmd = &cobra.Command{
	Use:   "symptoms",
	Short: "List symptom tokens and their labels",
	Args:  cobra.NoArgs,
	RunE:  runCatalogSymptoms,
}

var catalogRankCmd = &cobra.Command{
	Use:   "rank <symptom>...",
	Short: "Rank disease profiles against symptom tokens",
	Long: `Scores every disease profile by the share of its symptoms present in
the given tokens and prints the best matches.

Example:
  medexpert catalog rank fatigue headache`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCatalogRank,
}

func init() {
	catalogRankCmd.Flags().IntVarP(&rankLimit, "limit", "n", domain.DefaultTopK, "maximum number of matches")
	catalogCmd.AddCommand(catalogDiseasesCmd)
	catalogCmd.AddCommand(catalogSymptomsCmd)
	catalogCmd.AddCommand(catalogRankCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogDiseases(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return notConfigured("catalog")
	}

	profiles := make(map[string][]string)
	for _, p := range catalogService.Profiles() {
		profiles[p.Disease] = p.Symptoms
	}

	for _, d := range catalogService.Diseases() {
		if symptoms, ok := profiles[d]; ok {
			cmd.Printf("%s: %s\n", d, strings.Join(symptoms, ", "))
		} else {
			cmd.Println(d)
		}
	}
	return nil
}

func runCatalogSymptoms(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return notConfigured("catalog")
	}

	for _, s := range catalogService.Symptoms() {
		cmd.Printf("%-24s %s\n", s.Token, s.Label)
	}
	return nil
}

func runCatalogRank(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return notConfigured("catalog")
	}

	tokens := make([]string, 0, len(args))
	for _, a := range args {
		for _, t := range strings.Split(a, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tokens = append(tokens, t)
			}
		}
	}

	matches, err := catalogService.Rank(tokens, rankLimit)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		cmd.Println(domain.NoMatchMessage)
		return nil
	}
	cmd.Println(domain.FormatBestMatches(matches))
	return nil
}
