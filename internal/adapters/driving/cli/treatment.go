package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var treatmentPrint bool

var treatmentCmd = &cobra.Command{
	Use:   "treatment <disease>",
	Short: "Open treatment information for a disease",
	Long: `Opens treatment information for a disease with the system handler.

A local document <treatment.dir>/<disease>.html is used when present,
otherwise a web search for the disease. Use --print to only print the
location.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTreatment,
}

func init() {
	treatmentCmd.Flags().BoolVar(&treatmentPrint, "print", false, "print the location instead of opening it")
	rootCmd.AddCommand(treatmentCmd)
}

func runTreatment(cmd *cobra.Command, args []string) error {
	if treatmentService == nil {
		return notConfigured("treatment")
	}

	disease := strings.Join(args, " ")

	if treatmentPrint {
		link, err := treatmentService.Resolve(disease)
		if err != nil {
			return err
		}
		cmd.Println(link.Target)
		return nil
	}

	link, err := treatmentService.Open(cmd.Context(), disease)
	if err != nil {
		return fmt.Errorf("opening treatment information: %w", err)
	}
	cmd.Printf("Opened treatment information: %s\n", link.Target)
	return nil
}
