package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// summaryCmd rebuilds the dashboard summary from the current
// production datasets.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Regenerate the dashboard summary from production data",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}

	path, err := d.pipeline.Summarize(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("✅ summary written: %s\n", path)
	return nil
}
