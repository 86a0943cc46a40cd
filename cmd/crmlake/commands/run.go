package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"crmlake/internal/pipeline"
)

var (
	runCustomers int
	runForce     bool
)

// runCmd executes the full pipeline once.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: extract, validate, promote, summarize",
	Long: `Runs one pipeline pass over both dataset kinds.

Example:
  crmlake run
  crmlake run --customers 100
  crmlake run --force    # skip the quality gate (diagnostics only)`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntVar(&runCustomers, "customers", 0, "number of customers to extract (default from CUSTOMER_COUNT)")
	runCmd.Flags().BoolVar(&runForce, "force", false, "promote even when validation fails")
}

func runRun(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}

	count := runCustomers
	if count <= 0 {
		count = d.cfg.Extract.CustomerCount
	}

	result, err := d.pipeline.Run(cmd.Context(), pipeline.RunOptions{
		CustomerCount: count,
		Force:         runForce,
	})
	if err != nil {
		return err
	}

	fmt.Println("=== Pipeline Run ===")
	fmt.Printf("Run ID:    %s\n", result.RunID)
	fmt.Printf("Started:   %s\n", result.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Completed: %s\n", result.CompletedAt.Format("2006-01-02 15:04:05"))
	fmt.Println()

	for _, kr := range result.Kinds {
		printKindResult(kr)
	}

	if result.SummaryPath != "" {
		fmt.Printf("Summary: %s\n", result.SummaryPath)
	}

	if !result.Success {
		return fmt.Errorf("pipeline run finished with failures")
	}

	fmt.Println("\n✅ Pipeline run succeeded")
	return nil
}

func printKindResult(kr pipeline.KindResult) {
	fmt.Printf("[%s] staged %d record(s)\n", kr.Kind, kr.Staged)

	if kr.Error != "" {
		fmt.Printf("  ❌ error: %s\n", kr.Error)
		return
	}

	if kr.Report != nil {
		for _, v := range kr.Report.Verdicts {
			mark := "✅"
			if !v.Passed {
				mark = "❌"
			}
			fmt.Printf("  %s %s: %s\n", mark, v.RuleName, v.Message)
		}
	}

	if kr.Promotion != nil {
		if kr.Promotion.Promoted {
			fmt.Printf("  ✅ promoted to production\n")
		} else {
			fmt.Printf("  ❌ promotion rejected\n")
			for _, reason := range kr.Promotion.Reasons {
				fmt.Printf("     - %s\n", reason)
			}
		}
	}
	fmt.Println()
}
