package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"crmlake/internal/quality"
	"crmlake/internal/record"
)

// validateCmd runs the quality checks against the latest staged
// dataset and prints the report. It never touches production.
var validateCmd = &cobra.Command{
	Use:       "validate <kind>",
	Short:     "Validate the latest staged dataset of a kind",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"customers", "interactions"},
	RunE:      runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}

	kind, err := record.ParseKind(args[0])
	if err != nil {
		return err
	}

	ds, path, err := d.store.LatestQA(kind)
	if err != nil {
		return err
	}

	report := d.validator.Validate(ds)
	if _, err := d.store.WriteReport(report); err != nil {
		return err
	}

	printReport(report, path)

	if !report.OverallPassed {
		return fmt.Errorf("validation failed for %s", kind)
	}
	return nil
}

func printReport(report *quality.Report, source string) {
	fmt.Printf("=== Quality Report: %s ===\n", report.DatasetKind)
	fmt.Printf("Source:  %s\n", source)
	fmt.Printf("Records: %d\n", report.RecordCount)
	fmt.Println()

	for _, v := range report.Verdicts {
		mark := "✅"
		if !v.Passed {
			mark = "❌"
		}
		fmt.Printf("%s %s: %s\n", mark, v.RuleName, v.Message)
		if !v.Passed && len(v.OffendingIndices) > 0 {
			fmt.Printf("   offending record indices: %v\n", sample(v.OffendingIndices, 10))
		}
	}

	fmt.Println()
	if report.OverallPassed {
		fmt.Println("✅ PASSED")
	} else {
		fmt.Println("❌ FAILED")
	}
}

// sample caps a slice for display.
func sample(indices []int, n int) []int {
	if len(indices) <= n {
		return indices
	}
	return indices[:n]
}
