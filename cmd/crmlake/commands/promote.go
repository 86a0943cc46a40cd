package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"crmlake/internal/record"
)

var promoteForce bool

// promoteCmd validates the latest staged dataset(s) and moves
// passing batches to the production layer.
var promoteCmd = &cobra.Command{
	Use:       "promote [customers|interactions|all]",
	Short:     "Validate and promote staged datasets to production",
	Long: `Validates the latest staged dataset for each requested kind and,
when the quality report passes, writes the cleaned records to the
production layer. A failing report blocks the whole batch.

Example:
  crmlake promote all
  crmlake promote customers
  crmlake promote customers --force`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"customers", "interactions", "all"},
	RunE:      runPromote,
}

func init() {
	rootCmd.AddCommand(promoteCmd)
	promoteCmd.Flags().BoolVar(&promoteForce, "force", false, "promote even when validation fails")
}

func runPromote(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}

	target := "all"
	if len(args) == 1 {
		target = args[0]
	}

	kinds := record.Kinds
	if target != "all" {
		kind, err := record.ParseKind(target)
		if err != nil {
			return err
		}
		kinds = []record.Kind{kind}
	}

	ctx := cmd.Context()
	failures := 0
	for _, kind := range kinds {
		if err := promoteKind(ctx, d, kind); err != nil {
			fmt.Printf("❌ %s: %v\n", kind, err)
			failures++
		}
	}

	// Regenerate the dashboard summary from whatever production now
	// holds.
	if _, err := d.pipeline.Summarize(ctx); err != nil {
		return err
	}

	if failures > 0 {
		return fmt.Errorf("%d dataset(s) not promoted", failures)
	}
	return nil
}

func promoteKind(ctx context.Context, d *deps, kind record.Kind) error {
	outcome, err := d.pipeline.PromoteStaged(ctx, kind, promoteForce)
	if err != nil {
		return err
	}

	if outcome.Promotion.Promoted {
		fmt.Printf("✅ %s: promoted %d record(s) to production\n", kind, outcome.Promotion.Production.Len())
		return nil
	}

	fmt.Printf("❌ %s: promotion rejected\n", kind)
	for _, reason := range outcome.Promotion.Reasons {
		fmt.Printf("   - %s\n", reason)
	}
	return fmt.Errorf("validation failed")
}
