package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"crmlake/internal/extract"
	"crmlake/internal/record"
	"crmlake/pkg/httputil"
)

var extractCustomers int

// extractCmd pulls raw records into the QA layer without validating
// or promoting them.
var extractCmd = &cobra.Command{
	Use:       "extract [customers|interactions|all]",
	Short:     "Extract raw records into the staging (QA) layer",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"customers", "interactions", "all"},
	RunE:      runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().IntVar(&extractCustomers, "customers", 0, "number of customers to extract (default from CUSTOMER_COUNT)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}

	target := "all"
	if len(args) == 1 {
		target = args[0]
	}

	count := extractCustomers
	if count <= 0 {
		count = d.cfg.Extract.CustomerCount
	}

	client := httputil.New(d.log, d.cfg.Extract.Timeout).WithRateLimit(5)
	extractor := extract.NewExtractor(d.cfg.Extract, client, d.log)

	ctx := cmd.Context()

	if target == "customers" || target == "all" {
		if err := stage(ctx, d, extractor, record.KindCustomers, count); err != nil {
			return err
		}
	}
	if target == "interactions" || target == "all" {
		if err := stage(ctx, d, extractor, record.KindInteractions, count); err != nil {
			return err
		}
	}

	return nil
}

func stage(ctx context.Context, d *deps, extractor *extract.Extractor, kind record.Kind, count int) error {
	var (
		ds  *record.Dataset
		err error
	)
	switch kind {
	case record.KindCustomers:
		ds, err = extractor.Customers(ctx, count)
	case record.KindInteractions:
		ds, err = extractor.Interactions(ctx)
	}
	if err != nil {
		return fmt.Errorf("extract %s: %w", kind, err)
	}

	path, err := d.store.WriteQA(ds)
	if err != nil {
		return err
	}

	fmt.Printf("✅ staged %d %s record(s): %s\n", ds.Len(), kind, path)
	return nil
}
