package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	dataDir   string
	rulesFile string
	verbose   bool
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "crmlake",
	Short: "CRM data lake batch pipeline",
	Long: `crmlake - batch pipeline for the CRM data lake

Extracts synthetic customer and interaction records from public
APIs, stages them, runs quality checks, promotes passing batches to
production and emits the dashboard summary.

Examples:
  crmlake run
  crmlake extract customers
  crmlake validate interactions
  crmlake promote all
  crmlake serve`,
	SilenceUsage: true,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data lake root (default from DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "rule-set YAML file (default from RULES_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
