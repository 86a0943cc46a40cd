package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"crmlake/internal/pipeline"
	"crmlake/internal/scheduler"
	"crmlake/internal/scheduler/jobs"
)

var scheduleExpr string

// scheduleCmd runs the pipeline on a cron schedule until
// interrupted.
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the pipeline on a cron schedule",
	Long: `Starts a scheduler that runs the full pipeline on a cron
expression (seconds field included).

Example:
  crmlake schedule                      # default from PIPELINE_SCHEDULE
  crmlake schedule --cron "0 0 6 * * *" # 06:00 daily`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().StringVar(&scheduleExpr, "cron", "", "cron expression (default from PIPELINE_SCHEDULE)")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}

	expr := scheduleExpr
	if expr == "" {
		expr = d.cfg.Schedule
	}

	job := jobs.NewPipelineRun(d.pipeline, d.log, expr, pipeline.RunOptions{
		CustomerCount: d.cfg.Extract.CustomerCount,
	})

	sched := scheduler.New(d.log)
	if err := sched.AddJob(job); err != nil {
		return err
	}

	sched.Start()
	fmt.Printf("scheduler running (%s), press Ctrl+C to stop\n", expr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	sched.Stop()
	return nil
}
