package jobs

import (
	"context"
	"fmt"

	"crmlake/internal/pipeline"
	"crmlake/pkg/logger"
)

// PipelineRun is the scheduled full pipeline execution. Each run is
// an idempotent overwrite of the production and summary artifacts,
// so missed or repeated ticks are safe.
type PipelineRun struct {
	pipeline *pipeline.Pipeline
	logger   *logger.Logger
	schedule string
	opts     pipeline.RunOptions
}

// NewPipelineRun creates the scheduled pipeline job.
func NewPipelineRun(p *pipeline.Pipeline, log *logger.Logger, schedule string, opts pipeline.RunOptions) *PipelineRun {
	return &PipelineRun{
		pipeline: p,
		logger:   log,
		schedule: schedule,
		opts:     opts,
	}
}

// Name implements scheduler.Job.
func (j *PipelineRun) Name() string { return "pipeline_run" }

// Schedule implements scheduler.Job.
func (j *PipelineRun) Schedule() string { return j.schedule }

// Run implements scheduler.Job. A run that completes with rejected
// promotions is reported as a job failure so operators notice, even
// though the pipeline handled it gracefully.
func (j *PipelineRun) Run(ctx context.Context) error {
	result, err := j.pipeline.Run(ctx, j.opts)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	if !result.Success {
		return fmt.Errorf("pipeline run %s finished with failures", result.RunID)
	}

	j.logger.WithField("run_id", result.RunID).Info("Scheduled pipeline run succeeded")
	return nil
}
