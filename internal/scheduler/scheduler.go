package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"crmlake/pkg/logger"
)

// Job is one schedulable unit of work.
type Job interface {
	// Name returns the job name.
	Name() string

	// Run executes the job.
	Run(ctx context.Context) error

	// Schedule returns the cron expression (with seconds field),
	// e.g. "0 0 6 * * *" for 06:00 daily.
	Schedule() string
}

// JobResult records one job execution.
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// Scheduler runs registered jobs on their cron schedules. Runs of
// one job never overlap another schedule tick in this design; the
// pipeline itself stays single-threaded.
type Scheduler struct {
	cron    *cron.Cron
	logger  *logger.Logger
	jobs    map[string]Job
	history map[string][]JobResult
	mu      sync.RWMutex
}

// New creates a scheduler.
func New(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		logger:  log,
		jobs:    make(map[string]Job),
		history: make(map[string][]JobResult),
	}
}

// AddJob registers a job with the scheduler.
func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already exists", name)
	}

	_, err := s.cron.AddFunc(job.Schedule(), func() {
		s.runJob(job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.jobs[name] = job

	s.logger.WithFields(map[string]interface{}{
		"job":      name,
		"schedule": job.Schedule(),
	}).Info("Job added to scheduler")

	return nil
}

// RunJob runs a registered job immediately, outside its schedule.
func (s *Scheduler) RunJob(name string) error {
	s.mu.RLock()
	job, exists := s.jobs[name]
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("job %s not found", name)
	}

	s.runJob(job)
	return nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

// History returns the recorded results for a job, newest last.
func (s *Scheduler) History(name string) []JobResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := s.history[name]
	out := make([]JobResult, len(results))
	copy(out, results)
	return out
}

func (s *Scheduler) runJob(job Job) {
	name := job.Name()
	startTime := time.Now()

	s.logger.WithField("job", name).Info("Job started")

	err := job.Run(context.Background())

	endTime := time.Now()
	result := JobResult{
		JobName:   name,
		StartTime: startTime,
		EndTime:   endTime,
		Duration:  endTime.Sub(startTime),
		Success:   err == nil,
	}
	if err != nil {
		result.Error = err.Error()
	}

	s.mu.Lock()
	s.history[name] = append(s.history[name], result)
	// Keep only the last 100 results.
	if n := len(s.history[name]); n > 100 {
		s.history[name] = s.history[name][n-100:]
	}
	s.mu.Unlock()

	if err == nil {
		s.logger.WithFields(map[string]interface{}{
			"job":      name,
			"duration": result.Duration,
		}).Info("Job completed successfully")
	} else {
		s.logger.WithFields(map[string]interface{}{
			"job":      name,
			"duration": result.Duration,
			"error":    err.Error(),
		}).Error("Job failed")
	}
}
