package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmlake/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	runs     int
	err      error
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }
func (j *fakeJob) Run(ctx context.Context) error {
	j.runs++
	return j.err
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(logger.Nop())
	job := &fakeJob{name: "nightly", schedule: "0 0 6 * * *"}

	require.NoError(t, s.AddJob(job))

	err := s.AddJob(&fakeJob{name: "nightly", schedule: "0 0 7 * * *"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	err = s.AddJob(&fakeJob{name: "broken", schedule: "not a cron expression"})
	require.Error(t, err)
}

func TestScheduler_RunJobRecordsHistory(t *testing.T) {
	s := New(logger.Nop())
	job := &fakeJob{name: "nightly", schedule: "0 0 6 * * *"}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("nightly"))
	require.NoError(t, s.RunJob("nightly"))
	assert.Equal(t, 2, job.runs)

	history := s.History("nightly")
	require.Len(t, history, 2)
	for _, r := range history {
		assert.Equal(t, "nightly", r.JobName)
		assert.True(t, r.Success)
		assert.Empty(t, r.Error)
	}

	assert.Error(t, s.RunJob("missing"))
}

func TestScheduler_FailureRecorded(t *testing.T) {
	s := New(logger.Nop())
	job := &fakeJob{name: "flaky", schedule: "0 0 6 * * *", err: errors.New("boom")}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("flaky"))

	history := s.History("flaky")
	require.Len(t, history, 1)
	assert.False(t, history[0].Success)
	assert.Equal(t, "boom", history[0].Error)
}

func TestScheduler_HistoryCapped(t *testing.T) {
	s := New(logger.Nop())
	job := &fakeJob{name: "busy", schedule: "0 * * * * *"}
	require.NoError(t, s.AddJob(job))

	for i := 0; i < 120; i++ {
		require.NoError(t, s.RunJob("busy"))
	}

	assert.Len(t, s.History("busy"), 100)
}
