package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

// recordingExecutor counts executions and can be told to fail
type recordingExecutor struct {
	mu       sync.Mutex
	executed []*Job
	count    atomic.Int32
	failUpTo int32 // fail the first N executions
	done     chan struct{}
}

func newRecordingExecutor(expected int) *recordingExecutor {
	e := &recordingExecutor{done: make(chan struct{})}
	go func() {
		for {
			if int(e.count.Load()) >= expected {
				close(e.done)
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()
	return e
}

func (e *recordingExecutor) Execute(_ context.Context, job *Job) error {
	n := e.count.Add(1)
	e.mu.Lock()
	e.executed = append(e.executed, job)
	e.mu.Unlock()
	if n <= e.failUpTo {
		return errors.New("transient failure")
	}
	return nil
}

func (e *recordingExecutor) wait(t *testing.T, timeout time.Duration) {
	t.Helper()
	select {
	case <-e.done:
	case <-time.After(timeout):
		t.Fatal("timed out waiting for executions")
	}
}

func TestNewJob(t *testing.T) {
	tenantID := uuid.New()

	job := NewJob(&tenantID, JobTypeMetricsSync, true, 3)

	assert.NotEqual(t, uuid.Nil, job.ID)
	require.NotNil(t, job.TenantID)
	assert.Equal(t, tenantID, *job.TenantID)
	assert.Equal(t, JobTypeMetricsSync, job.Type)
	assert.True(t, job.Force)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 3, job.MaxRetries)
	assert.Nil(t, job.StartedAt)
	assert.Nil(t, job.CompletedAt)
}

func TestJob_Lifecycle(t *testing.T) {
	job := NewJob(nil, JobTypeBudgetSnapshot, false, 3)
	job.Error = "previous error"

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)
	assert.NotNil(t, job.StartedAt)
	assert.Empty(t, job.Error)

	job.Complete()
	assert.Equal(t, JobStatusSuccess, job.Status)
	assert.NotNil(t, job.CompletedAt)
}

func TestJob_FailAndRetry(t *testing.T) {
	job := NewJob(nil, JobTypeMetricsSync, false, 2)
	job.Start()
	job.Fail("platform unavailable")

	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "platform unavailable", job.Error)
	assert.True(t, job.ShouldRetry())

	job.ScheduleRetry(time.Minute)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	require.NotNil(t, job.NextRetryAt)
	assert.True(t, job.NextRetryAt.After(time.Now()))

	job.Start()
	job.Fail("still down")
	assert.True(t, job.ShouldRetry())
	job.ScheduleRetry(time.Minute)

	job.Start()
	job.Fail("still down")
	assert.False(t, job.ShouldRetry(), "retries exhausted at MaxRetries")
}

func TestScheduler_SubmitBeforeStart(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), &recordingExecutor{}, newTestLogger())

	err := s.SubmitJob(NewJob(nil, JobTypeBudgetSnapshot, false, 0))
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestScheduler_ExecutesSubmittedJobs(t *testing.T) {
	exec := newRecordingExecutor(2)
	s := NewScheduler(DefaultSchedulerConfig(), exec, newTestLogger())

	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	tenantID := uuid.New()
	require.NoError(t, s.ScheduleMetricsSync(tenantID, false))
	require.NoError(t, s.ScheduleBudgetSnapshots())

	exec.wait(t, 2*time.Second)

	exec.mu.Lock()
	defer exec.mu.Unlock()
	types := map[JobType]int{}
	for _, j := range exec.executed {
		types[j.Type]++
	}
	assert.Equal(t, 1, types[JobTypeMetricsSync])
	assert.Equal(t, 1, types[JobTypeBudgetSnapshot])
}

func TestScheduler_RetriesFailedJob(t *testing.T) {
	exec := newRecordingExecutor(2)
	exec.failUpTo = 1

	config := DefaultSchedulerConfig()
	config.RetryDelay = 0

	s := NewScheduler(config, exec, newTestLogger())
	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	require.NoError(t, s.ScheduleMetricsSync(uuid.New(), false))

	exec.wait(t, 3*time.Second)
	assert.GreaterOrEqual(t, int(exec.count.Load()), 2)
}

func TestScheduler_StartIsIdempotent(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), &recordingExecutor{}, newTestLogger())

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))
}

func TestParseDailyCron(t *testing.T) {
	hour, minute, err := ParseDailyCron("30 4 * * *")
	require.NoError(t, err)
	assert.Equal(t, 4, hour)
	assert.Equal(t, 30, minute)

	hour, minute, err = ParseDailyCron("0 0 * * *")
	require.NoError(t, err)
	assert.Equal(t, 0, hour)
	assert.Equal(t, 0, minute)

	for _, spec := range []string{
		"",
		"* * * * *",
		"0 3 1 * *",
		"0 3 * * 1",
		"60 3 * * *",
		"0 24 * * *",
		"0 3",
	} {
		_, _, err := ParseDailyCron(spec)
		assert.ErrorIs(t, err, ErrInvalidConfig, "spec %q should be rejected", spec)
	}
}

func TestDefaultCronTriggerConfig(t *testing.T) {
	cfg := DefaultCronTriggerConfig()

	assert.Equal(t, 3, cfg.MetricsSyncHour)
	assert.Equal(t, 4, cfg.BudgetSnapshotHour)
	assert.Equal(t, 30, cfg.BudgetSnapshotMinute)
	assert.Equal(t, time.Minute, cfg.CheckInterval)
	assert.True(t, cfg.BudgetSnapshotHour > cfg.MetricsSyncHour,
		"budget snapshots must run after the metrics sync")
}
