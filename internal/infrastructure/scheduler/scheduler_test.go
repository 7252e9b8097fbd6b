package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/config"
)

type recordingExecutor struct {
	mu       sync.Mutex
	executed []*Job
	failures int
	done     chan struct{}
}

func (e *recordingExecutor) Execute(ctx context.Context, job *Job) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.executed = append(e.executed, job)

	if e.failures > 0 {
		e.failures--
		return errors.New("transient failure")
	}
	if e.done != nil {
		close(e.done)
		e.done = nil
	}
	return nil
}

func (e *recordingExecutor) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.executed)
}

func testSchedulerConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Enabled:        true,
		WorkerCount:    2,
		QueueSize:      10,
		JobTimeout:     time.Second,
		RetryAttempts:  2,
		RetryBaseDelay: 10 * time.Millisecond,
	}
}

func TestScheduler_ExecutesSubmittedJob(t *testing.T) {
	executor := &recordingExecutor{done: make(chan struct{})}
	done := executor.done
	s := NewScheduler(testSchedulerConfig(), executor, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	job := NewJob(JobKindCollectProducts, 0).ForSource(integration.SourceCodeOwnerClan)
	require.NoError(t, s.SubmitJob(job))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not executed")
	}

	assert.Equal(t, JobStatusSuccess, job.Status)
	assert.NotNil(t, job.StartedAt)
	assert.NotNil(t, job.CompletedAt)
}

func TestScheduler_RetriesFailedJob(t *testing.T) {
	executor := &recordingExecutor{failures: 2, done: make(chan struct{})}
	done := executor.done
	s := NewScheduler(testSchedulerConfig(), executor, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	job := NewJob(JobKindSyncListings, 2).ForChannel(integration.ChannelCodeCoupang)
	require.NoError(t, s.SubmitJob(job))

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("job retries did not complete")
	}

	assert.Equal(t, 3, executor.count())
	assert.Equal(t, JobStatusSuccess, job.Status)
	assert.Equal(t, 2, job.RetryCount)
}

func TestScheduler_ExhaustedRetriesStayFailed(t *testing.T) {
	executor := &recordingExecutor{failures: 10}
	s := NewScheduler(testSchedulerConfig(), executor, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))

	job := NewJob(JobKindPullOrders, 1).ForChannel(integration.ChannelCodeCoupang)
	require.NoError(t, s.SubmitJob(job))

	require.Eventually(t, func() bool {
		return executor.count() == 2 && job.Status == JobStatusFailed
	}, 3*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Stop(context.Background()))
}

func TestScheduler_SubmitWhenStopped(t *testing.T) {
	s := NewScheduler(testSchedulerConfig(), &recordingExecutor{}, zap.NewNop())

	err := s.SubmitJob(NewJob(JobKindRebuildDashboard, 0))
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestScheduler_QueueFull(t *testing.T) {
	cfg := testSchedulerConfig()
	cfg.WorkerCount = 1
	cfg.QueueSize = 1

	blocker := make(chan struct{})
	executor := &blockingExecutor{release: blocker}
	s := NewScheduler(cfg, executor, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer func() {
		close(blocker)
		s.Stop(context.Background())
	}()

	// First job occupies the worker, second fills the queue
	require.NoError(t, s.SubmitJob(NewJob(JobKindRebuildDashboard, 0)))
	require.Eventually(t, func() bool {
		return s.QueueDepth() == 0
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, s.SubmitJob(NewJob(JobKindRebuildDashboard, 0)))

	err := s.SubmitJob(NewJob(JobKindRebuildDashboard, 0))
	assert.ErrorIs(t, err, ErrJobQueueFull)
}

type blockingExecutor struct {
	release chan struct{}
}

func (e *blockingExecutor) Execute(ctx context.Context, job *Job) error {
	select {
	case <-e.release:
	case <-ctx.Done():
	}
	return nil
}

// gatedExecutor records jobs in execution order and blocks the first
// job until the gate opens, so later submissions pile up in the queues
type gatedExecutor struct {
	mu   sync.Mutex
	jobs []*Job
	gate chan struct{}
}

func (e *gatedExecutor) Execute(ctx context.Context, job *Job) error {
	e.mu.Lock()
	e.jobs = append(e.jobs, job)
	first := len(e.jobs) == 1
	e.mu.Unlock()

	if first {
		select {
		case <-e.gate:
		case <-ctx.Done():
		}
	}
	return nil
}

func (e *gatedExecutor) executed() []*Job {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*Job(nil), e.jobs...)
}

func TestScheduler_HighPriorityRunsFirst(t *testing.T) {
	cfg := testSchedulerConfig()
	cfg.WorkerCount = 1

	executor := &gatedExecutor{gate: make(chan struct{})}
	s := NewScheduler(cfg, executor, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	// Occupy the single worker so the next submissions wait in the queues
	require.NoError(t, s.SubmitJob(NewJob(JobKindRebuildDashboard, 0)))
	require.Eventually(t, func() bool {
		return s.QueueDepth() == 0
	}, time.Second, 5*time.Millisecond)

	low := NewJob(JobKindPruneNotifications, 0).WithPriority(PriorityLow)
	normal := NewJob(JobKindSyncListings, 0)
	high := NewJob(JobKindPullOrders, 0).WithPriority(PriorityHigh)
	require.NoError(t, s.SubmitJob(low))
	require.NoError(t, s.SubmitJob(normal))
	require.NoError(t, s.SubmitJob(high))

	close(executor.gate)

	require.Eventually(t, func() bool {
		return len(executor.executed()) == 4
	}, 2*time.Second, 5*time.Millisecond)

	// The high-priority job jumps the earlier normal and low submissions
	order := executor.executed()
	assert.Same(t, high, order[1])
	assert.ElementsMatch(t, []*Job{low, normal}, order[2:])
}

func TestScheduler_StopThenSubmitDoesNotPanic(t *testing.T) {
	s := NewScheduler(testSchedulerConfig(), &recordingExecutor{}, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop(context.Background()))

	err := s.SubmitJob(NewJob(JobKindRebuildDashboard, 0))
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestScheduler_StopWithRetryPending(t *testing.T) {
	cfg := testSchedulerConfig()
	cfg.RetryBaseDelay = 200 * time.Millisecond

	executor := &recordingExecutor{failures: 10}
	s := NewScheduler(cfg, executor, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))

	require.NoError(t, s.SubmitJob(NewJob(JobKindSyncListings, 3)))
	require.Eventually(t, func() bool {
		return executor.count() == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Stop(context.Background()))

	// The delayed resubmit fires after shutdown and is dropped cleanly
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 1, executor.count())
}

func TestScheduler_RetryBackoffDoesNotBlockWorker(t *testing.T) {
	cfg := testSchedulerConfig()
	cfg.WorkerCount = 1
	cfg.RetryBaseDelay = time.Minute

	executor := &recordingExecutor{failures: 1, done: make(chan struct{})}
	done := executor.done
	s := NewScheduler(cfg, executor, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	require.NoError(t, s.SubmitJob(NewJob(JobKindSyncListings, 2)))
	require.Eventually(t, func() bool {
		return executor.count() == 1
	}, time.Second, 5*time.Millisecond)

	// The sole worker must pick up new work while the retry waits out
	// its one-minute backoff
	require.NoError(t, s.SubmitJob(NewJob(JobKindRebuildDashboard, 0)))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker was parked by the pending retry")
	}
	assert.Equal(t, 2, executor.count())
}

func TestJob_RetryBookkeeping(t *testing.T) {
	job := NewJob(JobKindCollectProducts, 2)
	assert.Equal(t, JobStatusPending, job.Status)

	job.Start()
	job.Fail("boom")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.True(t, job.ShouldRetry())

	job.ScheduleRetry(time.Minute)
	assert.Equal(t, 1, job.RetryCount)
	assert.Equal(t, JobStatusPending, job.Status)
	require.NotNil(t, job.NextRetryAt)
	assert.True(t, job.NextRetryAt.After(time.Now()))

	job.Start()
	job.Fail("boom again")
	job.ScheduleRetry(time.Minute)
	job.Start()
	job.Fail("still broken")
	assert.False(t, job.ShouldRetry())
}
