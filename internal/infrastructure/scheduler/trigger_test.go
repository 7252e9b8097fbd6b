package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/config"
)

type staticSources struct{ sources []integration.SourceCode }

func (s *staticSources) CollectableSources(ctx context.Context) ([]integration.SourceCode, error) {
	return s.sources, nil
}

type staticChannels struct{ channels []integration.ChannelCode }

func (s *staticChannels) EnabledChannels(ctx context.Context) ([]integration.ChannelCode, error) {
	return s.channels, nil
}

type captureExecutor struct {
	mu   sync.Mutex
	jobs []*Job
}

func (e *captureExecutor) Execute(ctx context.Context, job *Job) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jobs = append(e.jobs, job)
	return nil
}

func (e *captureExecutor) byKind(kind JobKind) []*Job {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []*Job
	for _, j := range e.jobs {
		if j.Kind == kind {
			out = append(out, j)
		}
	}
	return out
}

func TestParseDailySchedule(t *testing.T) {
	hour, minute, err := ParseDailySchedule("0 3 * * *")
	require.NoError(t, err)
	assert.Equal(t, 3, hour)
	assert.Equal(t, 0, minute)

	hour, minute, err = ParseDailySchedule("30 14 * * *")
	require.NoError(t, err)
	assert.Equal(t, 14, hour)
	assert.Equal(t, 30, minute)

	for _, expr := range []string{"", "* * * * *", "0 3 1 * *", "61 3 * * *", "0 25 * * *", "0 3"} {
		_, _, err := ParseDailySchedule(expr)
		assert.ErrorIs(t, err, ErrInvalidSchedule, "expr %q", expr)
	}
}

func newTestTrigger(t *testing.T, executor JobExecutor, syncCfg config.SyncConfig) (*Trigger, *Scheduler) {
	t.Helper()

	s := NewScheduler(testSchedulerConfig(), executor, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { s.Stop(context.Background()) })

	trigger, err := NewTrigger(
		config.CollectionConfig{Enabled: true, CronSchedule: "0 3 * * *", PageSize: 100},
		syncCfg,
		config.DashboardConfig{RefreshInterval: time.Hour, CacheTTL: time.Minute},
		s,
		&staticSources{sources: []integration.SourceCode{integration.SourceCodeOwnerClan, integration.SourceCodeDomeggook}},
		&staticChannels{channels: []integration.ChannelCode{integration.ChannelCodeCoupang}},
		zap.NewNop(),
	)
	require.NoError(t, err)
	return trigger, s
}

func TestNewTrigger_RejectsBadSchedule(t *testing.T) {
	s := NewScheduler(testSchedulerConfig(), &captureExecutor{}, zap.NewNop())

	_, err := NewTrigger(
		config.CollectionConfig{CronSchedule: "every day at 3"},
		config.SyncConfig{ListingInterval: time.Hour, OrderPullInterval: time.Hour, StaleAfter: time.Hour},
		config.DashboardConfig{RefreshInterval: time.Hour},
		s, &staticSources{}, &staticChannels{}, zap.NewNop(),
	)
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestTrigger_CollectionSubmitsPerSource(t *testing.T) {
	executor := &captureExecutor{}
	trigger, _ := newTestTrigger(t, executor, config.SyncConfig{
		Enabled:           true,
		ListingInterval:   time.Hour,
		OrderPullInterval: time.Hour,
		StaleAfter:        time.Hour,
		BatchSize:         50,
	})

	trigger.TriggerCollection(context.Background())

	require.Eventually(t, func() bool {
		return len(executor.byKind(JobKindCollectProducts)) == 2
	}, 2*time.Second, 10*time.Millisecond)

	jobs := executor.byKind(JobKindCollectProducts)
	sources := map[integration.SourceCode]bool{}
	for _, j := range jobs {
		sources[j.Source] = true
	}
	assert.True(t, sources[integration.SourceCodeOwnerClan])
	assert.True(t, sources[integration.SourceCodeDomeggook])
}

func TestTrigger_OrderPullWindowsOverlap(t *testing.T) {
	executor := &captureExecutor{}
	trigger, _ := newTestTrigger(t, executor, config.SyncConfig{
		Enabled:           true,
		ListingInterval:   time.Hour,
		OrderPullInterval: 30 * time.Millisecond,
		StaleAfter:        time.Hour,
		BatchSize:         50,
	})

	require.NoError(t, trigger.Start(context.Background()))
	defer trigger.Stop(context.Background())

	require.Eventually(t, func() bool {
		return len(executor.byKind(JobKindPullOrders)) >= 2
	}, 3*time.Second, 10*time.Millisecond)
	require.NoError(t, trigger.Stop(context.Background()))

	pulls := executor.byKind(JobKindPullOrders)
	first, second := pulls[0], pulls[1]

	assert.Equal(t, integration.ChannelCodeCoupang, first.Channel)
	assert.False(t, first.WindowStart.IsZero())
	assert.True(t, first.WindowEnd.After(first.WindowStart))

	// The second window starts before the first one ended
	assert.True(t, second.WindowStart.Before(first.WindowEnd))
}

func TestTrigger_IntervalCollection(t *testing.T) {
	executor := &captureExecutor{}
	s := NewScheduler(testSchedulerConfig(), executor, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { s.Stop(context.Background()) })

	trigger, err := NewTrigger(
		config.CollectionConfig{Enabled: true, CronSchedule: "0 3 * * *", Interval: 30 * time.Millisecond, PageSize: 100},
		config.SyncConfig{ListingInterval: time.Hour, OrderPullInterval: time.Hour, StaleAfter: time.Hour},
		config.DashboardConfig{RefreshInterval: time.Hour},
		s,
		&staticSources{sources: []integration.SourceCode{integration.SourceCodeOwnerClan}},
		&staticChannels{},
		zap.NewNop(),
	)
	require.NoError(t, err)

	require.NoError(t, trigger.Start(context.Background()))
	defer trigger.Stop(context.Background())

	// At least two ticks prove collection recurs between daily sweeps
	require.Eventually(t, func() bool {
		return len(executor.byKind(JobKindCollectProducts)) >= 2
	}, 3*time.Second, 10*time.Millisecond)

	for _, job := range executor.byKind(JobKindCollectProducts) {
		assert.Equal(t, integration.SourceCodeOwnerClan, job.Source)
	}
}

func TestTrigger_OrderPullJobsAreHighPriority(t *testing.T) {
	executor := &captureExecutor{}
	trigger, _ := newTestTrigger(t, executor, config.SyncConfig{
		Enabled:           true,
		ListingInterval:   time.Hour,
		OrderPullInterval: 30 * time.Millisecond,
		StaleAfter:        time.Hour,
		BatchSize:         50,
	})

	require.NoError(t, trigger.Start(context.Background()))
	defer trigger.Stop(context.Background())

	require.Eventually(t, func() bool {
		return len(executor.byKind(JobKindPullOrders)) >= 1 &&
			len(executor.byKind(JobKindForwardOrders)) >= 1 &&
			len(executor.byKind(JobKindRefreshTracking)) >= 1
	}, 3*time.Second, 10*time.Millisecond)

	assert.Equal(t, PriorityHigh, executor.byKind(JobKindPullOrders)[0].Priority)
	assert.Equal(t, PriorityHigh, executor.byKind(JobKindForwardOrders)[0].Priority)
	assert.Equal(t, PriorityHigh, executor.byKind(JobKindRefreshTracking)[0].Priority)
}

func TestTrigger_StartIsIdempotent(t *testing.T) {
	executor := &captureExecutor{}
	trigger, _ := newTestTrigger(t, executor, config.SyncConfig{
		Enabled:           true,
		ListingInterval:   time.Hour,
		OrderPullInterval: time.Hour,
		StaleAfter:        time.Hour,
	})

	ctx := context.Background()
	require.NoError(t, trigger.Start(ctx))
	require.NoError(t, trigger.Start(ctx))
	require.NoError(t, trigger.Stop(ctx))
	require.NoError(t, trigger.Stop(ctx))
}
