package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/config"
)

// SourceProvider lists the wholesaler platforms collection runs should cover
type SourceProvider interface {
	CollectableSources(ctx context.Context) ([]integration.SourceCode, error)
}

// ChannelProvider lists the marketplace channels sync runs should cover
type ChannelProvider interface {
	EnabledChannels(ctx context.Context) ([]integration.ChannelCode, error)
}

// orderPullOverlap is re-read on every pull so orders created while the
// previous pull was running are not missed
const orderPullOverlap = 5 * time.Minute

// dailyCheckInterval is how often the trigger checks the daily schedule
const dailyCheckInterval = time.Minute

// ParseDailySchedule parses a "minute hour * * *" cron expression into its
// hour and minute. Only daily schedules are supported.
func ParseDailySchedule(expr string) (hour, minute int, err error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 || fields[2] != "*" || fields[3] != "*" || fields[4] != "*" {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSchedule, expr)
	}

	minute, err = strconv.Atoi(fields[0])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSchedule, expr)
	}
	hour, err = strconv.Atoi(fields[1])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSchedule, expr)
	}

	return hour, minute, nil
}

// defaultCollectionInterval backs the incremental collection ticker when
// the config leaves it unset
const defaultCollectionInterval = 6 * time.Hour

// Trigger submits recurring jobs to the scheduler: interval-based listing
// sync, order pull, incremental collection, and dashboard refresh, plus a
// daily collection sweep and notification prune.
type Trigger struct {
	collection config.CollectionConfig
	sync       config.SyncConfig
	dashboard  config.DashboardConfig

	scheduler *Scheduler
	sources   SourceProvider
	channels  ChannelProvider
	logger    *zap.Logger

	collectHour   int
	collectMinute int

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
	lastPull    map[integration.ChannelCode]time.Time
}

// NewTrigger creates a new trigger
func NewTrigger(
	collection config.CollectionConfig,
	syncCfg config.SyncConfig,
	dashboard config.DashboardConfig,
	sched *Scheduler,
	sources SourceProvider,
	channels ChannelProvider,
	logger *zap.Logger,
) (*Trigger, error) {
	hour, minute, err := ParseDailySchedule(collection.CronSchedule)
	if err != nil {
		return nil, err
	}
	if collection.Interval <= 0 {
		collection.Interval = defaultCollectionInterval
	}

	return &Trigger{
		collection:    collection,
		sync:          syncCfg,
		dashboard:     dashboard,
		scheduler:     sched,
		sources:       sources,
		channels:      channels,
		logger:        logger,
		collectHour:   hour,
		collectMinute: minute,
		lastPull:      make(map[integration.ChannelCode]time.Time),
	}, nil
}

// Start starts the trigger loop
func (t *Trigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Trigger started",
		zap.Int("collect_hour", t.collectHour),
		zap.Int("collect_minute", t.collectMinute),
		zap.Duration("collection_interval", t.collection.Interval),
		zap.Duration("listing_interval", t.sync.ListingInterval),
		zap.Duration("order_pull_interval", t.sync.OrderPullInterval),
		zap.Duration("dashboard_interval", t.dashboard.RefreshInterval),
	)

	return nil
}

// Stop stops the trigger loop
func (t *Trigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop multiplexes the interval tickers and the daily schedule check
func (t *Trigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	listingTicker := time.NewTicker(t.sync.ListingInterval)
	defer listingTicker.Stop()
	orderTicker := time.NewTicker(t.sync.OrderPullInterval)
	defer orderTicker.Stop()
	collectTicker := time.NewTicker(t.collection.Interval)
	defer collectTicker.Stop()
	dashboardTicker := time.NewTicker(t.dashboard.RefreshInterval)
	defer dashboardTicker.Stop()
	dailyTicker := time.NewTicker(dailyCheckInterval)
	defer dailyTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-listingTicker.C:
			if t.sync.Enabled {
				t.triggerListingSync(ctx)
			}
		case <-orderTicker.C:
			if t.sync.Enabled {
				t.triggerOrderPull(ctx)
				t.submit(NewJob(JobKindForwardOrders, 0).WithPriority(PriorityHigh))
				t.submit(NewJob(JobKindRefreshTracking, 0).WithPriority(PriorityHigh))
			}
		case <-collectTicker.C:
			if t.collection.Enabled {
				t.logger.Info("Triggering incremental collection")
				t.TriggerCollection(ctx)
			}
		case <-dashboardTicker.C:
			t.submit(NewJob(JobKindRebuildDashboard, 0).WithPriority(PriorityLow))
		case <-dailyTicker.C:
			t.checkDaily(ctx)
		}
	}
}

// checkDaily runs the daily collection sweep and notification prune once
// per day at the configured time
func (t *Trigger) checkDaily(ctx context.Context) {
	now := time.Now()
	currentDate := now.Format("2006-01-02")

	t.mu.Lock()
	alreadyRan := t.lastRunDate == currentDate
	t.mu.Unlock()
	if alreadyRan {
		return
	}

	if now.Hour() != t.collectHour || now.Minute() != t.collectMinute {
		return
	}

	t.mu.Lock()
	t.lastRunDate = currentDate
	t.mu.Unlock()

	t.submit(NewJob(JobKindPruneNotifications, 0).WithPriority(PriorityLow))

	if t.collection.Enabled {
		t.logger.Info("Triggering daily collection sweep")
		t.TriggerCollection(ctx)
	}
}

// TriggerCollection submits a collection job per collectable wholesaler.
// Also used by the manual collection endpoint.
func (t *Trigger) TriggerCollection(ctx context.Context) {
	sources, err := t.sources.CollectableSources(ctx)
	if err != nil {
		t.logger.Error("Failed to list collectable sources", zap.Error(err))
		return
	}

	for _, source := range sources {
		job := NewJob(JobKindCollectProducts, 1).ForSource(source)
		t.submit(job)
	}
}

// triggerListingSync submits a listing sync job per enabled channel
func (t *Trigger) triggerListingSync(ctx context.Context) {
	channels, err := t.channels.EnabledChannels(ctx)
	if err != nil {
		t.logger.Error("Failed to list enabled channels", zap.Error(err))
		return
	}

	for _, channel := range channels {
		t.submit(NewJob(JobKindSyncListings, 0).ForChannel(channel))
	}
}

// triggerOrderPull submits an order pull job per enabled channel. Windows
// overlap the previous pull so no order falls between two runs.
func (t *Trigger) triggerOrderPull(ctx context.Context) {
	channels, err := t.channels.EnabledChannels(ctx)
	if err != nil {
		t.logger.Error("Failed to list enabled channels", zap.Error(err))
		return
	}

	now := time.Now()
	for _, channel := range channels {
		t.mu.Lock()
		last, ok := t.lastPull[channel]
		t.lastPull[channel] = now
		t.mu.Unlock()

		start := now.Add(-t.sync.OrderPullInterval - orderPullOverlap)
		if ok {
			start = last.Add(-orderPullOverlap)
		}

		job := NewJob(JobKindPullOrders, 1).ForChannel(channel).WithWindow(start, now).WithPriority(PriorityHigh)
		t.submit(job)
	}
}

func (t *Trigger) submit(job *Job) {
	if err := t.scheduler.SubmitJob(job); err != nil {
		t.logger.Warn("Failed to submit job",
			zap.String("kind", string(job.Kind)),
			zap.Error(err),
		)
	}
}
