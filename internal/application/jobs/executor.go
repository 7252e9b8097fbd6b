// Package jobs binds scheduler job kinds to the pipeline services.
package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/application/collection"
	"github.com/sunwoo0067/yooni-03-sub011/internal/application/marketsync"
	"github.com/sunwoo0067/yooni-03-sub011/internal/application/order"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/analytics"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/scheduler"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/telemetry"
)

// defaultNotificationRetentionDays bounds the prune job when no retention
// is configured
const defaultNotificationRetentionDays = 30

// CollectRunner runs product collection for one wholesaler
type CollectRunner interface {
	RunSource(ctx context.Context, code integration.SourceCode) (*collection.Result, error)
}

// SyncRunner pushes stale listings to one marketplace channel
type SyncRunner interface {
	RunChannel(ctx context.Context, code integration.ChannelCode) (*marketsync.SyncRunResponse, error)
}

// OrderPuller ingests marketplace orders for a time window
type OrderPuller interface {
	RunChannel(ctx context.Context, code integration.ChannelCode) (*order.PullRunResponse, error)
	RunChannelWindow(ctx context.Context, code integration.ChannelCode, from, to time.Time) (*order.PullRunResponse, error)
}

// OrderForwarder places wholesaler purchases and polls their tracking
type OrderForwarder interface {
	ForwardOrders(ctx context.Context) (*order.ForwardRunResponse, error)
	RefreshTracking(ctx context.Context) (*order.TrackingRunResponse, error)
}

// DashboardRebuilder recomputes the cached dashboard snapshot
type DashboardRebuilder interface {
	Rebuild(ctx context.Context) (*analytics.Snapshot, error)
}

// NotificationPruner deletes read notifications past retention
type NotificationPruner interface {
	Prune(ctx context.Context, retentionDays int) (int64, error)
}

// RunReporter records pipeline run failures as operator notifications
type RunReporter interface {
	RecordCollectFailure(ctx context.Context, source string, runErr error) error
	RecordSyncFailure(ctx context.Context, channel string, failed int) error
}

// Executor dispatches scheduler jobs to the pipeline services and records
// run metrics. It implements scheduler.JobExecutor.
type Executor struct {
	collector CollectRunner
	syncer    SyncRunner
	puller    OrderPuller
	forwarder OrderForwarder
	dashboard DashboardRebuilder
	pruner    NotificationPruner
	reporter  RunReporter
	metrics   *telemetry.PipelineMetrics
	retention int
	logger    *zap.Logger
}

// NewExecutor creates a new Executor
func NewExecutor(
	collector CollectRunner,
	syncer SyncRunner,
	puller OrderPuller,
	forwarder OrderForwarder,
	dashboard DashboardRebuilder,
	pruner NotificationPruner,
	reporter RunReporter,
	metrics *telemetry.PipelineMetrics,
	retentionDays int,
	logger *zap.Logger,
) *Executor {
	if retentionDays <= 0 {
		retentionDays = defaultNotificationRetentionDays
	}
	return &Executor{
		collector: collector,
		syncer:    syncer,
		puller:    puller,
		forwarder: forwarder,
		dashboard: dashboard,
		pruner:    pruner,
		reporter:  reporter,
		metrics:   metrics,
		retention: retentionDays,
		logger:    logger,
	}
}

// Execute runs one scheduler job
func (e *Executor) Execute(ctx context.Context, job *scheduler.Job) error {
	start := time.Now()
	err := e.dispatch(ctx, job)
	if e.metrics != nil {
		e.metrics.RecordJob(ctx, string(job.Kind), time.Since(start), err)
	}
	return err
}

func (e *Executor) dispatch(ctx context.Context, job *scheduler.Job) error {
	switch job.Kind {
	case scheduler.JobKindCollectProducts:
		return e.collectProducts(ctx, job.Source)
	case scheduler.JobKindSyncListings:
		return e.syncListings(ctx, job.Channel)
	case scheduler.JobKindPullOrders:
		return e.pullOrders(ctx, job)
	case scheduler.JobKindForwardOrders:
		return e.forwardOrders(ctx)
	case scheduler.JobKindRefreshTracking:
		return e.refreshTracking(ctx)
	case scheduler.JobKindRebuildDashboard:
		_, err := e.dashboard.Rebuild(ctx)
		return err
	case scheduler.JobKindPruneNotifications:
		_, err := e.pruner.Prune(ctx, e.retention)
		return err
	default:
		return fmt.Errorf("%w: %s", scheduler.ErrUnknownJobKind, job.Kind)
	}
}

func (e *Executor) collectProducts(ctx context.Context, source integration.SourceCode) error {
	result, err := e.collector.RunSource(ctx, source)

	if e.metrics != nil {
		collected := 0
		duration := time.Duration(0)
		if result != nil {
			collected = result.Collected
			duration = result.Duration
		}
		e.metrics.RecordCollectRun(ctx, source.String(), collected, duration, err)
	}

	if err != nil {
		if reportErr := e.reporter.RecordCollectFailure(ctx, source.String(), err); reportErr != nil {
			e.logger.Warn("Failed to record collect failure notification",
				zap.String("source", source.String()),
				zap.Error(reportErr),
			)
		}
		return err
	}
	return nil
}

func (e *Executor) syncListings(ctx context.Context, channel integration.ChannelCode) error {
	result, err := e.syncer.RunChannel(ctx, channel)
	if err != nil {
		if reportErr := e.reporter.RecordSyncFailure(ctx, channel.String(), 0); reportErr != nil {
			e.logger.Warn("Failed to record sync failure notification",
				zap.String("channel", channel.String()),
				zap.Error(reportErr),
			)
		}
		return err
	}

	if e.metrics != nil {
		e.metrics.RecordSyncRun(ctx, channel.String(), result.Synced, result.Failed, result.Duration)
	}

	if result.Failed > 0 {
		if reportErr := e.reporter.RecordSyncFailure(ctx, channel.String(), result.Failed); reportErr != nil {
			e.logger.Warn("Failed to record sync failure notification",
				zap.String("channel", channel.String()),
				zap.Error(reportErr),
			)
		}
	}
	return nil
}

func (e *Executor) pullOrders(ctx context.Context, job *scheduler.Job) error {
	var (
		result *order.PullRunResponse
		err    error
	)
	if job.WindowStart.IsZero() {
		result, err = e.puller.RunChannel(ctx, job.Channel)
	} else {
		result, err = e.puller.RunChannelWindow(ctx, job.Channel, job.WindowStart, job.WindowEnd)
	}

	if e.metrics != nil {
		ingested := 0
		if result != nil {
			ingested = result.Ingested
		}
		e.metrics.RecordPullRun(ctx, job.Channel.String(), ingested, err)
	}
	return err
}

func (e *Executor) forwardOrders(ctx context.Context) error {
	result, err := e.forwarder.ForwardOrders(ctx)
	if err != nil {
		return err
	}
	if e.metrics != nil {
		e.metrics.RecordForwardRun(ctx, result.Forwarded, result.Failed)
	}
	return nil
}

func (e *Executor) refreshTracking(ctx context.Context) error {
	_, err := e.forwarder.RefreshTracking(ctx)
	return err
}

// Ensure Executor implements scheduler.JobExecutor
var _ scheduler.JobExecutor = (*Executor)(nil)
