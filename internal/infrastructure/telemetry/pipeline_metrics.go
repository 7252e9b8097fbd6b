package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the counters, histograms and gauges recorded by
// the collection, sync and order pipelines.
type PipelineMetrics struct {
	// Collection
	ProductsCollected *Counter
	CollectRuns       *Counter
	CollectDuration   *Histogram

	// Listing sync
	ListingsSynced *Counter
	SyncRuns       *Counter
	SyncDuration   *Histogram

	// Orders
	OrdersIngested  *Counter
	OrdersForwarded *Counter
	OrderPullRuns   *Counter

	// Scheduler
	JobsProcessed *Counter
	JobDuration   *Histogram
	QueueDepth    *Gauge
}

// NewPipelineMetrics registers all pipeline instruments on the given meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	pm := &PipelineMetrics{}
	var err error

	if pm.ProductsCollected, err = NewCounter(meter,
		"products_collected_total",
		"Products collected from wholesaler sources",
		"{product}"); err != nil {
		return nil, fmt.Errorf("failed to register collection metrics: %w", err)
	}
	if pm.CollectRuns, err = NewCounter(meter,
		"collect_runs_total",
		"Collection runs by source and result",
		"{run}"); err != nil {
		return nil, fmt.Errorf("failed to register collection metrics: %w", err)
	}
	if pm.CollectDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "collect_run_duration_seconds",
		Description: "Duration of one collection run per source",
		Unit:        "s",
		Boundaries:  RunDurationBuckets,
	}); err != nil {
		return nil, fmt.Errorf("failed to register collection metrics: %w", err)
	}

	if pm.ListingsSynced, err = NewCounter(meter,
		"listings_synced_total",
		"Listing sync attempts by channel and result",
		"{listing}"); err != nil {
		return nil, fmt.Errorf("failed to register sync metrics: %w", err)
	}
	if pm.SyncRuns, err = NewCounter(meter,
		"sync_runs_total",
		"Listing sync runs by channel and result",
		"{run}"); err != nil {
		return nil, fmt.Errorf("failed to register sync metrics: %w", err)
	}
	if pm.SyncDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "sync_run_duration_seconds",
		Description: "Duration of one listing sync run per channel",
		Unit:        "s",
		Boundaries:  RunDurationBuckets,
	}); err != nil {
		return nil, fmt.Errorf("failed to register sync metrics: %w", err)
	}

	if pm.OrdersIngested, err = NewCounter(meter,
		"orders_ingested_total",
		"Orders pulled from sales channels",
		"{order}"); err != nil {
		return nil, fmt.Errorf("failed to register order metrics: %w", err)
	}
	if pm.OrdersForwarded, err = NewCounter(meter,
		"orders_forwarded_total",
		"Orders forwarded to wholesalers by source and result",
		"{order}"); err != nil {
		return nil, fmt.Errorf("failed to register order metrics: %w", err)
	}
	if pm.OrderPullRuns, err = NewCounter(meter,
		"order_pull_runs_total",
		"Order pull runs by channel and result",
		"{run}"); err != nil {
		return nil, fmt.Errorf("failed to register order metrics: %w", err)
	}

	if pm.JobsProcessed, err = NewCounter(meter,
		"scheduler_jobs_total",
		"Scheduler jobs processed by kind and result",
		"{job}"); err != nil {
		return nil, fmt.Errorf("failed to register scheduler metrics: %w", err)
	}
	if pm.JobDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "scheduler_job_duration_seconds",
		Description: "Scheduler job execution time by kind",
		Unit:        "s",
		Boundaries:  RunDurationBuckets,
	}); err != nil {
		return nil, fmt.Errorf("failed to register scheduler metrics: %w", err)
	}
	if pm.QueueDepth, err = NewGauge(meter,
		"scheduler_queue_depth",
		"Jobs waiting in the scheduler queue",
		"{job}"); err != nil {
		return nil, fmt.Errorf("failed to register scheduler metrics: %w", err)
	}

	return pm, nil
}

// RecordCollectRun records one collection run outcome for a source
func (pm *PipelineMetrics) RecordCollectRun(ctx context.Context, source string, collected int, d time.Duration, err error) {
	sourceAttr := AttrSource.String(source)
	pm.CollectRuns.Inc(ctx, sourceAttr, AttrResult.String(resultOf(err)))
	pm.CollectDuration.RecordDuration(ctx, d, sourceAttr)
	if collected > 0 {
		pm.ProductsCollected.Add(ctx, int64(collected), sourceAttr)
	}
}

// RecordSyncRun records one listing sync run outcome for a channel
func (pm *PipelineMetrics) RecordSyncRun(ctx context.Context, channel string, synced, failed int, d time.Duration) {
	channelAttr := AttrChannel.String(channel)
	result := "success"
	if failed > 0 {
		result = "partial"
		if synced == 0 {
			result = "failure"
		}
	}
	pm.SyncRuns.Inc(ctx, channelAttr, AttrResult.String(result))
	pm.SyncDuration.RecordDuration(ctx, d, channelAttr)
	if synced > 0 {
		pm.ListingsSynced.Add(ctx, int64(synced), channelAttr, AttrResult.String("success"))
	}
	if failed > 0 {
		pm.ListingsSynced.Add(ctx, int64(failed), channelAttr, AttrResult.String("failure"))
	}
}

// RecordPullRun records one order pull run outcome for a channel
func (pm *PipelineMetrics) RecordPullRun(ctx context.Context, channel string, ingested int, err error) {
	channelAttr := AttrChannel.String(channel)
	pm.OrderPullRuns.Inc(ctx, channelAttr, AttrResult.String(resultOf(err)))
	if ingested > 0 {
		pm.OrdersIngested.Add(ctx, int64(ingested), channelAttr)
	}
}

// RecordForwardRun records wholesaler purchase placements by result
func (pm *PipelineMetrics) RecordForwardRun(ctx context.Context, forwarded, failed int) {
	if forwarded > 0 {
		pm.OrdersForwarded.Add(ctx, int64(forwarded), AttrResult.String("success"))
	}
	if failed > 0 {
		pm.OrdersForwarded.Add(ctx, int64(failed), AttrResult.String("failure"))
	}
}

// RecordJob records one scheduler job execution
func (pm *PipelineMetrics) RecordJob(ctx context.Context, kind string, d time.Duration, err error) {
	kindAttr := AttrJobKind.String(kind)
	pm.JobsProcessed.Inc(ctx, kindAttr, AttrResult.String(resultOf(err)))
	pm.JobDuration.RecordDuration(ctx, d, kindAttr)
}

func resultOf(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
