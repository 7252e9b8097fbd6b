// Package analytics builds the dashboard snapshot from the catalog, listing,
// and order aggregates and keeps a cached copy for cheap reads.
package analytics

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/analytics"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/catalog"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/notification"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/order"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/cache"
)

const snapshotCacheKey = "dashboard:snapshot"

// Broadcaster pushes a rebuilt snapshot to connected dashboard clients
type Broadcaster interface {
	Broadcast(snapshot *analytics.Snapshot)
}

// DashboardService assembles and caches the dashboard snapshot
type DashboardService struct {
	orders        order.Repository
	products      catalog.ProductRepository
	listings      integration.ListingRepository
	notifications notification.Repository
	cache         cache.Cache
	cacheTTL      time.Duration
	broadcaster   Broadcaster
	logger        *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	orders order.Repository,
	products catalog.ProductRepository,
	listings integration.ListingRepository,
	notifications notification.Repository,
	snapshotCache cache.Cache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *DashboardService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &DashboardService{
		orders:        orders,
		products:      products,
		listings:      listings,
		notifications: notifications,
		cache:         snapshotCache,
		cacheTTL:      cacheTTL,
		logger:        logger,
	}
}

// SetBroadcaster attaches the websocket hub. Called once during wiring, after
// the hub exists.
func (s *DashboardService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// GetSnapshot returns the cached snapshot, rebuilding it on a cache miss
func (s *DashboardService) GetSnapshot(ctx context.Context) (*analytics.Snapshot, error) {
	var snapshot analytics.Snapshot
	err := s.cache.Get(ctx, snapshotCacheKey, &snapshot)
	if err == nil {
		return &snapshot, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("Dashboard cache read failed", zap.Error(err))
	}
	return s.Rebuild(ctx)
}

// Rebuild recomputes the snapshot, refreshes the cache, and pushes the new
// snapshot to dashboard subscribers
func (s *DashboardService) Rebuild(ctx context.Context) (*analytics.Snapshot, error) {
	snapshot, err := s.BuildSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, snapshotCacheKey, snapshot, s.cacheTTL); err != nil {
		s.logger.Warn("Dashboard cache write failed", zap.Error(err))
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(snapshot)
	}
	return snapshot, nil
}

// Invalidate drops the cached snapshot so the next read rebuilds it
func (s *DashboardService) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, snapshotCacheKey)
}

// BuildSnapshot aggregates the dashboard numbers without touching the cache
func (s *DashboardService) BuildSnapshot(ctx context.Context) (*analytics.Snapshot, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	snapshot := &analytics.Snapshot{GeneratedAt: now}

	var err error
	if snapshot.Today, err = s.salesWindow(ctx, today, now); err != nil {
		return nil, err
	}
	if snapshot.Last7Days, err = s.salesWindow(ctx, now.AddDate(0, 0, -7), now); err != nil {
		return nil, err
	}
	if snapshot.Last30Days, err = s.salesWindow(ctx, now.AddDate(0, 0, -30), now); err != nil {
		return nil, err
	}

	if snapshot.Catalog, err = s.catalogSummary(ctx); err != nil {
		return nil, err
	}
	if snapshot.Listings, err = s.listingSummary(ctx); err != nil {
		return nil, err
	}
	if snapshot.Orders, err = s.orderSummary(ctx); err != nil {
		return nil, err
	}

	if snapshot.UnreadCount, err = s.notifications.CountUnread(ctx); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *DashboardService) salesWindow(ctx context.Context, from, to time.Time) (analytics.SalesWindow, error) {
	summary, err := s.orders.SalesBetween(ctx, from, to)
	if err != nil {
		return analytics.SalesWindow{}, err
	}
	return analytics.SalesWindow{
		From:        from,
		To:          to,
		OrderCount:  summary.OrderCount,
		ItemCount:   summary.ItemCount,
		TotalAmount: summary.TotalAmount,
		TotalCost:   summary.TotalCost,
		Margin:      summary.TotalAmount.Sub(summary.TotalCost),
	}, nil
}

func (s *DashboardService) catalogSummary(ctx context.Context) (analytics.CatalogSummary, error) {
	counts, err := s.products.CountByStatus(ctx)
	if err != nil {
		return analytics.CatalogSummary{}, err
	}
	soldOut, err := s.products.CountSoldOut(ctx)
	if err != nil {
		return analytics.CatalogSummary{}, err
	}

	summary := analytics.CatalogSummary{
		Draft:    counts[catalog.ProductStatusDraft],
		Active:   counts[catalog.ProductStatusActive],
		Paused:   counts[catalog.ProductStatusPaused],
		Delisted: counts[catalog.ProductStatusDelisted],
		SoldOut:  soldOut,
	}
	for _, count := range counts {
		summary.Total += count
	}
	return summary, nil
}

func (s *DashboardService) listingSummary(ctx context.Context) (analytics.ListingSummary, error) {
	var summary analytics.ListingSummary
	for _, channel := range integration.AllChannelCodes() {
		counts, err := s.listings.CountByStatus(ctx, channel)
		if err != nil {
			return analytics.ListingSummary{}, err
		}
		for status, count := range counts {
			summary.Total += count
			switch status {
			case integration.SyncStatusPending, integration.SyncStatusInProgress:
				summary.Pending += count
			case integration.SyncStatusSuccess, integration.SyncStatusPartial:
				summary.Synced += count
			case integration.SyncStatusFailed:
				summary.Failed += count
			}
		}
	}

	syncEnabled, err := s.listings.CountSyncEnabled(ctx)
	if err != nil {
		return analytics.ListingSummary{}, err
	}
	summary.SyncEnabled = syncEnabled
	return summary, nil
}

func (s *DashboardService) orderSummary(ctx context.Context) (analytics.OrderSummary, error) {
	counts, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return analytics.OrderSummary{}, err
	}
	return analytics.OrderSummary{
		Received:        counts[order.OrderStatusReceived],
		Confirmed:       counts[order.OrderStatusConfirmed],
		SupplierOrdered: counts[order.OrderStatusSupplierOrdered],
		Shipped:         counts[order.OrderStatusShipped],
		Delivered:       counts[order.OrderStatusDelivered],
		Cancelled:       counts[order.OrderStatusCancelled],
	}, nil
}
