package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/analytics"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/catalog"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/notification"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/order"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/cache"
)

// fakeSalesRepo serves canned aggregates and counts how often the sales
// query runs, so tests can tell a cache hit from a rebuild
type fakeSalesRepo struct {
	summary    order.SalesSummary
	counts     map[order.OrderStatus]int64
	salesCalls int
}

func (r *fakeSalesRepo) FindByID(_ context.Context, _ uuid.UUID) (*order.Order, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeSalesRepo) FindByChannelOrder(_ context.Context, _ integration.ChannelCode, _ string) (*order.Order, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeSalesRepo) FindAll(_ context.Context, _ shared.Filter) ([]order.Order, int64, error) {
	return nil, 0, nil
}

func (r *fakeSalesRepo) FindByStatus(_ context.Context, _ order.OrderStatus, _ shared.Filter) ([]order.Order, int64, error) {
	return nil, 0, nil
}

func (r *fakeSalesRepo) FindForwardable(_ context.Context, _ int) ([]order.Order, error) {
	return nil, nil
}

func (r *fakeSalesRepo) FindInTransit(_ context.Context, _ int) ([]order.Order, error) {
	return nil, nil
}

func (r *fakeSalesRepo) CountByStatus(_ context.Context) (map[order.OrderStatus]int64, error) {
	return r.counts, nil
}

func (r *fakeSalesRepo) SalesBetween(_ context.Context, _, _ time.Time) (order.SalesSummary, error) {
	r.salesCalls++
	return r.summary, nil
}

func (r *fakeSalesRepo) Save(_ context.Context, _ *order.Order) error { return nil }

func (r *fakeSalesRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

// fakeCatalogCounts implements the product repository over fixed counts
type fakeCatalogCounts struct {
	counts  map[catalog.ProductStatus]int64
	soldOut int64
}

func (r *fakeCatalogCounts) FindByID(_ context.Context, _ uuid.UUID) (*catalog.Product, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeCatalogCounts) FindBySource(_ context.Context, _ integration.SourceCode, _ string) (*catalog.Product, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeCatalogCounts) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, int64, error) {
	return nil, 0, nil
}

func (r *fakeCatalogCounts) FindByStatus(_ context.Context, _ catalog.ProductStatus, _ shared.Filter) ([]catalog.Product, int64, error) {
	return nil, 0, nil
}

func (r *fakeCatalogCounts) FindSellable(_ context.Context, _ int) ([]catalog.Product, error) {
	return nil, nil
}

func (r *fakeCatalogCounts) CountByStatus(_ context.Context) (map[catalog.ProductStatus]int64, error) {
	return r.counts, nil
}

func (r *fakeCatalogCounts) CountSoldOut(_ context.Context) (int64, error) {
	return r.soldOut, nil
}

func (r *fakeCatalogCounts) Save(_ context.Context, _ *catalog.Product) error { return nil }

func (r *fakeCatalogCounts) Delete(_ context.Context, _ uuid.UUID) error { return nil }

// fakeListingCounts implements the listing repository over fixed per-channel
// counts
type fakeListingCounts struct {
	counts      map[integration.ChannelCode]map[integration.SyncStatus]int64
	syncEnabled int64
}

func (r *fakeListingCounts) FindByID(_ context.Context, _ uuid.UUID) (*integration.ProductListing, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeListingCounts) FindByProductAndChannel(_ context.Context, _ uuid.UUID, _ integration.ChannelCode) (*integration.ProductListing, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeListingCounts) FindByChannelProductID(_ context.Context, _ integration.ChannelCode, _ string) (*integration.ProductListing, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeListingCounts) FindByProduct(_ context.Context, _ uuid.UUID) ([]integration.ProductListing, error) {
	return nil, nil
}

func (r *fakeListingCounts) FindPendingSync(_ context.Context, _ integration.ChannelCode, _ time.Duration, _ int) ([]integration.ProductListing, error) {
	return nil, nil
}

func (r *fakeListingCounts) CountByStatus(_ context.Context, channel integration.ChannelCode) (map[integration.SyncStatus]int64, error) {
	return r.counts[channel], nil
}

func (r *fakeListingCounts) CountSyncEnabled(_ context.Context) (int64, error) {
	return r.syncEnabled, nil
}

func (r *fakeListingCounts) Save(_ context.Context, _ *integration.ProductListing) error { return nil }

func (r *fakeListingCounts) Delete(_ context.Context, _ uuid.UUID) error { return nil }

// fakeUnreadCounter implements the notification repository over a fixed
// unread count
type fakeUnreadCounter struct {
	unread int64
}

func (r *fakeUnreadCounter) FindByID(_ context.Context, _ uuid.UUID) (*notification.Notification, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeUnreadCounter) FindAll(_ context.Context, _ shared.Filter) ([]notification.Notification, int64, error) {
	return nil, 0, nil
}

func (r *fakeUnreadCounter) FindUnread(_ context.Context, _ int) ([]notification.Notification, error) {
	return nil, nil
}

func (r *fakeUnreadCounter) CountUnread(_ context.Context) (int64, error) { return r.unread, nil }

func (r *fakeUnreadCounter) Save(_ context.Context, _ *notification.Notification) error { return nil }

func (r *fakeUnreadCounter) MarkAllRead(_ context.Context) error { return nil }

func (r *fakeUnreadCounter) DeleteOlderThan(_ context.Context, _ int) (int64, error) { return 0, nil }

type captureBroadcaster struct {
	snapshots []*analytics.Snapshot
}

func (b *captureBroadcaster) Broadcast(snapshot *analytics.Snapshot) {
	b.snapshots = append(b.snapshots, snapshot)
}

func newDashboardFixture() (*DashboardService, *fakeSalesRepo) {
	orders := &fakeSalesRepo{
		summary: order.SalesSummary{
			OrderCount:  12,
			ItemCount:   20,
			TotalAmount: decimal.NewFromInt(343200),
			TotalCost:   decimal.NewFromInt(204000),
		},
		counts: map[order.OrderStatus]int64{
			order.OrderStatusReceived:        3,
			order.OrderStatusConfirmed:       2,
			order.OrderStatusSupplierOrdered: 1,
			order.OrderStatusShipped:         4,
			order.OrderStatusDelivered:       10,
			order.OrderStatusCancelled:       2,
		},
	}
	products := &fakeCatalogCounts{
		counts: map[catalog.ProductStatus]int64{
			catalog.ProductStatusDraft:    40,
			catalog.ProductStatusActive:   150,
			catalog.ProductStatusPaused:   8,
			catalog.ProductStatusDelisted: 2,
		},
		soldOut: 8,
	}
	listings := &fakeListingCounts{
		counts: map[integration.ChannelCode]map[integration.SyncStatus]int64{
			integration.ChannelCodeCoupang: {
				integration.SyncStatusSuccess: 90,
				integration.SyncStatusPending: 5,
				integration.SyncStatusFailed:  3,
			},
			integration.ChannelCodeSmartStore: {
				integration.SyncStatusSuccess: 60,
				integration.SyncStatusPartial: 2,
			},
		},
		syncEnabled: 155,
	}

	service := NewDashboardService(
		orders, products, listings,
		&fakeUnreadCounter{unread: 7},
		cache.NewInMemoryCache(),
		time.Minute,
		zap.NewNop(),
	)
	return service, orders
}

func TestBuildSnapshot_Aggregates(t *testing.T) {
	service, _ := newDashboardFixture()

	snapshot, err := service.BuildSnapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(12), snapshot.Today.OrderCount)
	assert.Equal(t, "139200", snapshot.Today.Margin.String())

	assert.Equal(t, int64(200), snapshot.Catalog.Total)
	assert.Equal(t, int64(150), snapshot.Catalog.Active)
	assert.Equal(t, int64(8), snapshot.Catalog.SoldOut)

	assert.Equal(t, int64(160), snapshot.Listings.Total)
	assert.Equal(t, int64(152), snapshot.Listings.Synced)
	assert.Equal(t, int64(5), snapshot.Listings.Pending)
	assert.Equal(t, int64(3), snapshot.Listings.Failed)
	assert.Equal(t, int64(155), snapshot.Listings.SyncEnabled)

	assert.Equal(t, int64(6), snapshot.Orders.PendingCount())
	assert.Equal(t, int64(7), snapshot.UnreadCount)
}

func TestGetSnapshot_ServesFromCache(t *testing.T) {
	service, orders := newDashboardFixture()

	first, err := service.GetSnapshot(context.Background())
	require.NoError(t, err)
	require.NotNil(t, first)
	callsAfterBuild := orders.salesCalls
	assert.Equal(t, 3, callsAfterBuild)

	second, err := service.GetSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, callsAfterBuild, orders.salesCalls)
	assert.Equal(t, first.Catalog, second.Catalog)
}

func TestRebuild_Broadcasts(t *testing.T) {
	service, _ := newDashboardFixture()
	hub := &captureBroadcaster{}
	service.SetBroadcaster(hub)

	snapshot, err := service.Rebuild(context.Background())
	require.NoError(t, err)

	require.Len(t, hub.snapshots, 1)
	assert.Equal(t, snapshot.UnreadCount, hub.snapshots[0].UnreadCount)
}

func TestInvalidate_ForcesRebuild(t *testing.T) {
	service, orders := newDashboardFixture()

	_, err := service.GetSnapshot(context.Background())
	require.NoError(t, err)
	require.NoError(t, service.Invalidate(context.Background()))

	_, err = service.GetSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, orders.salesCalls)
}
