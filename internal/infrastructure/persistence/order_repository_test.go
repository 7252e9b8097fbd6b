package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/order"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

func newTestOrder(t *testing.T, channelOrderID string, orderedAt time.Time) *order.Order {
	t.Helper()

	o, err := order.NewOrder(integration.ChannelCodeCoupang, channelOrderID, orderedAt,
		"이구매", "김수령", "서울시 송파구 올림픽로 300 1205호")
	require.NoError(t, err)

	_, err = o.AddItem(uuid.New(), "ITEM-1", "스테인리스 텀블러 500ml", "실버", 2,
		decimal.NewFromInt(12900), decimal.NewFromInt(8500))
	require.NoError(t, err)

	return o
}

func TestGormOrderRepository_SaveAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	o := newTestOrder(t, "2026011512345", time.Now().Add(-time.Hour))
	require.NoError(t, repo.Save(ctx, o))

	t.Run("find by ID loads items", func(t *testing.T) {
		found, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)
		require.Len(t, found.Items, 1)
		assert.Equal(t, "스테인리스 텀블러 500ml", found.Items[0].ProductName)
		assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(25800)))
	})

	t.Run("find by channel identity", func(t *testing.T) {
		found, err := repo.FindByChannelOrder(ctx, integration.ChannelCodeCoupang, "2026011512345")
		require.NoError(t, err)
		assert.Equal(t, o.ID, found.ID)

		_, err = repo.FindByChannelOrder(ctx, integration.ChannelCodeSmartStore, "2026011512345")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("status change round trips", func(t *testing.T) {
		require.NoError(t, o.Confirm())
		require.NoError(t, repo.Save(ctx, o))

		found, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.OrderStatusConfirmed, found.Status)
		assert.NotNil(t, found.ConfirmedAt)
	})
}

func TestGormOrderRepository_PipelineQueries(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	older := newTestOrder(t, "ORD-1", time.Now().Add(-2*time.Hour))
	require.NoError(t, older.Confirm())
	require.NoError(t, repo.Save(ctx, older))

	newer := newTestOrder(t, "ORD-2", time.Now().Add(-time.Hour))
	require.NoError(t, newer.Confirm())
	require.NoError(t, repo.Save(ctx, newer))

	forwarded := newTestOrder(t, "ORD-3", time.Now().Add(-30*time.Minute))
	require.NoError(t, forwarded.Confirm())
	require.NoError(t, forwarded.MarkSupplierOrdered(integration.SourceCodeOwnerClan, "SO-100"))
	require.NoError(t, repo.Save(ctx, forwarded))

	received := newTestOrder(t, "ORD-4", time.Now())
	require.NoError(t, repo.Save(ctx, received))

	t.Run("forwardable returns confirmed orders oldest first", func(t *testing.T) {
		orders, err := repo.FindForwardable(ctx, 10)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, "ORD-1", orders[0].ChannelOrderID)
		assert.Equal(t, "ORD-2", orders[1].ChannelOrderID)
		require.Len(t, orders[0].Items, 1)
	})

	t.Run("in transit returns supplier ordered orders", func(t *testing.T) {
		orders, err := repo.FindInTransit(ctx, 10)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "ORD-3", orders[0].ChannelOrderID)
		assert.Equal(t, "SO-100", orders[0].SupplierOrderID)
	})

	t.Run("count by status", func(t *testing.T) {
		counts, err := repo.CountByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), counts[order.OrderStatusReceived])
		assert.Equal(t, int64(2), counts[order.OrderStatusConfirmed])
		assert.Equal(t, int64(1), counts[order.OrderStatusSupplierOrdered])
	})

	t.Run("find by status with filter", func(t *testing.T) {
		orders, total, err := repo.FindByStatus(ctx, order.OrderStatusConfirmed, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, orders, 2)
	})
}

func TestGormOrderRepository_SalesBetween(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	now := time.Now()

	for i := 1; i <= 3; i++ {
		o := newTestOrder(t, fmt.Sprintf("SALE-%d", i), now.Add(-time.Duration(i)*time.Hour))
		require.NoError(t, repo.Save(ctx, o))
	}

	cancelled := newTestOrder(t, "SALE-CANCELLED", now.Add(-time.Hour))
	require.NoError(t, cancelled.Cancel("구매자 요청"))
	require.NoError(t, repo.Save(ctx, cancelled))

	outside := newTestOrder(t, "SALE-OLD", now.AddDate(0, 0, -3))
	require.NoError(t, repo.Save(ctx, outside))

	summary, err := repo.SalesBetween(ctx, now.AddDate(0, 0, -1), now)
	require.NoError(t, err)

	// 3 orders of 2 items at 12900 each; the cancelled and out-of-window
	// orders are excluded
	assert.Equal(t, int64(3), summary.OrderCount)
	assert.Equal(t, int64(6), summary.ItemCount)
	assert.True(t, summary.TotalAmount.Equal(decimal.NewFromInt(77400)),
		"got %s", summary.TotalAmount)
	assert.True(t, summary.TotalCost.Equal(decimal.NewFromInt(51000)),
		"got %s", summary.TotalCost)
}

func TestGormOrderRepository_SalesBetween_Empty(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)

	summary, err := repo.SalesBetween(context.Background(), time.Now().AddDate(0, 0, -1), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.OrderCount)
	assert.True(t, summary.TotalAmount.IsZero())
}

func TestGormOrderRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	o := newTestOrder(t, "DEL-1", time.Now())
	require.NoError(t, repo.Save(ctx, o))

	require.NoError(t, repo.Delete(ctx, o.ID))

	_, err := repo.FindByID(ctx, o.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var itemCount int64
	require.NoError(t, db.Model(&order.OrderItem{}).Where("order_id = ?", o.ID).Count(&itemCount).Error)
	assert.Equal(t, int64(0), itemCount)

	assert.ErrorIs(t, repo.Delete(ctx, o.ID), shared.ErrNotFound)
}
