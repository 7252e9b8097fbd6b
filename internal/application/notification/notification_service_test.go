package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/catalog"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/notification"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/order"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

// fakeNotificationRepo keeps notifications in memory
type fakeNotificationRepo struct {
	rows []*notification.Notification
}

func (r *fakeNotificationRepo) FindByID(_ context.Context, id uuid.UUID) (*notification.Notification, error) {
	for _, n := range r.rows {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeNotificationRepo) FindAll(_ context.Context, _ shared.Filter) ([]notification.Notification, int64, error) {
	out := make([]notification.Notification, 0, len(r.rows))
	for _, n := range r.rows {
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) FindUnread(_ context.Context, _ int) ([]notification.Notification, error) {
	var out []notification.Notification
	for _, n := range r.rows {
		if !n.IsRead() {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context) (int64, error) {
	var count int64
	for _, n := range r.rows {
		if !n.IsRead() {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) Save(_ context.Context, n *notification.Notification) error {
	for i, existing := range r.rows {
		if existing.ID == n.ID {
			r.rows[i] = n
			return nil
		}
	}
	r.rows = append(r.rows, n)
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context) error {
	for _, n := range r.rows {
		n.MarkRead()
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteOlderThan(_ context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	var kept []*notification.Notification
	var deleted int64
	for _, n := range r.rows {
		if n.IsRead() && n.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	r.rows = kept
	return deleted, nil
}

func TestService_MarkReadIsIdempotent(t *testing.T) {
	repo := &fakeNotificationRepo{}
	service := NewService(repo, zap.NewNop())

	n, err := notification.New(notification.KindSoldOut, shared.SeverityMedium, "Product sold out", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), n))

	resp, err := service.MarkRead(context.Background(), n.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.ReadAt)
	firstReadAt := *resp.ReadAt

	resp, err = service.MarkRead(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, firstReadAt, *resp.ReadAt)

	count, err := service.CountUnread(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEventHandler_ProductSoldOut(t *testing.T) {
	repo := &fakeNotificationRepo{}
	handler := NewEventHandler(repo, zap.NewNop())

	productID := uuid.New()
	event := &catalog.ProductSoldOutEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(catalog.EventTypeProductSoldOut, "Product", productID),
		SourceCode:      integration.SourceCodeOwnerClan.String(),
		SourceProductID: "OC-1001",
		Name:            "스테인리스 텀블러 500ml",
	}
	require.NoError(t, handler.Handle(context.Background(), event))

	require.Len(t, repo.rows, 1)
	n := repo.rows[0]
	assert.Equal(t, notification.KindSoldOut, n.Kind)
	assert.Equal(t, shared.SeverityMedium, n.Severity)
	assert.Contains(t, n.Title, "스테인리스 텀블러 500ml")
	require.NotNil(t, n.RefID)
	assert.Equal(t, productID, *n.RefID)
	assert.Equal(t, "Product", n.RefType)
}

func TestEventHandler_CostChanged(t *testing.T) {
	repo := &fakeNotificationRepo{}
	handler := NewEventHandler(repo, zap.NewNop())

	event := &catalog.ProductCostChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(catalog.EventTypeProductCostChanged, "Product", uuid.New()),
		OldCostPrice:    decimal.NewFromInt(8500),
		NewCostPrice:    decimal.NewFromInt(9000),
	}
	require.NoError(t, handler.Handle(context.Background(), event))

	require.Len(t, repo.rows, 1)
	assert.Equal(t, notification.KindPriceChanged, repo.rows[0].Kind)
	assert.Contains(t, repo.rows[0].Message, "8500")
	assert.Contains(t, repo.rows[0].Message, "9000")
}

func TestEventHandler_CancelledForwardedOrderEscalates(t *testing.T) {
	repo := &fakeNotificationRepo{}
	handler := NewEventHandler(repo, zap.NewNop())

	event := &order.OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(order.EventTypeOrderCancelled, "Order", uuid.New()),
		ChannelCode:     "COUPANG",
		ChannelOrderID:  "CP-1",
		Reason:          "고객 변심",
		WasForwarded:    true,
	}
	require.NoError(t, handler.Handle(context.Background(), event))

	require.Len(t, repo.rows, 1)
	assert.Equal(t, shared.SeverityHigh, repo.rows[0].Severity)
	assert.Contains(t, repo.rows[0].Message, "wholesaler purchase")
}

func TestEventHandler_UnknownEventIgnored(t *testing.T) {
	repo := &fakeNotificationRepo{}
	handler := NewEventHandler(repo, zap.NewNop())

	event := &catalog.ProductSalePriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(catalog.EventTypeProductSalePriceChanged, "Product", uuid.New()),
	}
	require.NoError(t, handler.Handle(context.Background(), event))
	assert.Empty(t, repo.rows)
}

func TestEventHandler_RecordCollectFailure(t *testing.T) {
	repo := &fakeNotificationRepo{}
	handler := NewEventHandler(repo, zap.NewNop())

	err := handler.RecordCollectFailure(context.Background(), "OWNERCLAN",
		errors.New("integration: wholesale source authentication failed"))
	require.NoError(t, err)

	require.Len(t, repo.rows, 1)
	assert.Equal(t, notification.KindCollectFailed, repo.rows[0].Kind)
	assert.Equal(t, shared.SeverityHigh, repo.rows[0].Severity)
}

func TestService_Prune(t *testing.T) {
	repo := &fakeNotificationRepo{}
	service := NewService(repo, zap.NewNop())

	old, err := notification.New(notification.KindOrderReceived, shared.SeverityLow, "New order", "")
	require.NoError(t, err)
	old.CreatedAt = time.Now().AddDate(0, 0, -60)
	old.MarkRead()
	require.NoError(t, repo.Save(context.Background(), old))

	fresh, err := notification.New(notification.KindOrderReceived, shared.SeverityLow, "New order", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), fresh))

	deleted, err := service.Prune(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Len(t, repo.rows, 1)
}
