package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

// Repository persists Order aggregates
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByChannelOrder(ctx context.Context, channel integration.ChannelCode, channelOrderID string) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, int64, error)
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]Order, int64, error)
	// FindForwardable returns confirmed orders waiting for a wholesaler purchase
	FindForwardable(ctx context.Context, limit int) ([]Order, error)
	// FindInTransit returns orders forwarded to a wholesaler but not yet shipped
	FindInTransit(ctx context.Context, limit int) ([]Order, error)
	CountByStatus(ctx context.Context) (map[OrderStatus]int64, error)
	// SalesBetween aggregates order count, sale amount, and cost for the
	// dashboard, excluding cancelled orders
	SalesBetween(ctx context.Context, from, to time.Time) (SalesSummary, error)
	Save(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SalesSummary is an aggregate row used by the analytics dashboard
type SalesSummary struct {
	OrderCount  int64           `json:"order_count"`
	ItemCount   int64           `json:"item_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalCost   decimal.Decimal `json:"total_cost"`
}
