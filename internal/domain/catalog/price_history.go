package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

// PriceChangeReason explains why a price history row was recorded
type PriceChangeReason string

const (
	// PriceReasonCollection means a collection run observed a new cost price
	PriceReasonCollection PriceChangeReason = "collection"
	// PriceReasonPricingRule means a pricing rule recalculated the sale price
	PriceReasonPricingRule PriceChangeReason = "pricing_rule"
	// PriceReasonManual means an operator changed the price by hand
	PriceReasonManual PriceChangeReason = "manual"
)

// PriceHistory is an append-only record of a product's price change
type PriceHistory struct {
	shared.BaseEntity
	ProductID    uuid.UUID         `gorm:"type:uuid;not null;index:idx_price_history_product"`
	OldCostPrice decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	NewCostPrice decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	OldSalePrice decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	NewSalePrice decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Reason       PriceChangeReason `gorm:"type:varchar(20);not null"`
	RecordedAt   time.Time         `gorm:"not null;index:idx_price_history_product"`
}

// TableName returns the table name for GORM
func (PriceHistory) TableName() string {
	return "price_histories"
}

// NewPriceHistory records a price transition for a product
func NewPriceHistory(productID uuid.UUID, oldCost, newCost, oldSale, newSale decimal.Decimal, reason PriceChangeReason) *PriceHistory {
	return &PriceHistory{
		BaseEntity:   shared.NewBaseEntity(),
		ProductID:    productID,
		OldCostPrice: oldCost,
		NewCostPrice: newCost,
		OldSalePrice: oldSale,
		NewSalePrice: newSale,
		Reason:       reason,
		RecordedAt:   time.Now(),
	}
}

// PriceHistoryRepository persists price history rows
type PriceHistoryRepository interface {
	Save(ctx context.Context, history *PriceHistory) error
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]PriceHistory, int64, error)
	FindLatestByProduct(ctx context.Context, productID uuid.UUID) (*PriceHistory, error)
}
