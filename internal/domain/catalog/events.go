package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

// Event type constants for the catalog context
const (
	EventTypeProductCollected        = "catalog.product.collected"
	EventTypeProductCostChanged      = "catalog.product.cost_changed"
	EventTypeProductSalePriceChanged = "catalog.product.sale_price_changed"
	EventTypeProductStatusChanged    = "catalog.product.status_changed"
	EventTypeProductSoldOut          = "catalog.product.sold_out"
)

const aggregateTypeProduct = "Product"

// ProductCollectedEvent is published when a product is first collected
type ProductCollectedEvent struct {
	shared.BaseDomainEvent
	SourceCode      string          `json:"source_code"`
	SourceProductID string          `json:"source_product_id"`
	Name            string          `json:"name"`
	CostPrice       decimal.Decimal `json:"cost_price"`
}

// NewProductCollectedEvent creates a ProductCollectedEvent
func NewProductCollectedEvent(p *Product) *ProductCollectedEvent {
	return &ProductCollectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCollected, aggregateTypeProduct, p.ID),
		SourceCode:      p.SourceCode.String(),
		SourceProductID: p.SourceProductID,
		Name:            p.Name,
		CostPrice:       p.CostPrice,
	}
}

// ProductCostChangedEvent is published when a collection run changes the cost price
type ProductCostChangedEvent struct {
	shared.BaseDomainEvent
	OldCostPrice decimal.Decimal `json:"old_cost_price"`
	NewCostPrice decimal.Decimal `json:"new_cost_price"`
}

// NewProductCostChangedEvent creates a ProductCostChangedEvent
func NewProductCostChangedEvent(p *Product, oldCost decimal.Decimal) *ProductCostChangedEvent {
	return &ProductCostChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCostChanged, aggregateTypeProduct, p.ID),
		OldCostPrice:    oldCost,
		NewCostPrice:    p.CostPrice,
	}
}

// ProductSalePriceChangedEvent is published when the sale price changes
type ProductSalePriceChangedEvent struct {
	shared.BaseDomainEvent
	OldSalePrice decimal.Decimal `json:"old_sale_price"`
	NewSalePrice decimal.Decimal `json:"new_sale_price"`
}

// NewProductSalePriceChangedEvent creates a ProductSalePriceChangedEvent
func NewProductSalePriceChangedEvent(p *Product, oldPrice decimal.Decimal) *ProductSalePriceChangedEvent {
	return &ProductSalePriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductSalePriceChanged, aggregateTypeProduct, p.ID),
		OldSalePrice:    oldPrice,
		NewSalePrice:    p.SalePrice,
	}
}

// ProductStatusChangedEvent is published on any lifecycle transition
type ProductStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus ProductStatus `json:"old_status"`
	NewStatus ProductStatus `json:"new_status"`
}

// NewProductStatusChangedEvent creates a ProductStatusChangedEvent
func NewProductStatusChangedEvent(p *Product, oldStatus ProductStatus) *ProductStatusChangedEvent {
	return &ProductStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStatusChanged, aggregateTypeProduct, p.ID),
		OldStatus:       oldStatus,
		NewStatus:       p.Status,
	}
}

// ProductSoldOutEvent is published when the wholesaler marks a product sold out
type ProductSoldOutEvent struct {
	shared.BaseDomainEvent
	SourceCode      string `json:"source_code"`
	SourceProductID string `json:"source_product_id"`
	Name            string `json:"name"`
}

// NewProductSoldOutEvent creates a ProductSoldOutEvent
func NewProductSoldOutEvent(p *Product) *ProductSoldOutEvent {
	return &ProductSoldOutEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductSoldOut, aggregateTypeProduct, p.ID),
		SourceCode:      p.SourceCode.String(),
		SourceProductID: p.SourceProductID,
		Name:            p.Name,
	}
}
