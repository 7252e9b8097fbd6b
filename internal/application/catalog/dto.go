package catalog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/catalog"
)

// ============================================================================
// Request DTOs
// ============================================================================

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search     string `form:"search"`
	Status     string `form:"status" binding:"omitempty,oneof=draft active paused delisted"`
	SourceCode string `form:"source_code" binding:"omitempty,oneof=OWNERCLAN DOMEGGOOK ZENTRADE"`
	SoldOut    *bool  `form:"sold_out"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SetSalePriceRequest represents a manual sale price change
type SetSalePriceRequest struct {
	SalePrice decimal.Decimal `json:"sale_price" binding:"required"`
}

// RepriceRequest overrides the pricing rule for one recalculation.
// All fields are optional; omitted fields fall back to the default rule.
type RepriceRequest struct {
	MarginRate      *float64 `json:"margin_rate" binding:"omitempty,gte=0"`
	MinMargin       *int64   `json:"min_margin" binding:"omitempty,gte=0"`
	IncludeShipping *bool    `json:"include_shipping"`
	RoundTo         *int64   `json:"round_to" binding:"omitempty,gte=0"`
}

// ToPricingRule builds the effective rule from the request overrides
func (r RepriceRequest) ToPricingRule() catalog.PricingRule {
	rule := catalog.DefaultPricingRule()
	if r.MarginRate != nil {
		rule.MarginRate = decimal.NewFromFloat(*r.MarginRate)
	}
	if r.MinMargin != nil {
		rule.MinMargin = decimal.NewFromInt(*r.MinMargin)
	}
	if r.IncludeShipping != nil {
		rule.IncludeShipping = *r.IncludeShipping
	}
	if r.RoundTo != nil {
		rule.RoundTo = decimal.NewFromInt(*r.RoundTo)
	}
	return rule
}

// PriceHistoryFilter represents filter options for a product's price history
type PriceHistoryFilter struct {
	Reason   string `form:"reason" binding:"omitempty,oneof=collection pricing_rule manual"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ============================================================================
// Response DTOs
// ============================================================================

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID              uuid.UUID       `json:"id"`
	SourceCode      string          `json:"source_code"`
	SourceProductID string          `json:"source_product_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	CategoryName    string          `json:"category_name,omitempty"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	SalePrice       decimal.Decimal `json:"sale_price"`
	ShippingFee     decimal.Decimal `json:"shipping_fee"`
	Margin          decimal.Decimal `json:"margin"`
	MarginRate      decimal.Decimal `json:"margin_rate"`
	StockQuantity   int             `json:"stock_quantity"`
	ImageURLs       []string        `json:"image_urls"`
	Status          string          `json:"status"`
	SoldOut         bool            `json:"sold_out"`
	LastCollectedAt *time.Time      `json:"last_collected_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// ProductListResponse represents a product row in list responses
type ProductListResponse struct {
	ID              uuid.UUID       `json:"id"`
	SourceCode      string          `json:"source_code"`
	SourceProductID string          `json:"source_product_id"`
	Name            string          `json:"name"`
	CategoryName    string          `json:"category_name,omitempty"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	SalePrice       decimal.Decimal `json:"sale_price"`
	StockQuantity   int             `json:"stock_quantity"`
	Status          string          `json:"status"`
	SoldOut         bool            `json:"sold_out"`
	LastCollectedAt *time.Time      `json:"last_collected_at,omitempty"`
}

// PriceHistoryResponse represents one price change record
type PriceHistoryResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	OldCostPrice decimal.Decimal `json:"old_cost_price"`
	NewCostPrice decimal.Decimal `json:"new_cost_price"`
	OldSalePrice decimal.Decimal `json:"old_sale_price"`
	NewSalePrice decimal.Decimal `json:"new_sale_price"`
	Reason       string          `json:"reason"`
	RecordedAt   time.Time       `json:"recorded_at"`
}

// ProductCountsResponse represents product counts by lifecycle status
type ProductCountsResponse struct {
	Total    int64 `json:"total"`
	Draft    int64 `json:"draft"`
	Active   int64 `json:"active"`
	Paused   int64 `json:"paused"`
	Delisted int64 `json:"delisted"`
}

// ============================================================================
// Conversion Functions
// ============================================================================

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		SourceCode:      p.SourceCode.String(),
		SourceProductID: p.SourceProductID,
		Name:            p.Name,
		Description:     p.Description,
		CategoryName:    p.CategoryName,
		CostPrice:       p.CostPrice,
		SalePrice:       p.SalePrice,
		ShippingFee:     p.ShippingFee,
		Margin:          p.Margin(),
		MarginRate:      p.MarginRate().Round(4),
		StockQuantity:   p.StockQuantity,
		ImageURLs:       parseImageURLs(p.ImageURLs),
		Status:          string(p.Status),
		SoldOut:         p.SoldOut,
		LastCollectedAt: p.LastCollectedAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		Version:         p.Version,
	}
}

// ToProductListResponses converts domain Products to list responses
func ToProductListResponses(products []catalog.Product) []ProductListResponse {
	responses := make([]ProductListResponse, len(products))
	for i := range products {
		p := &products[i]
		responses[i] = ProductListResponse{
			ID:              p.ID,
			SourceCode:      p.SourceCode.String(),
			SourceProductID: p.SourceProductID,
			Name:            p.Name,
			CategoryName:    p.CategoryName,
			CostPrice:       p.CostPrice,
			SalePrice:       p.SalePrice,
			StockQuantity:   p.StockQuantity,
			Status:          string(p.Status),
			SoldOut:         p.SoldOut,
			LastCollectedAt: p.LastCollectedAt,
		}
	}
	return responses
}

// ToPriceHistoryResponses converts price history rows to responses
func ToPriceHistoryResponses(rows []catalog.PriceHistory) []PriceHistoryResponse {
	responses := make([]PriceHistoryResponse, len(rows))
	for i, h := range rows {
		responses[i] = PriceHistoryResponse{
			ID:           h.ID,
			ProductID:    h.ProductID,
			OldCostPrice: h.OldCostPrice,
			NewCostPrice: h.NewCostPrice,
			OldSalePrice: h.OldSalePrice,
			NewSalePrice: h.NewSalePrice,
			Reason:       string(h.Reason),
			RecordedAt:   h.RecordedAt,
		}
	}
	return responses
}

// parseImageURLs decodes the stored JSON array, returning an empty slice on
// malformed data
func parseImageURLs(urlsJSON string) []string {
	if urlsJSON == "" {
		return []string{}
	}
	var urls []string
	if err := json.Unmarshal([]byte(urlsJSON), &urls); err != nil {
		return []string{}
	}
	return urls
}
