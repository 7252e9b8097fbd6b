package integration

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// WholesaleSource Errors
// ---------------------------------------------------------------------------

var (
	ErrSourceNotConfigured   = errors.New("integration: wholesale source not configured")
	ErrSourceNotEnabled      = errors.New("integration: wholesale source not enabled")
	ErrSourceUnavailable     = errors.New("integration: wholesale source temporarily unavailable")
	ErrSourceRequestFailed   = errors.New("integration: wholesale source request failed")
	ErrSourceInvalidResponse = errors.New("integration: invalid wholesale source response")
	ErrSourceAuthFailed      = errors.New("integration: wholesale source authentication failed")
	ErrSourceTokenExpired    = errors.New("integration: wholesale source token expired")
	ErrSourceRateLimited     = errors.New("integration: wholesale source rate limited")
	ErrSourceProductNotFound = errors.New("integration: wholesale source product not found")
	ErrSourceOutOfStock      = errors.New("integration: wholesale source product out of stock")
)

// ---------------------------------------------------------------------------
// SourceCode represents a wholesaler platform
// ---------------------------------------------------------------------------

// SourceCode identifies a wholesaler platform products are collected from
type SourceCode string

const (
	// SourceCodeOwnerClan represents the OwnerClan wholesale platform
	SourceCodeOwnerClan SourceCode = "OWNERCLAN"
	// SourceCodeDomeggook represents the Domeggook wholesale platform
	SourceCodeDomeggook SourceCode = "DOMEGGOOK"
	// SourceCodeZentrade represents the Zentrade wholesale platform
	SourceCodeZentrade SourceCode = "ZENTRADE"
)

// IsValid returns true if the source code is valid
func (c SourceCode) IsValid() bool {
	switch c {
	case SourceCodeOwnerClan, SourceCodeDomeggook, SourceCodeZentrade:
		return true
	default:
		return false
	}
}

// String returns the string representation of SourceCode
func (c SourceCode) String() string {
	return string(c)
}

// ---------------------------------------------------------------------------
// Value Objects
// ---------------------------------------------------------------------------

// SourceProduct represents a product as published by a wholesaler
type SourceProduct struct {
	// SourceProductID is the product ID on the wholesaler platform
	SourceProductID string
	// SourceCode identifies which wholesaler this product came from
	SourceCode SourceCode
	// Name is the product name as published by the wholesaler
	Name string
	// Description is the product description (may contain HTML)
	Description string
	// CategoryName is the wholesaler's category path
	CategoryName string
	// CostPrice is the wholesale (purchase) price
	CostPrice decimal.Decimal
	// SuggestedPrice is the wholesaler's suggested retail price (optional)
	SuggestedPrice decimal.Decimal
	// StockQuantity is the available wholesale stock
	StockQuantity int
	// ShippingFee is the per-order shipping fee charged by the wholesaler
	ShippingFee decimal.Decimal
	// ImageURLs contains product image URLs hosted by the wholesaler
	ImageURLs []string
	// Options contains option variants (e.g. color/size)
	Options []SourceProductOption
	// IsSoldOut indicates the wholesaler marked the product sold out
	IsSoldOut bool
	// UpdatedAt is when the wholesaler last modified the product
	UpdatedAt time.Time
	// RawData is the original platform response (JSON)
	RawData string
}

// SourceProductOption represents an option variant of a wholesale product
type SourceProductOption struct {
	OptionID   string
	Name       string
	PriceDelta decimal.Decimal
	Stock      int
}

// ProductPullRequest represents a request to pull products from a wholesaler
type ProductPullRequest struct {
	// SourceCode specifies which wholesaler to pull from
	SourceCode SourceCode
	// UpdatedSince limits results to products modified after this time (optional)
	UpdatedSince *time.Time
	// PageNo is the page number (1-indexed)
	PageNo int
	// PageSize is the number of products per page
	PageSize int
}

// Validate validates the product pull request
func (r *ProductPullRequest) Validate() error {
	if !r.SourceCode.IsValid() {
		return ErrSourceNotConfigured
	}
	if r.PageNo < 1 {
		r.PageNo = 1
	}
	if r.PageSize < 1 || r.PageSize > 200 {
		r.PageSize = 100
	}
	return nil
}

// ProductPullResponse represents one page of pulled wholesale products
type ProductPullResponse struct {
	Products   []SourceProduct
	TotalCount int64
	HasMore    bool
	NextPageNo int
}

// SupplierOrderRequest represents an order to place with a wholesaler
type SupplierOrderRequest struct {
	// SourceProductID is the product ID on the wholesaler platform
	SourceProductID string
	// OptionID is the selected option variant (optional)
	OptionID string
	// Quantity is the order quantity
	Quantity int
	// ReceiverName is the end customer's name
	ReceiverName string
	// ReceiverPhone is the end customer's phone number
	ReceiverPhone string
	// ReceiverAddress is the full delivery address
	ReceiverAddress string
	// ReceiverPostalCode is the postal code
	ReceiverPostalCode string
	// Memo is the delivery note forwarded to the wholesaler
	Memo string
}

// SupplierOrderResult is the wholesaler's response to a placed order
type SupplierOrderResult struct {
	// SupplierOrderID is the order ID assigned by the wholesaler
	SupplierOrderID string
	// TrackingNumber is the shipment tracking number (set once shipped)
	TrackingNumber string
	// Courier is the courier company code
	Courier string
	// OrderedAt is when the wholesaler accepted the order
	OrderedAt time.Time
}

// ---------------------------------------------------------------------------
// WholesaleSource Port
// ---------------------------------------------------------------------------

// WholesaleSource is the port interface for wholesaler platform adapters.
// Implementations live in the infrastructure layer.
type WholesaleSource interface {
	// SourceCode returns the wholesaler platform this adapter handles
	SourceCode() SourceCode

	// IsEnabled returns true if the source is configured and enabled
	IsEnabled(ctx context.Context) (bool, error)

	// FetchProducts pulls one page of products from the wholesaler
	FetchProducts(ctx context.Context, req ProductPullRequest) (*ProductPullResponse, error)

	// GetProduct retrieves a single product by its wholesaler ID
	GetProduct(ctx context.Context, sourceProductID string) (*SourceProduct, error)

	// GetStock retrieves the current stock for a product
	GetStock(ctx context.Context, sourceProductID string) (int, error)

	// PlaceOrder places a dropship order with the wholesaler
	PlaceOrder(ctx context.Context, req SupplierOrderRequest) (*SupplierOrderResult, error)

	// GetOrderStatus retrieves the shipping state of a placed order
	GetOrderStatus(ctx context.Context, supplierOrderID string) (*SupplierOrderResult, error)
}
