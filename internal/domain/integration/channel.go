package integration

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// MarketplaceChannel Errors
// ---------------------------------------------------------------------------

var (
	ErrChannelNotConfigured    = errors.New("integration: marketplace channel not configured")
	ErrChannelNotEnabled       = errors.New("integration: marketplace channel not enabled")
	ErrChannelUnavailable      = errors.New("integration: marketplace channel temporarily unavailable")
	ErrChannelRequestFailed    = errors.New("integration: marketplace channel request failed")
	ErrChannelInvalidResponse  = errors.New("integration: invalid marketplace channel response")
	ErrChannelAuthFailed       = errors.New("integration: marketplace channel authentication failed")
	ErrChannelRateLimited      = errors.New("integration: marketplace channel rate limited")
	ErrChannelInvalidSignature = errors.New("integration: invalid marketplace request signature")

	ErrListingInvalidProductID = errors.New("integration: invalid product ID for listing")
	ErrListingInvalidChannel   = errors.New("integration: invalid channel code for listing")
	ErrListingAlreadyExists    = errors.New("integration: product already listed on channel")
	ErrListingNotFound         = errors.New("integration: product listing not found")

	ErrOrderSyncInvalidWindow  = errors.New("integration: invalid order sync time window")
	ErrOrderSyncOrderNotFound  = errors.New("integration: channel order not found")
	ErrOrderSyncDuplicateOrder = errors.New("integration: channel order already ingested")
)

// ---------------------------------------------------------------------------
// ChannelCode represents a marketplace
// ---------------------------------------------------------------------------

// ChannelCode identifies a marketplace products are sold on
type ChannelCode string

const (
	// ChannelCodeCoupang represents the Coupang marketplace
	ChannelCodeCoupang ChannelCode = "COUPANG"
	// ChannelCodeSmartStore represents Naver SmartStore
	ChannelCodeSmartStore ChannelCode = "SMARTSTORE"
	// ChannelCodeGmarket represents Gmarket
	ChannelCodeGmarket ChannelCode = "GMARKET"
	// ChannelCodeElevenst represents 11st
	ChannelCodeElevenst ChannelCode = "ELEVENST"
)

// IsValid returns true if the channel code is valid
func (c ChannelCode) IsValid() bool {
	switch c {
	case ChannelCodeCoupang, ChannelCodeSmartStore, ChannelCodeGmarket, ChannelCodeElevenst:
		return true
	default:
		return false
	}
}

// String returns the string representation of ChannelCode
func (c ChannelCode) String() string {
	return string(c)
}

// AllChannelCodes returns every known marketplace channel code
func AllChannelCodes() []ChannelCode {
	return []ChannelCode{ChannelCodeCoupang, ChannelCodeSmartStore, ChannelCodeGmarket, ChannelCodeElevenst}
}

// ---------------------------------------------------------------------------
// Sync status
// ---------------------------------------------------------------------------

// SyncStatus represents the outcome of a sync operation
type SyncStatus string

const (
	SyncStatusPending    SyncStatus = "PENDING"
	SyncStatusInProgress SyncStatus = "IN_PROGRESS"
	SyncStatusSuccess    SyncStatus = "SUCCESS"
	SyncStatusPartial    SyncStatus = "PARTIAL"
	SyncStatusFailed     SyncStatus = "FAILED"
)

// String returns the string representation of SyncStatus
func (s SyncStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// Value Objects
// ---------------------------------------------------------------------------

// ListingSync represents a listing to be pushed to a marketplace
type ListingSync struct {
	// ChannelProductID is the existing listing ID on the channel (empty for new)
	ChannelProductID string
	// LocalProductID is our internal product ID
	LocalProductID uuid.UUID
	// ProductName is the listing title
	ProductName string
	// Description is the listing body (HTML allowed by most channels)
	Description string
	// SalePrice is the selling price on the channel
	SalePrice decimal.Decimal
	// ListPrice is the strike-through compare price
	ListPrice decimal.Decimal
	// StockQuantity is the sellable quantity to publish
	StockQuantity int
	// IsOnSale indicates if the listing should be active
	IsOnSale bool
	// ImageURLs contains listing image URLs
	ImageURLs []string
}

// SyncFailure records a single failed item within a sync batch
type SyncFailure struct {
	ItemID       string `json:"item_id"`
	ErrorMessage string `json:"error_message"`
}

// SyncResult represents the result of a batch sync operation
type SyncResult struct {
	Status       SyncStatus    `json:"status"`
	TotalCount   int           `json:"total_count"`
	SuccessCount int           `json:"success_count"`
	FailedCount  int           `json:"failed_count"`
	FailedItems  []SyncFailure `json:"failed_items,omitempty"`
	SyncedAt     time.Time     `json:"synced_at"`
}

// Finalize sets the overall status from the per-item counters
func (r *SyncResult) Finalize() {
	switch {
	case r.FailedCount == 0:
		r.Status = SyncStatusSuccess
	case r.SuccessCount > 0:
		r.Status = SyncStatusPartial
	default:
		r.Status = SyncStatusFailed
	}
}

// ChannelOrderStatus is an order's status on the marketplace
type ChannelOrderStatus string

const (
	ChannelOrderStatusPaid      ChannelOrderStatus = "PAID"
	ChannelOrderStatusPreparing ChannelOrderStatus = "PREPARING"
	ChannelOrderStatusShipped   ChannelOrderStatus = "SHIPPED"
	ChannelOrderStatusDelivered ChannelOrderStatus = "DELIVERED"
	ChannelOrderStatusCancelled ChannelOrderStatus = "CANCELLED"
)

// ChannelOrder represents an order fetched from a marketplace
type ChannelOrder struct {
	// ChannelOrderID is the order ID on the marketplace
	ChannelOrderID string
	// ChannelCode identifies which marketplace this order is from
	ChannelCode ChannelCode
	// Status is the current order status on the marketplace
	Status ChannelOrderStatus
	// BuyerName is the buyer's name
	BuyerName string
	// BuyerPhone is the buyer's phone number
	BuyerPhone string
	// ReceiverName is the recipient's name
	ReceiverName string
	// ReceiverPhone is the recipient's phone number
	ReceiverPhone string
	// ReceiverAddress is the full delivery address
	ReceiverAddress string
	// ReceiverPostalCode is the postal code
	ReceiverPostalCode string
	// TotalAmount is what the buyer paid
	TotalAmount decimal.Decimal
	// ShippingFee is the shipping fee charged to the buyer
	ShippingFee decimal.Decimal
	// Currency is the payment currency (default: KRW)
	Currency string
	// Items contains the order line items
	Items []ChannelOrderItem
	// OrderedAt is when the order was placed on the marketplace
	OrderedAt time.Time
	// PaidAt is when the payment was confirmed
	PaidAt *time.Time
	// RawData is the original marketplace response (JSON)
	RawData string
}

// ChannelOrderItem represents a line item in a channel order
type ChannelOrderItem struct {
	ChannelItemID    string
	ChannelProductID string
	ProductName      string
	OptionName       string
	Quantity         int
	UnitPrice        decimal.Decimal
	TotalPrice       decimal.Decimal
}

// OrderPullRequest represents a request to pull orders from a marketplace
type OrderPullRequest struct {
	ChannelCode ChannelCode
	StartTime   time.Time
	EndTime     time.Time
	Status      *ChannelOrderStatus
	PageNo      int
	PageSize    int
}

// Validate validates the order pull request
func (r *OrderPullRequest) Validate() error {
	if !r.ChannelCode.IsValid() {
		return ErrListingInvalidChannel
	}
	if r.StartTime.IsZero() || r.EndTime.IsZero() || r.StartTime.After(r.EndTime) {
		return ErrOrderSyncInvalidWindow
	}
	if r.PageNo < 1 {
		r.PageNo = 1
	}
	if r.PageSize < 1 || r.PageSize > 100 {
		r.PageSize = 50
	}
	return nil
}

// OrderPullResponse represents the response from pulling orders
type OrderPullResponse struct {
	Orders     []ChannelOrder
	TotalCount int64
	HasMore    bool
	NextPageNo int
}

// ShipmentUpdate notifies the marketplace that an order item shipped
type ShipmentUpdate struct {
	ChannelOrderID string
	TrackingNumber string
	Courier        string
	ShippedAt      time.Time
}

// ---------------------------------------------------------------------------
// MarketplaceChannel Port
// ---------------------------------------------------------------------------

// MarketplaceChannel is the port interface for marketplace adapters.
// Implementations live in the infrastructure layer.
type MarketplaceChannel interface {
	// ChannelCode returns the marketplace this adapter handles
	ChannelCode() ChannelCode

	// IsEnabled returns true if the channel is configured and enabled
	IsEnabled(ctx context.Context) (bool, error)

	// SyncListings pushes listings (price/stock/state) to the marketplace
	SyncListings(ctx context.Context, listings []ListingSync) (*SyncResult, error)

	// GetListing retrieves a listing from the marketplace
	GetListing(ctx context.Context, channelProductID string) (*ListingSync, error)

	// FetchOrders pulls one page of orders from the marketplace
	FetchOrders(ctx context.Context, req OrderPullRequest) (*OrderPullResponse, error)

	// ConfirmShipment reports a tracking number back to the marketplace
	ConfirmShipment(ctx context.Context, update ShipmentUpdate) error
}
