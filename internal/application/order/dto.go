package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/order"
)

// ============================================================================
// Request DTOs
// ============================================================================

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search      string `form:"search"`
	Status      string `form:"status" binding:"omitempty,oneof=RECEIVED CONFIRMED SUPPLIER_ORDERED SHIPPED DELIVERED CANCELLED"`
	ChannelCode string `form:"channel_code" binding:"omitempty,oneof=COUPANG SMARTSTORE GMARKET ELEVENST"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CancelOrderRequest carries the cancellation reason
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=300"`
}

// MarkShippedRequest records the shipment manually when tracking refresh
// has not picked it up yet
type MarkShippedRequest struct {
	CarrierCode    string `json:"carrier_code" binding:"required,max=30"`
	TrackingNumber string `json:"tracking_number" binding:"required,max=100"`
}

// ============================================================================
// Response DTOs
// ============================================================================

// OrderItemResponse represents an order line item in API responses
type OrderItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	ChannelItemID string          `json:"channel_item_id,omitempty"`
	ProductName   string          `json:"product_name"`
	OptionName    string          `json:"option_name,omitempty"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Amount        decimal.Decimal `json:"amount"`
	CostPrice     decimal.Decimal `json:"cost_price"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	ChannelCode     string              `json:"channel_code"`
	ChannelOrderID  string              `json:"channel_order_id"`
	Status          string              `json:"status"`
	OrderedAt       time.Time           `json:"ordered_at"`
	BuyerName       string              `json:"buyer_name"`
	ReceiverName    string              `json:"receiver_name"`
	ReceiverPhone   string              `json:"receiver_phone,omitempty"`
	ReceiverZip     string              `json:"receiver_zip,omitempty"`
	ReceiverAddr    string              `json:"receiver_addr"`
	DeliveryMemo    string              `json:"delivery_memo,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	TotalCost       decimal.Decimal     `json:"total_cost"`
	ShippingFee     decimal.Decimal     `json:"shipping_fee"`
	Margin          decimal.Decimal     `json:"margin"`
	SupplierSource  string              `json:"supplier_source,omitempty"`
	SupplierOrderID string              `json:"supplier_order_id,omitempty"`
	CarrierCode     string              `json:"carrier_code,omitempty"`
	TrackingNumber  string              `json:"tracking_number,omitempty"`
	ConfirmedAt     *time.Time          `json:"confirmed_at,omitempty"`
	ForwardedAt     *time.Time          `json:"forwarded_at,omitempty"`
	ShippedAt       *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderListResponse represents an order row in list responses
type OrderListResponse struct {
	ID             uuid.UUID       `json:"id"`
	ChannelCode    string          `json:"channel_code"`
	ChannelOrderID string          `json:"channel_order_id"`
	Status         string          `json:"status"`
	OrderedAt      time.Time       `json:"ordered_at"`
	BuyerName      string          `json:"buyer_name"`
	ItemCount      int             `json:"item_count"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TrackingNumber string          `json:"tracking_number,omitempty"`
}

// OrderCountsResponse represents order counts by pipeline status
type OrderCountsResponse struct {
	Total           int64 `json:"total"`
	Received        int64 `json:"received"`
	Confirmed       int64 `json:"confirmed"`
	SupplierOrdered int64 `json:"supplier_ordered"`
	Shipped         int64 `json:"shipped"`
	Delivered       int64 `json:"delivered"`
	Cancelled       int64 `json:"cancelled"`
}

// PullRunResponse summarizes one order pull run against a channel
type PullRunResponse struct {
	ChannelCode string        `json:"channel_code"`
	Pages       int           `json:"pages"`
	Fetched     int           `json:"fetched"`
	Ingested    int           `json:"ingested"`
	Duplicates  int           `json:"duplicates"`
	Failed      int           `json:"failed"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
}

// ForwardRunResponse summarizes one order forwarding run
type ForwardRunResponse struct {
	Eligible  int           `json:"eligible"`
	Forwarded int           `json:"forwarded"`
	Failed    int           `json:"failed"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// TrackingRunResponse summarizes one tracking refresh run
type TrackingRunResponse struct {
	Checked   int           `json:"checked"`
	Shipped   int           `json:"shipped"`
	Failed    int           `json:"failed"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// ============================================================================
// Conversion Functions
// ============================================================================

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:            item.ID,
			ProductID:     item.ProductID,
			ChannelItemID: item.ChannelItemID,
			ProductName:   item.ProductName,
			OptionName:    item.OptionName,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			Amount:        item.Amount,
			CostPrice:     item.CostPrice,
		}
	}

	return OrderResponse{
		ID:              o.ID,
		ChannelCode:     o.ChannelCode.String(),
		ChannelOrderID:  o.ChannelOrderID,
		Status:          o.Status.String(),
		OrderedAt:       o.OrderedAt,
		BuyerName:       o.BuyerName,
		ReceiverName:    o.ReceiverName,
		ReceiverPhone:   o.ReceiverPhone,
		ReceiverZip:     o.ReceiverZip,
		ReceiverAddr:    o.ReceiverAddr,
		DeliveryMemo:    o.DeliveryMemo,
		Items:           items,
		TotalAmount:     o.TotalAmount,
		TotalCost:       o.TotalCost,
		ShippingFee:     o.ShippingFee,
		Margin:          o.Margin(),
		SupplierSource:  o.SupplierSource.String(),
		SupplierOrderID: o.SupplierOrderID,
		CarrierCode:     o.CarrierCode,
		TrackingNumber:  o.TrackingNumber,
		ConfirmedAt:     o.ConfirmedAt,
		ForwardedAt:     o.ForwardedAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		CancelReason:    o.CancelReason,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// ToOrderListResponses converts domain Orders to list responses
func ToOrderListResponses(orders []order.Order) []OrderListResponse {
	responses := make([]OrderListResponse, len(orders))
	for i := range orders {
		o := &orders[i]
		responses[i] = OrderListResponse{
			ID:             o.ID,
			ChannelCode:    o.ChannelCode.String(),
			ChannelOrderID: o.ChannelOrderID,
			Status:         o.Status.String(),
			OrderedAt:      o.OrderedAt,
			BuyerName:      o.BuyerName,
			ItemCount:      o.ItemCount(),
			TotalAmount:    o.TotalAmount,
			TrackingNumber: o.TrackingNumber,
		}
	}
	return responses
}
