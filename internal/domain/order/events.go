package order

import (
	"github.com/shopspring/decimal"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

// Event type constants for the order context
const (
	EventTypeOrderReceived  = "order.received"
	EventTypeOrderConfirmed = "order.confirmed"
	EventTypeOrderForwarded = "order.forwarded"
	EventTypeOrderShipped   = "order.shipped"
	EventTypeOrderDelivered = "order.delivered"
	EventTypeOrderCancelled = "order.cancelled"
)

const aggregateTypeOrder = "Order"

// OrderReceivedEvent is published when an order is ingested from a channel
type OrderReceivedEvent struct {
	shared.BaseDomainEvent
	ChannelCode    string `json:"channel_code"`
	ChannelOrderID string `json:"channel_order_id"`
	BuyerName      string `json:"buyer_name"`
}

// NewOrderReceivedEvent creates an OrderReceivedEvent
func NewOrderReceivedEvent(o *Order) *OrderReceivedEvent {
	return &OrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderReceived, aggregateTypeOrder, o.ID),
		ChannelCode:     o.ChannelCode.String(),
		ChannelOrderID:  o.ChannelOrderID,
		BuyerName:       o.BuyerName,
	}
}

// OrderConfirmedEvent is published when an order passes review.
// The order service reacts to it by placing the wholesaler purchase.
type OrderConfirmedEvent struct {
	shared.BaseDomainEvent
	ChannelCode    string          `json:"channel_code"`
	ChannelOrderID string          `json:"channel_order_id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	ItemCount      int             `json:"item_count"`
}

// NewOrderConfirmedEvent creates an OrderConfirmedEvent
func NewOrderConfirmedEvent(o *Order) *OrderConfirmedEvent {
	return &OrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderConfirmed, aggregateTypeOrder, o.ID),
		ChannelCode:     o.ChannelCode.String(),
		ChannelOrderID:  o.ChannelOrderID,
		TotalAmount:     o.TotalAmount,
		ItemCount:       len(o.Items),
	}
}

// OrderForwardedEvent is published when the wholesaler purchase is placed
type OrderForwardedEvent struct {
	shared.BaseDomainEvent
	ChannelOrderID  string `json:"channel_order_id"`
	SupplierSource  string `json:"supplier_source"`
	SupplierOrderID string `json:"supplier_order_id"`
}

// NewOrderForwardedEvent creates an OrderForwardedEvent
func NewOrderForwardedEvent(o *Order) *OrderForwardedEvent {
	return &OrderForwardedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderForwarded, aggregateTypeOrder, o.ID),
		ChannelOrderID:  o.ChannelOrderID,
		SupplierSource:  o.SupplierSource.String(),
		SupplierOrderID: o.SupplierOrderID,
	}
}

// OrderShippedEvent is published when a tracking number is recorded.
// The sync service reacts to it by confirming shipment on the channel.
type OrderShippedEvent struct {
	shared.BaseDomainEvent
	ChannelCode    string `json:"channel_code"`
	ChannelOrderID string `json:"channel_order_id"`
	CarrierCode    string `json:"carrier_code"`
	TrackingNumber string `json:"tracking_number"`
}

// NewOrderShippedEvent creates an OrderShippedEvent
func NewOrderShippedEvent(o *Order) *OrderShippedEvent {
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderShipped, aggregateTypeOrder, o.ID),
		ChannelCode:     o.ChannelCode.String(),
		ChannelOrderID:  o.ChannelOrderID,
		CarrierCode:     o.CarrierCode,
		TrackingNumber:  o.TrackingNumber,
	}
}

// OrderDeliveredEvent is published when delivery is confirmed
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	ChannelOrderID string          `json:"channel_order_id"`
	Margin         decimal.Decimal `json:"margin"`
}

// NewOrderDeliveredEvent creates an OrderDeliveredEvent
func NewOrderDeliveredEvent(o *Order) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, aggregateTypeOrder, o.ID),
		ChannelOrderID:  o.ChannelOrderID,
		Margin:          o.Margin(),
	}
}

// OrderCancelledEvent is published when an order is cancelled.
// WasForwarded tells subscribers that the wholesaler purchase also needs
// cancelling.
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	ChannelCode    string `json:"channel_code"`
	ChannelOrderID string `json:"channel_order_id"`
	Reason         string `json:"reason"`
	WasForwarded   bool   `json:"was_forwarded"`
}

// NewOrderCancelledEvent creates an OrderCancelledEvent
func NewOrderCancelledEvent(o *Order, wasForwarded bool) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, aggregateTypeOrder, o.ID),
		ChannelCode:     o.ChannelCode.String(),
		ChannelOrderID:  o.ChannelOrderID,
		Reason:          o.CancelReason,
		WasForwarded:    wasForwarded,
	}
}
