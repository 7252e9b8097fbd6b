// Package order drives marketplace orders through the dropshipping
// pipeline: pulled from a channel, reviewed, forwarded to a wholesaler,
// and tracked until delivery.
package order

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/order"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

// OrderService handles order queries and manual pipeline transitions
type OrderService struct {
	orders order.Repository
	events shared.EventPublisher
	logger *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orders order.Repository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders: orders,
		events: events,
		logger: logger,
	}
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// GetByChannelOrder retrieves an order by its marketplace order number
func (s *OrderService) GetByChannelOrder(ctx context.Context, channel integration.ChannelCode, channelOrderID string) (*OrderResponse, error) {
	o, err := s.orders.FindByChannelOrder(ctx, channel, channelOrderID)
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderListResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search

	if filter.ChannelCode != "" {
		domainFilter.Filters["channel_code"] = filter.ChannelCode
	}

	var (
		orders []order.Order
		total  int64
		err    error
	)
	if filter.Status != "" {
		orders, total, err = s.orders.FindByStatus(ctx, order.OrderStatus(filter.Status), domainFilter)
	} else {
		orders, total, err = s.orders.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	return ToOrderListResponses(orders), total, nil
}

// Confirm approves a received order for forwarding
func (s *OrderService) Confirm(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(o *order.Order) error {
		return o.Confirm()
	})
}

// Cancel cancels an order that has not shipped yet
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(o *order.Order) error {
		return o.Cancel(req.Reason)
	})
}

// MarkShipped records a carrier and tracking number manually
func (s *OrderService) MarkShipped(ctx context.Context, orderID uuid.UUID, req MarkShippedRequest) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(o *order.Order) error {
		return o.MarkShipped(req.CarrierCode, req.TrackingNumber)
	})
}

// MarkDelivered completes a shipped order
func (s *OrderService) MarkDelivered(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(o *order.Order) error {
		return o.MarkDelivered()
	})
}

func (s *OrderService) transition(ctx context.Context, orderID uuid.UUID, fn func(*order.Order) error) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := fn(o); err != nil {
		return nil, err
	}

	if err := s.save(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// CountByStatus returns order counts by pipeline status
func (s *OrderService) CountByStatus(ctx context.Context) (*OrderCountsResponse, error) {
	counts, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	response := &OrderCountsResponse{
		Received:        counts[order.OrderStatusReceived],
		Confirmed:       counts[order.OrderStatusConfirmed],
		SupplierOrdered: counts[order.OrderStatusSupplierOrdered],
		Shipped:         counts[order.OrderStatusShipped],
		Delivered:       counts[order.OrderStatusDelivered],
		Cancelled:       counts[order.OrderStatusCancelled],
	}
	response.Total = response.Received + response.Confirmed + response.SupplierOrdered +
		response.Shipped + response.Delivered + response.Cancelled

	return response, nil
}

// save persists the aggregate and publishes its pending events
func (s *OrderService) save(ctx context.Context, o *order.Order) error {
	if err := s.orders.Save(ctx, o); err != nil {
		return err
	}

	events := o.GetDomainEvents()
	o.ClearDomainEvents()
	if len(events) > 0 && s.events != nil {
		if err := s.events.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish order events", zap.Error(err))
		}
	}
	return nil
}
