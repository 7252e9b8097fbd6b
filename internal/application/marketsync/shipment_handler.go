package marketsync

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/order"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/resilience"
)

// ShipmentHandler reports tracking numbers back to the originating channel
// when an order ships
type ShipmentHandler struct {
	channels map[integration.ChannelCode]integration.MarketplaceChannel
	logger   *zap.Logger
}

// NewShipmentHandler creates a ShipmentHandler
func NewShipmentHandler(
	channels map[integration.ChannelCode]integration.MarketplaceChannel,
	logger *zap.Logger,
) *ShipmentHandler {
	return &ShipmentHandler{
		channels: channels,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *ShipmentHandler) EventTypes() []string {
	return []string{order.EventTypeOrderShipped}
}

// Handle confirms the shipment on the marketplace the order came from
func (h *ShipmentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	shipped, ok := event.(*order.OrderShippedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %s", event.EventType())
	}

	code := integration.ChannelCode(shipped.ChannelCode)
	channel, ok := h.channels[code]
	if !ok {
		return integration.ErrChannelNotConfigured
	}

	update := integration.ShipmentUpdate{
		ChannelOrderID: shipped.ChannelOrderID,
		TrackingNumber: shipped.TrackingNumber,
		Courier:        shipped.CarrierCode,
		ShippedAt:      shipped.OccurredAt(),
	}

	retryCfg := resilience.DefaultRetryConfig()
	retryCfg.Logger = h.logger
	err := resilience.Retry(ctx, retryCfg, "confirm_shipment", func(ctx context.Context) error {
		confirmErr := channel.ConfirmShipment(ctx, update)
		if errors.Is(confirmErr, integration.ErrChannelAuthFailed) {
			return resilience.PermanentError(confirmErr)
		}
		return confirmErr
	})
	if err != nil {
		h.logger.Error("Failed to confirm shipment on channel",
			zap.String("channel", shipped.ChannelCode),
			zap.String("channel_order_id", shipped.ChannelOrderID),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("Shipment confirmed on channel",
		zap.String("channel", shipped.ChannelCode),
		zap.String("channel_order_id", shipped.ChannelOrderID),
		zap.String("tracking_number", shipped.TrackingNumber),
	)
	return nil
}
