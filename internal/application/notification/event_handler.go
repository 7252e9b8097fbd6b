package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/catalog"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/notification"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/order"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

const (
	refTypeProduct = "Product"
	refTypeOrder   = "Order"
)

// EventHandler creates notifications from pipeline events
type EventHandler struct {
	notifications notification.Repository
	logger        *zap.Logger
}

// NewEventHandler creates an EventHandler
func NewEventHandler(notifications notification.Repository, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		notifications: notifications,
		logger:        logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *EventHandler) EventTypes() []string {
	return []string{
		catalog.EventTypeProductSoldOut,
		catalog.EventTypeProductCostChanged,
		order.EventTypeOrderReceived,
		order.EventTypeOrderCancelled,
	}
}

// Handle converts one event into an operator notification
func (h *EventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var (
		n   *notification.Notification
		err error
	)

	switch e := event.(type) {
	case *catalog.ProductSoldOutEvent:
		n, err = notification.New(
			notification.KindSoldOut,
			shared.SeverityMedium,
			fmt.Sprintf("Product sold out: %s", e.Name),
			fmt.Sprintf("%s product %s was marked sold out by the wholesaler. Linked listings pause on the next sync.", e.SourceCode, e.SourceProductID),
		)
		if err == nil {
			n.WithRef(refTypeProduct, e.AggregateID())
		}

	case *catalog.ProductCostChangedEvent:
		n, err = notification.New(
			notification.KindPriceChanged,
			shared.SeverityLow,
			"Cost price changed",
			fmt.Sprintf("Wholesaler cost moved from %s to %s. The sale price was repriced automatically.", e.OldCostPrice, e.NewCostPrice),
		)
		if err == nil {
			n.WithRef(refTypeProduct, e.AggregateID())
		}

	case *order.OrderReceivedEvent:
		n, err = notification.New(
			notification.KindOrderReceived,
			shared.SeverityLow,
			fmt.Sprintf("New order from %s", e.ChannelCode),
			fmt.Sprintf("Order %s by %s is waiting for review.", e.ChannelOrderID, e.BuyerName),
		)
		if err == nil {
			n.WithRef(refTypeOrder, e.AggregateID())
		}

	case *order.OrderCancelledEvent:
		severity := shared.SeverityMedium
		message := fmt.Sprintf("Order %s on %s was cancelled: %s", e.ChannelOrderID, e.ChannelCode, e.Reason)
		if e.WasForwarded {
			severity = shared.SeverityHigh
			message += " The wholesaler purchase needs to be cancelled manually."
		}
		n, err = notification.New(notification.KindOrderCancelled, severity, "Order cancelled", message)
		if err == nil {
			n.WithRef(refTypeOrder, e.AggregateID())
		}

	default:
		h.logger.Warn("Unhandled event type", zap.String("event_type", event.EventType()))
		return nil
	}

	if err != nil {
		return err
	}
	return h.notifications.Save(ctx, n)
}

// RecordCollectFailure notifies the operator that a collection run failed.
// Run failures are reported by the scheduler, not by domain events.
func (h *EventHandler) RecordCollectFailure(ctx context.Context, source string, runErr error) error {
	n, err := notification.New(
		notification.KindCollectFailed,
		shared.SeverityHigh,
		fmt.Sprintf("Collection failed for %s", source),
		runErr.Error(),
	)
	if err != nil {
		return err
	}
	return h.notifications.Save(ctx, n)
}

// RecordSyncFailure notifies the operator that a listing sync run had failures
func (h *EventHandler) RecordSyncFailure(ctx context.Context, channel string, failed int) error {
	n, err := notification.New(
		notification.KindSyncFailed,
		shared.SeverityMedium,
		fmt.Sprintf("Listing sync failures on %s", channel),
		fmt.Sprintf("%d listings failed to sync. Check the listing sync errors for details.", failed),
	)
	if err != nil {
		return err
	}
	return h.notifications.Save(ctx, n)
}
