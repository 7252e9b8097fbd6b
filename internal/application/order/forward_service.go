package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/catalog"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/order"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/resilience"
)

// supplierOrderIDSeparator joins the per-line wholesaler order numbers of a
// multi-line order
const supplierOrderIDSeparator = ","

// ForwardService places wholesaler purchases for confirmed orders and
// refreshes their shipping state
type ForwardService struct {
	orders   order.Repository
	products catalog.ProductRepository
	sources  map[integration.SourceCode]integration.WholesaleSource
	breakers map[integration.SourceCode]*resilience.CircuitBreaker
	events   shared.EventPublisher
	batch    int
	logger   *zap.Logger
}

// NewForwardService creates a forward service
func NewForwardService(
	orders order.Repository,
	products catalog.ProductRepository,
	sources map[integration.SourceCode]integration.WholesaleSource,
	events shared.EventPublisher,
	batch int,
	logger *zap.Logger,
) *ForwardService {
	if batch <= 0 {
		batch = 50
	}

	breakers := make(map[integration.SourceCode]*resilience.CircuitBreaker, len(sources))
	for code := range sources {
		breakerCfg := resilience.DefaultBreakerConfig()
		breakerCfg.Logger = logger
		breakers[code] = resilience.NewCircuitBreaker("forward:"+code.String(), breakerCfg)
	}

	return &ForwardService{
		orders:   orders,
		products: products,
		sources:  sources,
		breakers: breakers,
		events:   events,
		batch:    batch,
		logger:   logger,
	}
}

// ForwardOrders places wholesaler purchases for every confirmed order.
// Failed orders stay confirmed and are retried on the next run.
func (s *ForwardService) ForwardOrders(ctx context.Context) (*ForwardRunResponse, error) {
	result := &ForwardRunResponse{StartedAt: time.Now()}
	defer func() { result.Duration = time.Since(result.StartedAt) }()

	eligible, err := s.orders.FindForwardable(ctx, s.batch)
	if err != nil {
		return nil, err
	}
	result.Eligible = len(eligible)

	for i := range eligible {
		o := &eligible[i]
		if err := s.forwardOne(ctx, o); err != nil {
			result.Failed++
			s.logger.Warn("Failed to forward order to wholesaler",
				zap.String("order_id", o.ID.String()),
				zap.String("channel_order_id", o.ChannelOrderID),
				zap.Error(err),
			)
			continue
		}
		result.Forwarded++
	}

	s.logger.Info("Order forwarding run finished",
		zap.Int("eligible", result.Eligible),
		zap.Int("forwarded", result.Forwarded),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// forwardOne places one wholesaler purchase per order line. All lines of an
// order must come from the same wholesaler.
func (s *ForwardService) forwardOne(ctx context.Context, o *order.Order) error {
	if len(o.Items) == 0 {
		return shared.ErrInvalidState.WithMessage("order has no items to forward")
	}

	sourceCode, lineProducts, err := s.resolveSupplier(ctx, o)
	if err != nil {
		return err
	}

	source, ok := s.sources[sourceCode]
	if !ok {
		return fmt.Errorf("%w: %s", integration.ErrSourceNotConfigured, sourceCode)
	}

	supplierOrderIDs := make([]string, 0, len(o.Items))
	for i := range o.Items {
		placed, err := s.placeLine(ctx, source, o, &o.Items[i], lineProducts[i])
		if err != nil {
			if len(supplierOrderIDs) > 0 {
				// Earlier lines are already purchased. Flag loudly so the
				// operator can reconcile before the next run re-places them.
				s.logger.Error("Order partially forwarded",
					zap.String("order_id", o.ID.String()),
					zap.Strings("placed_supplier_order_ids", supplierOrderIDs),
					zap.Error(err),
				)
			}
			return err
		}
		supplierOrderIDs = append(supplierOrderIDs, placed.SupplierOrderID)
	}

	if err := o.MarkSupplierOrdered(sourceCode, strings.Join(supplierOrderIDs, supplierOrderIDSeparator)); err != nil {
		return err
	}
	return s.save(ctx, o)
}

// resolveSupplier loads every line's product and checks they share one
// wholesaler
func (s *ForwardService) resolveSupplier(ctx context.Context, o *order.Order) (integration.SourceCode, []*catalog.Product, error) {
	var sourceCode integration.SourceCode
	lineProducts := make([]*catalog.Product, len(o.Items))

	for i := range o.Items {
		product, err := s.products.FindByID(ctx, o.Items[i].ProductID)
		if err != nil {
			return "", nil, err
		}
		lineProducts[i] = product

		if sourceCode == "" {
			sourceCode = product.SourceCode
			continue
		}
		if product.SourceCode != sourceCode {
			return "", nil, shared.ErrInvalidState.WithMessage(
				"order mixes products from different wholesalers")
		}
	}

	return sourceCode, lineProducts, nil
}

func (s *ForwardService) placeLine(ctx context.Context, source integration.WholesaleSource, o *order.Order, item *order.OrderItem, product *catalog.Product) (*integration.SupplierOrderResult, error) {
	req := integration.SupplierOrderRequest{
		SourceProductID:    product.SourceProductID,
		OptionID:           item.OptionName,
		Quantity:           item.Quantity,
		ReceiverName:       o.ReceiverName,
		ReceiverPhone:      o.ReceiverPhone,
		ReceiverAddress:    o.ReceiverAddr,
		ReceiverPostalCode: o.ReceiverZip,
		Memo:               o.DeliveryMemo,
	}

	retryCfg := resilience.DefaultRetryConfig()
	retryCfg.Logger = s.logger
	breaker := s.breakers[source.SourceCode()]

	var placed *integration.SupplierOrderResult
	err := resilience.Retry(ctx, retryCfg, "place_supplier_order", func(ctx context.Context) error {
		return breaker.Execute(ctx, func(ctx context.Context) error {
			var placeErr error
			placed, placeErr = source.PlaceOrder(ctx, req)
			if errors.Is(placeErr, integration.ErrSourceAuthFailed) ||
				errors.Is(placeErr, integration.ErrSourceOutOfStock) {
				return resilience.PermanentError(placeErr)
			}
			return placeErr
		})
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// RefreshTracking polls the wholesaler for shipping state of forwarded
// orders and records tracking numbers as they appear
func (s *ForwardService) RefreshTracking(ctx context.Context) (*TrackingRunResponse, error) {
	result := &TrackingRunResponse{StartedAt: time.Now()}
	defer func() { result.Duration = time.Since(result.StartedAt) }()

	inTransit, err := s.orders.FindInTransit(ctx, s.batch)
	if err != nil {
		return nil, err
	}

	for i := range inTransit {
		o := &inTransit[i]
		result.Checked++

		shipped, err := s.refreshOne(ctx, o)
		if err != nil {
			result.Failed++
			s.logger.Warn("Failed to refresh tracking",
				zap.String("order_id", o.ID.String()),
				zap.String("supplier_order_id", o.SupplierOrderID),
				zap.Error(err),
			)
			continue
		}
		if shipped {
			result.Shipped++
		}
	}

	s.logger.Info("Tracking refresh run finished",
		zap.Int("checked", result.Checked),
		zap.Int("shipped", result.Shipped),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// refreshOne checks the first wholesaler order of an aggregate. A tracking
// number on the lead line is what marketplaces expect to receive.
func (s *ForwardService) refreshOne(ctx context.Context, o *order.Order) (bool, error) {
	source, ok := s.sources[o.SupplierSource]
	if !ok {
		return false, fmt.Errorf("%w: %s", integration.ErrSourceNotConfigured, o.SupplierSource)
	}

	leadID := o.SupplierOrderID
	if idx := strings.Index(leadID, supplierOrderIDSeparator); idx > 0 {
		leadID = leadID[:idx]
	}

	retryCfg := resilience.DefaultRetryConfig()
	retryCfg.Logger = s.logger
	breaker := s.breakers[o.SupplierSource]

	var status *integration.SupplierOrderResult
	err := resilience.Retry(ctx, retryCfg, "get_order_status", func(ctx context.Context) error {
		return breaker.Execute(ctx, func(ctx context.Context) error {
			var statusErr error
			status, statusErr = source.GetOrderStatus(ctx, leadID)
			if errors.Is(statusErr, integration.ErrSourceAuthFailed) {
				return resilience.PermanentError(statusErr)
			}
			return statusErr
		})
	})
	if err != nil {
		return false, err
	}

	if status.TrackingNumber == "" {
		return false, nil
	}

	if err := o.MarkShipped(status.Courier, status.TrackingNumber); err != nil {
		return false, err
	}
	return true, s.save(ctx, o)
}

// save persists the aggregate and publishes its pending events
func (s *ForwardService) save(ctx context.Context, o *order.Order) error {
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
