package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/catalog"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/order"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/resilience"
)

// maxPullPages bounds one pull run per channel
const maxPullPages = 200

// PullService ingests new orders from marketplace channels
type PullService struct {
	orders   order.Repository
	listings integration.ListingRepository
	products catalog.ProductRepository
	channels map[integration.ChannelCode]integration.MarketplaceChannel
	breakers map[integration.ChannelCode]*resilience.CircuitBreaker
	events   shared.EventPublisher
	lookback time.Duration
	pageSize int
	logger   *zap.Logger
}

// NewPullService creates a pull service. The lookback window controls how
// far back each run searches for orders; overlap with earlier runs is fine
// because ingestion deduplicates on the channel order number.
func NewPullService(
	orders order.Repository,
	listings integration.ListingRepository,
	products catalog.ProductRepository,
	channels map[integration.ChannelCode]integration.MarketplaceChannel,
	events shared.EventPublisher,
	lookback time.Duration,
	pageSize int,
	logger *zap.Logger,
) *PullService {
	if lookback <= 0 {
		lookback = 24 * time.Hour
	}
	if pageSize <= 0 {
		pageSize = 50
	}

	breakers := make(map[integration.ChannelCode]*resilience.CircuitBreaker, len(channels))
	for code := range channels {
		breakerCfg := resilience.DefaultBreakerConfig()
		breakerCfg.Logger = logger
		breakers[code] = resilience.NewCircuitBreaker("pull:"+code.String(), breakerCfg)
	}

	return &PullService{
		orders:   orders,
		listings: listings,
		products: products,
		channels: channels,
		breakers: breakers,
		events:   events,
		lookback: lookback,
		pageSize: pageSize,
		logger:   logger,
	}
}

// RunChannel pulls orders placed within the lookback window
func (s *PullService) RunChannel(ctx context.Context, code integration.ChannelCode) (*PullRunResponse, error) {
	now := time.Now()
	return s.RunChannelWindow(ctx, code, now.Add(-s.lookback), now)
}

// RunChannelWindow pulls orders placed within an explicit time window
func (s *PullService) RunChannelWindow(ctx context.Context, code integration.ChannelCode, from, to time.Time) (*PullRunResponse, error) {
	channel, ok := s.channels[code]
	if !ok {
		return nil, integration.ErrChannelNotConfigured
	}

	enabled, err := channel.IsEnabled(ctx)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, integration.ErrChannelNotEnabled
	}

	result := &PullRunResponse{ChannelCode: code.String(), StartedAt: time.Now()}
	runErr := s.pullPages(ctx, channel, from, to, result)
	result.Duration = time.Since(result.StartedAt)

	s.logger.Info("Order pull run finished",
		zap.String("channel", code.String()),
		zap.Int("pages", result.Pages),
		zap.Int("fetched", result.Fetched),
		zap.Int("ingested", result.Ingested),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", result.Duration),
		zap.Error(runErr),
	)

	if runErr != nil {
		return result, runErr
	}
	return result, nil
}

func (s *PullService) pullPages(ctx context.Context, channel integration.MarketplaceChannel, from, to time.Time, result *PullRunResponse) error {
	req := integration.OrderPullRequest{
		ChannelCode: channel.ChannelCode(),
		StartTime:   from,
		EndTime:     to,
		PageNo:      1,
		PageSize:    s.pageSize,
	}

	retryCfg := resilience.DefaultRetryConfig()
	retryCfg.Logger = s.logger
	breaker := s.breakers[channel.ChannelCode()]

	for page := 0; page < maxPullPages; page++ {
		var resp *integration.OrderPullResponse
		err := resilience.Retry(ctx, retryCfg, "fetch_orders", func(ctx context.Context) error {
			return breaker.Execute(ctx, func(ctx context.Context) error {
				var fetchErr error
				resp, fetchErr = channel.FetchOrders(ctx, req)
				if errors.Is(fetchErr, integration.ErrChannelAuthFailed) {
					return resilience.PermanentError(fetchErr)
				}
				return fetchErr
			})
		})
		if err != nil {
			return err
		}

		result.Pages++
		for i := range resp.Orders {
			result.Fetched++
			if err := s.ingestOrder(ctx, &resp.Orders[i]); err != nil {
				if errors.Is(err, integration.ErrOrderSyncDuplicateOrder) {
					result.Duplicates++
					continue
				}
				result.Failed++
				s.logger.Warn("Failed to ingest channel order",
					zap.String("channel", resp.Orders[i].ChannelCode.String()),
					zap.String("channel_order_id", resp.Orders[i].ChannelOrderID),
					zap.Error(err),
				)
				continue
			}
			result.Ingested++
		}

		if !resp.HasMore {
			return nil
		}
		req.PageNo = resp.NextPageNo
	}

	return fmt.Errorf("order pull aborted after %d pages for %s", maxPullPages, channel.ChannelCode())
}

// ingestOrder converts one channel order into a local aggregate. Orders
// already cancelled on the channel are not worth ingesting.
func (s *PullService) ingestOrder(ctx context.Context, co *integration.ChannelOrder) error {
	if co.Status == integration.ChannelOrderStatusCancelled {
		return nil
	}

	existing, err := s.orders.FindByChannelOrder(ctx, co.ChannelCode, co.ChannelOrderID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if existing != nil {
		return integration.ErrOrderSyncDuplicateOrder
	}

	o, err := order.NewOrder(co.ChannelCode, co.ChannelOrderID, co.OrderedAt, co.BuyerName, co.ReceiverName, co.ReceiverAddress)
	if err != nil {
		return err
	}
	o.SetReceiverContact(co.ReceiverPhone, co.ReceiverPostalCode, "")
	if err := o.SetShippingFee(co.ShippingFee); err != nil {
		return err
	}

	for i := range co.Items {
		if err := s.addItem(ctx, o, co.ChannelCode, &co.Items[i]); err != nil {
			return err
		}
	}

	return s.save(ctx, o)
}

// addItem maps a channel line item to a local product through the listing
// binding and captures the wholesaler cost for margin reporting
func (s *PullService) addItem(ctx context.Context, o *order.Order, channel integration.ChannelCode, item *integration.ChannelOrderItem) error {
	listing, err := s.listings.FindByChannelProductID(ctx, channel, item.ChannelProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("%w: channel product %s", integration.ErrListingNotFound, item.ChannelProductID)
		}
		return err
	}

	product, err := s.products.FindByID(ctx, listing.ProductID)
	if err != nil {
		return err
	}

	_, err = o.AddItem(product.ID, item.ChannelItemID, item.ProductName, item.OptionName,
		item.Quantity, item.UnitPrice, product.CostPrice)
	return err
}

// save persists the aggregate and publishes its pending events
func (s *PullService) save(ctx context.Context, o *order.Order) error {
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
