package marketsync

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/catalog"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/resilience"
)

// SyncService pushes listing batches to marketplace channels
type SyncService struct {
	listings   integration.ListingRepository
	products   catalog.ProductRepository
	channels   map[integration.ChannelCode]integration.MarketplaceChannel
	breakers   map[integration.ChannelCode]*resilience.CircuitBreaker
	staleAfter time.Duration
	batchSize  int
	logger     *zap.Logger
}

// NewSyncService creates a sync service. One circuit breaker is kept per
// registered channel so an outage on one marketplace does not block the
// others.
func NewSyncService(
	listings integration.ListingRepository,
	products catalog.ProductRepository,
	channels map[integration.ChannelCode]integration.MarketplaceChannel,
	staleAfter time.Duration,
	batchSize int,
	logger *zap.Logger,
) *SyncService {
	if staleAfter <= 0 {
		staleAfter = time.Hour
	}
	if batchSize <= 0 {
		batchSize = 50
	}

	breakers := make(map[integration.ChannelCode]*resilience.CircuitBreaker, len(channels))
	for code := range channels {
		breakerCfg := resilience.DefaultBreakerConfig()
		breakerCfg.Logger = logger
		breakers[code] = resilience.NewCircuitBreaker("sync:"+code.String(), breakerCfg)
	}

	return &SyncService{
		listings:   listings,
		products:   products,
		channels:   channels,
		breakers:   breakers,
		staleAfter: staleAfter,
		batchSize:  batchSize,
		logger:     logger,
	}
}

// EnabledChannels returns the channels that have a registered and enabled
// adapter, in a stable order
func (s *SyncService) EnabledChannels(ctx context.Context) ([]integration.ChannelCode, error) {
	codes := make([]integration.ChannelCode, 0, len(s.channels))
	for code, channel := range s.channels {
		enabled, err := channel.IsEnabled(ctx)
		if err != nil {
			return nil, err
		}
		if enabled {
			codes = append(codes, code)
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes, nil
}

// RunAll syncs every enabled channel sequentially
func (s *SyncService) RunAll(ctx context.Context) ([]SyncRunResponse, error) {
	codes, err := s.EnabledChannels(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]SyncRunResponse, 0, len(codes))
	var lastErr error
	for _, code := range codes {
		result, err := s.RunChannel(ctx, code)
		if err != nil {
			lastErr = err
			continue
		}
		results = append(results, *result)
	}
	return results, lastErr
}

// RunChannel pushes one batch of pending listings to a marketplace.
// Listings whose last sync is older than staleAfter are included so price
// and stock drift gets corrected even without local changes.
func (s *SyncService) RunChannel(ctx context.Context, code integration.ChannelCode) (*SyncRunResponse, error) {
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

	result := &SyncRunResponse{ChannelCode: code.String(), StartedAt: time.Now()}
	defer func() { result.Duration = time.Since(result.StartedAt) }()

	pending, err := s.listings.FindPendingSync(ctx, code, s.staleAfter, s.batchSize)
	if err != nil {
		return nil, err
	}
	result.Total = len(pending)
	if len(pending) == 0 {
		result.Status = integration.SyncStatusSuccess.String()
		return result, nil
	}

	payloads, pushed := s.buildPayloads(ctx, pending, result)
	if len(payloads) == 0 {
		result.Status = integration.SyncStatusFailed.String()
		return result, nil
	}

	syncResult, err := s.pushBatch(ctx, channel, payloads)
	if err != nil {
		s.markBatchFailed(ctx, pushed, err)
		result.Failed += len(pushed)
		result.Status = integration.SyncStatusFailed.String()
		return result, err
	}

	s.applySyncResult(ctx, pushed, syncResult, result)
	result.Status = syncResult.Status.String()

	s.logger.Info("Listing sync run finished",
		zap.String("channel", code.String()),
		zap.String("status", result.Status),
		zap.Int("total", result.Total),
		zap.Int("synced", result.Synced),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

// buildPayloads resolves each pending listing against the catalog. Listings
// whose product is gone are failed in place and excluded from the push.
func (s *SyncService) buildPayloads(ctx context.Context, pending []integration.ProductListing, result *SyncRunResponse) ([]integration.ListingSync, []*integration.ProductListing) {
	payloads := make([]integration.ListingSync, 0, len(pending))
	pushed := make([]*integration.ProductListing, 0, len(pending))

	for i := range pending {
		listing := &pending[i]

		product, err := s.products.FindByID(ctx, listing.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				listing.MarkSyncFailed("product no longer exists")
				if saveErr := s.listings.Save(ctx, listing); saveErr != nil {
					s.logger.Error("Failed to save listing", zap.Error(saveErr))
				}
				result.Failed++
				continue
			}
			result.Skipped++
			s.logger.Warn("Failed to load product for listing",
				zap.String("listing_id", listing.ID.String()),
				zap.Error(err),
			)
			continue
		}

		payloads = append(payloads, integration.ListingSync{
			ChannelProductID: listing.ChannelProductID,
			LocalProductID:   product.ID,
			ProductName:      product.Name,
			Description:      product.Description,
			SalePrice:        product.SalePrice,
			ListPrice:        product.SalePrice,
			StockQuantity:    product.StockQuantity,
			IsOnSale:         listing.IsActive && product.IsSellable(),
			ImageURLs:        decodeImageURLs(product.ImageURLs),
		})
		pushed = append(pushed, listing)
	}

	return payloads, pushed
}

// pushBatch sends the payloads through the channel's circuit breaker with
// retries. Auth failures are permanent and stop the retry loop.
func (s *SyncService) pushBatch(ctx context.Context, channel integration.MarketplaceChannel, payloads []integration.ListingSync) (*integration.SyncResult, error) {
	retryCfg := resilience.DefaultRetryConfig()
	retryCfg.Logger = s.logger
	breaker := s.breakers[channel.ChannelCode()]

	var syncResult *integration.SyncResult
	err := resilience.Retry(ctx, retryCfg, "sync_listings", func(ctx context.Context) error {
		return breaker.Execute(ctx, func(ctx context.Context) error {
			var pushErr error
			syncResult, pushErr = channel.SyncListings(ctx, payloads)
			if errors.Is(pushErr, integration.ErrChannelAuthFailed) {
				return resilience.PermanentError(pushErr)
			}
			return pushErr
		})
	})
	if err != nil {
		return nil, err
	}
	return syncResult, nil
}

// applySyncResult writes the per-item outcome back onto each listing
func (s *SyncService) applySyncResult(ctx context.Context, pushed []*integration.ProductListing, syncResult *integration.SyncResult, result *SyncRunResponse) {
	failures := make(map[string]string, len(syncResult.FailedItems))
	for _, item := range syncResult.FailedItems {
		failures[item.ItemID] = item.ErrorMessage
	}

	for _, listing := range pushed {
		if msg, failed := failures[listing.ProductID.String()]; failed {
			listing.MarkSyncFailed(msg)
			result.Failed++
		} else {
			listing.MarkSynced("")
			result.Synced++
		}
		if err := s.listings.Save(ctx, listing); err != nil {
			s.logger.Error("Failed to save listing sync outcome",
				zap.String("listing_id", listing.ID.String()),
				zap.Error(err),
			)
		}
	}
}

// markBatchFailed fails every pushed listing when the batch itself errored
func (s *SyncService) markBatchFailed(ctx context.Context, pushed []*integration.ProductListing, batchErr error) {
	for _, listing := range pushed {
		listing.MarkSyncFailed(batchErr.Error())
		if err := s.listings.Save(ctx, listing); err != nil {
			s.logger.Error("Failed to save listing sync outcome",
				zap.String("listing_id", listing.ID.String()),
				zap.Error(err),
			)
		}
	}
}

// decodeImageURLs decodes the stored JSON array, tolerating malformed data
func decodeImageURLs(urlsJSON string) []string {
	if urlsJSON == "" {
		return nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(urlsJSON), &urls); err != nil {
		return nil
	}
	return urls
}
