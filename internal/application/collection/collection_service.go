// Package collection pulls product pages from wholesaler platforms and
// folds them into the local catalog.
package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/catalog"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/supplier"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/resilience"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/storage"
)

// maxPagesPerRun bounds one collection run so a misbehaving platform
// paginator cannot loop forever
const maxPagesPerRun = 500

// Result summarizes one collection run for a source
type Result struct {
	Source    integration.SourceCode `json:"source"`
	Pages     int                    `json:"pages"`
	Collected int                    `json:"collected"`
	Created   int                    `json:"created"`
	Updated   int                    `json:"updated"`
	Failed    int                    `json:"failed"`
	StartedAt time.Time              `json:"started_at"`
	Duration  time.Duration          `json:"duration"`
}

// Service orchestrates collection runs: fetch pages from the wholesaler
// adapter, upsert products, record price history, mirror images, and
// publish catalog events.
type Service struct {
	accounts supplier.AccountRepository
	products catalog.ProductRepository
	history  catalog.PriceHistoryRepository
	sources  map[integration.SourceCode]integration.WholesaleSource
	breakers map[integration.SourceCode]*resilience.CircuitBreaker
	mirror   storage.ImageMirror
	events   shared.EventPublisher
	rule     catalog.PricingRule
	pageSize int
	logger   *zap.Logger
}

// NewService creates a collection service. One circuit breaker is kept per
// registered source so an outage on one platform does not block the others.
func NewService(
	accounts supplier.AccountRepository,
	products catalog.ProductRepository,
	history catalog.PriceHistoryRepository,
	sources map[integration.SourceCode]integration.WholesaleSource,
	mirror storage.ImageMirror,
	events shared.EventPublisher,
	pageSize int,
	logger *zap.Logger,
) *Service {
	if pageSize <= 0 {
		pageSize = 100
	}
	if mirror == nil {
		mirror = storage.NewNoopImageMirror()
	}

	breakers := make(map[integration.SourceCode]*resilience.CircuitBreaker, len(sources))
	for code := range sources {
		breakerCfg := resilience.DefaultBreakerConfig()
		breakerCfg.Logger = logger
		breakers[code] = resilience.NewCircuitBreaker("collect:"+code.String(), breakerCfg)
	}

	return &Service{
		accounts: accounts,
		products: products,
		history:  history,
		sources:  sources,
		breakers: breakers,
		mirror:   mirror,
		events:   events,
		rule:     catalog.DefaultPricingRule(),
		pageSize: pageSize,
		logger:   logger,
	}
}

// CollectableSources returns the sources that have an active account and a
// registered adapter
func (s *Service) CollectableSources(ctx context.Context) ([]integration.SourceCode, error) {
	accounts, err := s.accounts.FindCollectable(ctx)
	if err != nil {
		return nil, err
	}

	codes := make([]integration.SourceCode, 0, len(accounts))
	for _, account := range accounts {
		if _, ok := s.sources[account.SourceCode]; ok {
			codes = append(codes, account.SourceCode)
		}
	}
	return codes, nil
}

// RunAll collects from every collectable source sequentially
func (s *Service) RunAll(ctx context.Context) ([]Result, error) {
	codes, err := s.CollectableSources(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(codes))
	var lastErr error
	for _, code := range codes {
		result, err := s.RunSource(ctx, code)
		if err != nil {
			lastErr = err
			continue
		}
		results = append(results, *result)
	}
	return results, lastErr
}

// RunSource collects every changed product from one wholesaler.
// Pagination continues from the account's last successful run.
func (s *Service) RunSource(ctx context.Context, code integration.SourceCode) (*Result, error) {
	source, ok := s.sources[code]
	if !ok {
		return nil, integration.ErrSourceNotConfigured
	}

	account, err := s.accounts.FindBySource(ctx, code)
	if err != nil {
		return nil, err
	}
	if !account.IsCollectable() {
		return nil, shared.ErrInvalidState.WithMessage(
			fmt.Sprintf("account for %s is not collectable", code))
	}

	enabled, err := source.IsEnabled(ctx)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, integration.ErrSourceNotEnabled
	}

	result := &Result{Source: code, StartedAt: time.Now()}
	runErr := s.collectPages(ctx, source, account, result)
	result.Duration = time.Since(result.StartedAt)

	if errors.Is(runErr, integration.ErrSourceAuthFailed) ||
		errors.Is(runErr, integration.ErrSourceTokenExpired) {
		account.MarkAuthFailed()
	}
	account.RecordCollection(result.Collected, runErr)
	if saveErr := s.accounts.Save(ctx, account); saveErr != nil {
		s.logger.Error("Failed to save collection bookkeeping",
			zap.String("source", code.String()),
			zap.Error(saveErr),
		)
	}

	s.logger.Info("Collection run finished",
		zap.String("source", code.String()),
		zap.Int("pages", result.Pages),
		zap.Int("collected", result.Collected),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", result.Duration),
		zap.Error(runErr),
	)

	if runErr != nil {
		return result, runErr
	}
	return result, nil
}

// collectPages walks the wholesaler's paginated product feed
func (s *Service) collectPages(ctx context.Context, source integration.WholesaleSource, account *supplier.Account, result *Result) error {
	req := integration.ProductPullRequest{
		SourceCode:   account.SourceCode,
		UpdatedSince: account.LastCollectedAt,
		PageNo:       1,
		PageSize:     s.pageSize,
	}

	retryCfg := resilience.DefaultRetryConfig()
	retryCfg.Logger = s.logger
	breaker := s.breakers[account.SourceCode]

	for page := 0; page < maxPagesPerRun; page++ {
		var resp *integration.ProductPullResponse
		err := resilience.Retry(ctx, retryCfg, "fetch_products", func(ctx context.Context) error {
			return breaker.Execute(ctx, func(ctx context.Context) error {
				var fetchErr error
				resp, fetchErr = source.FetchProducts(ctx, req)
				if errors.Is(fetchErr, integration.ErrSourceAuthFailed) {
					return resilience.PermanentError(fetchErr)
				}
				return fetchErr
			})
		})
		if err != nil {
			return err
		}

		result.Pages++
		for i := range resp.Products {
			created, err := s.upsertProduct(ctx, &resp.Products[i])
			if err != nil {
				result.Failed++
				s.logger.Warn("Failed to upsert collected product",
					zap.String("source", account.SourceCode.String()),
					zap.String("source_product_id", resp.Products[i].SourceProductID),
					zap.Error(err),
				)
				continue
			}
			result.Collected++
			if created {
				result.Created++
			} else {
				result.Updated++
			}
		}

		if !resp.HasMore {
			return nil
		}
		req.PageNo = resp.NextPageNo
	}

	return fmt.Errorf("collection aborted after %d pages for %s", maxPagesPerRun, account.SourceCode)
}

// upsertProduct creates or refreshes one product from its source form.
// Reports whether a new product was created.
func (s *Service) upsertProduct(ctx context.Context, sp *integration.SourceProduct) (bool, error) {
	existing, err := s.products.FindBySource(ctx, sp.SourceCode, sp.SourceProductID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return false, err
	}

	if existing == nil {
		return true, s.createProduct(ctx, sp)
	}
	return false, s.refreshProduct(ctx, existing, sp)
}

func (s *Service) createProduct(ctx context.Context, sp *integration.SourceProduct) error {
	product, err := catalog.NewProductFromSource(*sp)
	if err != nil {
		return err
	}

	salePrice := s.rule.Apply(product.CostPrice, product.ShippingFee)
	if err := product.SetSalePrice(salePrice); err != nil {
		return err
	}

	if err := s.mirrorImages(ctx, product, sp.ImageURLs); err != nil {
		// Image mirroring is best effort; the product still gets created
		s.logger.Warn("Failed to mirror product images",
			zap.String("source_product_id", sp.SourceProductID),
			zap.Error(err),
		)
	}

	record := catalog.NewPriceHistory(
		product.ID,
		decimal.Zero, product.CostPrice,
		decimal.Zero, product.SalePrice,
		catalog.PriceReasonCollection,
	)
	if err := s.history.Save(ctx, record); err != nil {
		return err
	}

	return s.save(ctx, product)
}

func (s *Service) refreshProduct(ctx context.Context, product *catalog.Product, sp *integration.SourceProduct) error {
	oldCost := product.CostPrice
	oldSale := product.SalePrice

	priceChanged, err := product.UpdateFromSource(*sp)
	if err != nil {
		return err
	}

	if priceChanged {
		salePrice := s.rule.Apply(product.CostPrice, product.ShippingFee)
		if err := product.SetSalePrice(salePrice); err != nil {
			return err
		}

		record := catalog.NewPriceHistory(
			product.ID,
			oldCost, product.CostPrice,
			oldSale, product.SalePrice,
			catalog.PriceReasonCollection,
		)
		if err := s.history.Save(ctx, record); err != nil {
			return err
		}
	}

	return s.save(ctx, product)
}

// mirrorImages copies the wholesaler images into our bucket and stores the
// public URLs on the product
func (s *Service) mirrorImages(ctx context.Context, product *catalog.Product, sourceURLs []string) error {
	if len(sourceURLs) == 0 {
		return nil
	}

	mirrored, err := s.mirror.MirrorImages(ctx, product.ID, sourceURLs)
	if err != nil {
		return err
	}
	if len(mirrored) == 0 {
		return nil
	}

	urlsJSON, err := json.Marshal(mirrored)
	if err != nil {
		return err
	}
	product.SetImageURLs(string(urlsJSON))
	return nil
}

// save persists the aggregate and publishes its pending events
func (s *Service) save(ctx context.Context, product *catalog.Product) error {
	if err := s.products.Save(ctx, product); err != nil {
		return err
	}

	events := product.GetDomainEvents()
	product.ClearDomainEvents()
	if len(events) > 0 && s.events != nil {
		if err := s.events.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish catalog events", zap.Error(err))
		}
	}
	return nil
}
