package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/catalog"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

// ProductService handles product lifecycle and pricing operations
type ProductService struct {
	products catalog.ProductRepository
	history  catalog.PriceHistoryRepository
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	products catalog.ProductRepository,
	history catalog.PriceHistoryRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		products: products,
		history:  history,
		events:   events,
		logger:   logger,
	}
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductListResponse, int64, error) {
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

	if filter.SourceCode != "" {
		domainFilter.Filters["source_code"] = filter.SourceCode
	}
	if filter.SoldOut != nil {
		domainFilter.Filters["sold_out"] = *filter.SoldOut
	}

	var (
		products []catalog.Product
		total    int64
		err      error
	)
	if filter.Status != "" {
		products, total, err = s.products.FindByStatus(ctx, catalog.ProductStatus(filter.Status), domainFilter)
	} else {
		products, total, err = s.products.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	return ToProductListResponses(products), total, nil
}

// SetSalePrice sets the sale price manually and records price history
func (s *ProductService) SetSalePrice(ctx context.Context, productID uuid.UUID, req SetSalePriceRequest) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	oldSale := product.SalePrice
	if err := product.SetSalePrice(req.SalePrice); err != nil {
		return nil, err
	}

	if !oldSale.Equal(product.SalePrice) {
		record := catalog.NewPriceHistory(
			product.ID,
			product.CostPrice, product.CostPrice,
			oldSale, product.SalePrice,
			catalog.PriceReasonManual,
		)
		if err := s.history.Save(ctx, record); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Reprice recalculates the sale price from the pricing rule and records
// price history when the price moved
func (s *ProductService) Reprice(ctx context.Context, productID uuid.UUID, req RepriceRequest) (*ProductResponse, error) {
	rule := req.ToPricingRule()
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := s.repriceOne(ctx, product, rule); err != nil {
		return nil, err
	}

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// RepriceAll applies the pricing rule to every product whose sale price
// drifted from the rule output. Returns the number of repriced products.
func (s *ProductService) RepriceAll(ctx context.Context, req RepriceRequest) (int, error) {
	rule := req.ToPricingRule()
	if err := rule.Validate(); err != nil {
		return 0, err
	}

	filter := shared.DefaultFilter()
	filter.PageSize = 200

	repriced := 0
	for {
		products, total, err := s.products.FindAll(ctx, filter)
		if err != nil {
			return repriced, err
		}

		for i := range products {
			product := &products[i]
			if product.Status == catalog.ProductStatusDelisted {
				continue
			}

			target := rule.Apply(product.CostPrice, product.ShippingFee)
			if product.SalePrice.Equal(target) {
				continue
			}

			if err := s.repriceOne(ctx, product, rule); err != nil {
				s.logger.Warn("Failed to reprice product",
					zap.String("product_id", product.ID.String()),
					zap.Error(err),
				)
				continue
			}
			if err := s.save(ctx, product); err != nil {
				return repriced, err
			}
			repriced++
		}

		if int64(filter.Page*filter.PageSize) >= total {
			break
		}
		filter.Page++
	}

	return repriced, nil
}

// repriceOne applies the rule to one product and records history
func (s *ProductService) repriceOne(ctx context.Context, product *catalog.Product, rule catalog.PricingRule) error {
	oldSale := product.SalePrice
	target := rule.Apply(product.CostPrice, product.ShippingFee)

	if err := product.SetSalePrice(target); err != nil {
		return err
	}
	if oldSale.Equal(product.SalePrice) {
		return nil
	}

	record := catalog.NewPriceHistory(
		product.ID,
		product.CostPrice, product.CostPrice,
		oldSale, product.SalePrice,
		catalog.PriceReasonPricingRule,
	)
	return s.history.Save(ctx, record)
}

// Activate makes a product sellable
func (s *ProductService) Activate(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	return s.transition(ctx, productID, (*catalog.Product).Activate)
}

// Pause withholds a product from sale
func (s *ProductService) Pause(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	return s.transition(ctx, productID, (*catalog.Product).Pause)
}

// Delist permanently removes a product from sale
func (s *ProductService) Delist(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	return s.transition(ctx, productID, (*catalog.Product).Delist)
}

func (s *ProductService) transition(ctx context.Context, productID uuid.UUID, fn func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := fn(product); err != nil {
		return nil, err
	}

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product. Delisted products only.
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.Status != catalog.ProductStatusDelisted {
		return shared.ErrInvalidState.WithMessage("only delisted products can be deleted")
	}

	return s.products.Delete(ctx, productID)
}

// CountByStatus returns product counts by lifecycle status
func (s *ProductService) CountByStatus(ctx context.Context) (*ProductCountsResponse, error) {
	counts, err := s.products.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	response := &ProductCountsResponse{
		Draft:    counts[catalog.ProductStatusDraft],
		Active:   counts[catalog.ProductStatusActive],
		Paused:   counts[catalog.ProductStatusPaused],
		Delisted: counts[catalog.ProductStatusDelisted],
	}
	response.Total = response.Draft + response.Active + response.Paused + response.Delisted

	return response, nil
}

// PriceHistory returns the price change records of a product
func (s *ProductService) PriceHistory(ctx context.Context, productID uuid.UUID, filter PriceHistoryFilter) ([]PriceHistoryResponse, int64, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, 0, err
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Reason != "" {
		domainFilter.Filters["reason"] = filter.Reason
	}

	rows, total, err := s.history.FindByProduct(ctx, productID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPriceHistoryResponses(rows), total, nil
}

// save persists the aggregate and publishes its pending events
func (s *ProductService) save(ctx context.Context, product *catalog.Product) error {
	if err := s.products.Save(ctx, product); err != nil {
		return err
	}

	events := product.GetDomainEvents()
	product.ClearDomainEvents()
	if len(events) > 0 && s.events != nil {
		if err := s.events.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish product events", zap.Error(err))
		}
	}
	return nil
}
