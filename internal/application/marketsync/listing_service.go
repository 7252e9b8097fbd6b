// Package marketsync manages marketplace listings and keeps their price,
// stock, and sale state in step with the local catalog.
package marketsync

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/catalog"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

// ListingService handles the listing bindings between products and channels
type ListingService struct {
	listings integration.ListingRepository
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewListingService creates a new ListingService
func NewListingService(
	listings integration.ListingRepository,
	products catalog.ProductRepository,
	logger *zap.Logger,
) *ListingService {
	return &ListingService{
		listings: listings,
		products: products,
		logger:   logger,
	}
}

// Create binds a product to a channel. One listing per product and channel.
func (s *ListingService) Create(ctx context.Context, req CreateListingRequest) (*ListingResponse, error) {
	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	channel := integration.ChannelCode(req.ChannelCode)
	existing, err := s.listings.FindByProductAndChannel(ctx, product.ID, channel)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, integration.ErrListingAlreadyExists
	}

	listing, err := integration.NewProductListing(product.ID, channel)
	if err != nil {
		return nil, err
	}
	listing.ChannelProductName = product.Name

	if err := s.listings.Save(ctx, listing); err != nil {
		return nil, err
	}

	s.logger.Info("Product listed on channel",
		zap.String("product_id", product.ID.String()),
		zap.String("channel", channel.String()),
	)

	response := ToListingResponse(listing)
	return &response, nil
}

// GetByID retrieves a listing by ID
func (s *ListingService) GetByID(ctx context.Context, listingID uuid.UUID) (*ListingResponse, error) {
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	response := ToListingResponse(listing)
	return &response, nil
}

// ListByProduct returns every channel listing of a product
func (s *ListingService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]ListingResponse, error) {
	listings, err := s.listings.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ToListingResponses(listings), nil
}

// Activate puts the listing back on sale
func (s *ListingService) Activate(ctx context.Context, listingID uuid.UUID) (*ListingResponse, error) {
	return s.transition(ctx, listingID, (*integration.ProductListing).Activate)
}

// Deactivate takes the listing off sale while keeping it for history
func (s *ListingService) Deactivate(ctx context.Context, listingID uuid.UUID) (*ListingResponse, error) {
	return s.transition(ctx, listingID, (*integration.ProductListing).Deactivate)
}

// EnableSync includes the listing in scheduled sync runs again
func (s *ListingService) EnableSync(ctx context.Context, listingID uuid.UUID) (*ListingResponse, error) {
	return s.transition(ctx, listingID, (*integration.ProductListing).EnableSync)
}

// DisableSync excludes the listing from scheduled sync runs
func (s *ListingService) DisableSync(ctx context.Context, listingID uuid.UUID) (*ListingResponse, error) {
	return s.transition(ctx, listingID, (*integration.ProductListing).DisableSync)
}

func (s *ListingService) transition(ctx context.Context, listingID uuid.UUID, fn func(*integration.ProductListing)) (*ListingResponse, error) {
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	fn(listing)
	if err := s.listings.Save(ctx, listing); err != nil {
		return nil, err
	}

	response := ToListingResponse(listing)
	return &response, nil
}

// Delete removes a listing binding. Deactivated listings only, so a listing
// still on sale cannot silently lose its local record.
func (s *ListingService) Delete(ctx context.Context, listingID uuid.UUID) error {
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.IsActive {
		return shared.ErrInvalidState.WithMessage("only deactivated listings can be deleted")
	}

	return s.listings.Delete(ctx, listingID)
}

// CountByStatus returns listing counts by last sync status for a channel
func (s *ListingService) CountByStatus(ctx context.Context, channel integration.ChannelCode) (*ListingCountsResponse, error) {
	if !channel.IsValid() {
		return nil, integration.ErrListingInvalidChannel
	}

	counts, err := s.listings.CountByStatus(ctx, channel)
	if err != nil {
		return nil, err
	}

	response := &ListingCountsResponse{
		ChannelCode: channel.String(),
		Pending:     counts[integration.SyncStatusPending],
		Synced:      counts[integration.SyncStatusSuccess],
		Failed:      counts[integration.SyncStatusFailed],
	}
	for _, n := range counts {
		response.Total += n
	}
	return response, nil
}
