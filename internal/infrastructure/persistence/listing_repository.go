package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

// GormListingRepository implements integration.ListingRepository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// FindByID finds a listing by its ID
func (r *GormListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*integration.ProductListing, error) {
	var listing integration.ProductListing
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &listing, nil
}

// FindByProductAndChannel finds the listing binding a product to a channel
func (r *GormListingRepository) FindByProductAndChannel(ctx context.Context, productID uuid.UUID, channel integration.ChannelCode) (*integration.ProductListing, error) {
	var listing integration.ProductListing
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND channel_code = ?", productID, channel).
		First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &listing, nil
}

// FindByChannelProductID finds a listing by the marketplace-assigned ID
func (r *GormListingRepository) FindByChannelProductID(ctx context.Context, channel integration.ChannelCode, channelProductID string) (*integration.ProductListing, error) {
	var listing integration.ProductListing
	if err := r.db.WithContext(ctx).
		Where("channel_code = ? AND channel_product_id = ?", channel, channelProductID).
		First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &listing, nil
}

// FindByProduct finds every channel listing of a product
func (r *GormListingRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]integration.ProductListing, error) {
	var listings []integration.ProductListing
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("channel_code ASC").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// FindPendingSync finds active, sync-enabled listings that are pending,
// failed, or stale, oldest sync first
func (r *GormListingRepository) FindPendingSync(ctx context.Context, channel integration.ChannelCode, staleAfter time.Duration, limit int) ([]integration.ProductListing, error) {
	staleBefore := time.Now().Add(-staleAfter)

	query := r.db.WithContext(ctx).
		Where("channel_code = ? AND is_active = ? AND sync_enabled = ?", channel, true, true).
		Where("last_sync_status IN ? OR last_sync_at IS NULL OR last_sync_at < ?",
			[]integration.SyncStatus{integration.SyncStatusPending, integration.SyncStatusFailed},
			staleBefore).
		Order("last_sync_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var listings []integration.ProductListing
	if err := query.Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// CountByStatus counts a channel's listings grouped by last sync status
func (r *GormListingRepository) CountByStatus(ctx context.Context, channel integration.ChannelCode) (map[integration.SyncStatus]int64, error) {
	var rows []struct {
		LastSyncStatus integration.SyncStatus
		Count          int64
	}
	if err := r.db.WithContext(ctx).
		Model(&integration.ProductListing{}).
		Select("last_sync_status, COUNT(*) as count").
		Where("channel_code = ?", channel).
		Group("last_sync_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[integration.SyncStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.LastSyncStatus] = row.Count
	}
	return counts, nil
}

// CountSyncEnabled counts active listings that take part in sync runs
func (r *GormListingRepository) CountSyncEnabled(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&integration.ProductListing{}).
		Where("is_active = ? AND sync_enabled = ?", true, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a listing
func (r *GormListingRepository) Save(ctx context.Context, listing *integration.ProductListing) error {
	return r.db.WithContext(ctx).Save(listing).Error
}

// Delete deletes a listing
func (r *GormListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&integration.ProductListing{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormListingRepository implements ListingRepository
var _ integration.ListingRepository = (*GormListingRepository)(nil)
