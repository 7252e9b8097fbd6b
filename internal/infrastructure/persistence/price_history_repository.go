package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/catalog"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

// GormPriceHistoryRepository implements catalog.PriceHistoryRepository
// using GORM
type GormPriceHistoryRepository struct {
	db *gorm.DB
}

// NewGormPriceHistoryRepository creates a new GormPriceHistoryRepository
func NewGormPriceHistoryRepository(db *gorm.DB) *GormPriceHistoryRepository {
	return &GormPriceHistoryRepository{db: db}
}

// Save records a price change
func (r *GormPriceHistoryRepository) Save(ctx context.Context, history *catalog.PriceHistory) error {
	return r.db.WithContext(ctx).Save(history).Error
}

// FindByProduct finds a product's price changes, newest first
func (r *GormPriceHistoryRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]catalog.PriceHistory, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&catalog.PriceHistory{}).
		Where("product_id = ?", productID)
	if reason, ok := filter.Filters["reason"]; ok {
		query = query.Where("reason = ?", reason)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("recorded_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var histories []catalog.PriceHistory
	if err := query.Find(&histories).Error; err != nil {
		return nil, 0, err
	}
	return histories, total, nil
}

// FindLatestByProduct finds the most recent price change of a product
func (r *GormPriceHistoryRepository) FindLatestByProduct(ctx context.Context, productID uuid.UUID) (*catalog.PriceHistory, error) {
	var history catalog.PriceHistory
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("recorded_at DESC").
		First(&history).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &history, nil
}

// Ensure GormPriceHistoryRepository implements PriceHistoryRepository
var _ catalog.PriceHistoryRepository = (*GormPriceHistoryRepository)(nil)
