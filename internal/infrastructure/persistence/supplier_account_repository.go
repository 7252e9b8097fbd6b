package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/supplier"
)

// GormAccountRepository implements supplier.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds a wholesaler account by its ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*supplier.Account, error) {
	var account supplier.Account
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindBySource finds the account configured for a wholesaler platform
func (r *GormAccountRepository) FindBySource(ctx context.Context, source integration.SourceCode) (*supplier.Account, error) {
	var account supplier.Account
	if err := r.db.WithContext(ctx).
		Where("source_code = ?", source).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindAll returns every wholesaler account
func (r *GormAccountRepository) FindAll(ctx context.Context) ([]supplier.Account, error) {
	var accounts []supplier.Account
	if err := r.db.WithContext(ctx).
		Order("source_code ASC").
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// FindCollectable returns the accounts that collection runs should use
func (r *GormAccountRepository) FindCollectable(ctx context.Context) ([]supplier.Account, error) {
	var accounts []supplier.Account
	if err := r.db.WithContext(ctx).
		Where("status = ?", supplier.AccountStatusActive).
		Order("source_code ASC").
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *supplier.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// Delete deletes an account
func (r *GormAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&supplier.Account{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormAccountRepository implements AccountRepository
var _ supplier.AccountRepository = (*GormAccountRepository)(nil)
