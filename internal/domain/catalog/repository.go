package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

// ProductRepository persists Product aggregates
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySource(ctx context.Context, source integration.SourceCode, sourceProductID string) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, int64, error)
	FindByStatus(ctx context.Context, status ProductStatus, filter shared.Filter) ([]Product, int64, error)
	FindSellable(ctx context.Context, limit int) ([]Product, error)
	CountByStatus(ctx context.Context) (map[ProductStatus]int64, error)
	CountSoldOut(ctx context.Context) (int64, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}
