package supplier

import (
	"context"

	"github.com/google/uuid"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
)

// AccountRepository persists wholesaler accounts
type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	FindBySource(ctx context.Context, source integration.SourceCode) (*Account, error)
	FindAll(ctx context.Context) ([]Account, error)
	FindCollectable(ctx context.Context) ([]Account, error)
	Save(ctx context.Context, account *Account) error
	Delete(ctx context.Context, id uuid.UUID) error
}
