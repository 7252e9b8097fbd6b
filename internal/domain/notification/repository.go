package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

// Repository persists notifications
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Notification, int64, error)
	FindUnread(ctx context.Context, limit int) ([]Notification, error)
	CountUnread(ctx context.Context) (int64, error)
	Save(ctx context.Context, n *Notification) error
	MarkAllRead(ctx context.Context) error
	// DeleteOlderThan prunes read notifications past the retention window
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}
