// Package notification turns pipeline events into operator-facing messages
// and manages their read state.
package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/notification"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

// Service handles notification queries and read-state changes
type Service struct {
	notifications notification.Repository
	logger        *zap.Logger
}

// NewService creates a new notification Service
func NewService(notifications notification.Repository, logger *zap.Logger) *Service {
	return &Service{
		notifications: notifications,
		logger:        logger,
	}
}

// List retrieves notifications with filtering and pagination
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Response, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Kind != "" {
		domainFilter.Filters["kind"] = filter.Kind
	}
	if filter.Unread != nil {
		domainFilter.Filters["unread"] = *filter.Unread
	}

	rows, total, err := s.notifications.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToResponses(rows), total, nil
}

// CountUnread returns the number of unread notifications
func (s *Service) CountUnread(ctx context.Context) (int64, error) {
	return s.notifications.CountUnread(ctx)
}

// MarkRead marks one notification as read
func (s *Service) MarkRead(ctx context.Context, notificationID uuid.UUID) (*Response, error) {
	n, err := s.notifications.FindByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}

	n.MarkRead()
	if err := s.notifications.Save(ctx, n); err != nil {
		return nil, err
	}

	response := ToResponse(n)
	return &response, nil
}

// MarkAllRead marks every unread notification as read
func (s *Service) MarkAllRead(ctx context.Context) error {
	return s.notifications.MarkAllRead(ctx)
}

// Prune deletes read notifications older than the retention window.
// Returns the number of deleted rows.
func (s *Service) Prune(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = 30
	}

	deleted, err := s.notifications.DeleteOlderThan(ctx, retentionDays)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		s.logger.Info("Pruned notifications",
			zap.Int64("deleted", deleted),
			zap.Int("retention_days", retentionDays),
		)
	}
	return deleted, nil
}
