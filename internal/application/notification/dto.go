package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/notification"
)

// ============================================================================
// Request DTOs
// ============================================================================

// ListFilter represents filter options for the notification list
type ListFilter struct {
	Kind     string `form:"kind" binding:"omitempty,oneof=sold_out price_changed sync_failed order_received order_cancelled collect_failed"`
	Unread   *bool  `form:"unread"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ============================================================================
// Response DTOs
// ============================================================================

// Response represents a notification in API responses
type Response struct {
	ID        uuid.UUID  `json:"id"`
	Kind      string     `json:"kind"`
	Severity  string     `json:"severity"`
	Title     string     `json:"title"`
	Message   string     `json:"message,omitempty"`
	RefType   string     `json:"ref_type,omitempty"`
	RefID     *uuid.UUID `json:"ref_id,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ============================================================================
// Conversion Functions
// ============================================================================

// ToResponse converts a domain Notification to Response
func ToResponse(n *notification.Notification) Response {
	return Response{
		ID:        n.ID,
		Kind:      string(n.Kind),
		Severity:  string(n.Severity),
		Title:     n.Title,
		Message:   n.Message,
		RefType:   n.RefType,
		RefID:     n.RefID,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// ToResponses converts domain Notifications to responses
func ToResponses(notifications []notification.Notification) []Response {
	responses := make([]Response, len(notifications))
	for i := range notifications {
		responses[i] = ToResponse(&notifications[i])
	}
	return responses
}
