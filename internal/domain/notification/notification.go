package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

// Kind classifies operator notifications
type Kind string

const (
	// KindSoldOut is raised when a wholesaler marks a listed product sold out
	KindSoldOut Kind = "sold_out"
	// KindPriceChanged is raised when a collection run changes a cost price
	KindPriceChanged Kind = "price_changed"
	// KindSyncFailed is raised when a marketplace sync run has failures
	KindSyncFailed Kind = "sync_failed"
	// KindOrderReceived is raised when a new marketplace order is ingested
	KindOrderReceived Kind = "order_received"
	// KindOrderCancelled is raised when a forwarded order is cancelled
	KindOrderCancelled Kind = "order_cancelled"
	// KindCollectFailed is raised when a wholesaler collection run fails
	KindCollectFailed Kind = "collect_failed"
)

// IsValid checks if the kind is known
func (k Kind) IsValid() bool {
	switch k {
	case KindSoldOut, KindPriceChanged, KindSyncFailed,
		KindOrderReceived, KindOrderCancelled, KindCollectFailed:
		return true
	}
	return false
}

// Notification is an operator-facing message produced by domain events
type Notification struct {
	shared.BaseEntity
	Kind     Kind            `gorm:"type:varchar(30);not null;index"`
	Severity shared.Severity `gorm:"type:varchar(10);not null"`
	Title    string          `gorm:"type:varchar(200);not null"`
	Message  string          `gorm:"type:text"`
	// RefType and RefID point at the aggregate that caused the notification
	RefType string     `gorm:"type:varchar(50)"`
	RefID   *uuid.UUID `gorm:"type:uuid"`
	ReadAt  *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// New creates a notification
func New(kind Kind, severity shared.Severity, title, message string) (*Notification, error) {
	if !kind.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("unknown notification kind")
	}
	if title == "" {
		return nil, shared.ErrInvalidInput.WithMessage("notification title is required")
	}

	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		Kind:       kind,
		Severity:   severity,
		Title:      title,
		Message:    message,
	}, nil
}

// WithRef attaches the source aggregate reference
func (n *Notification) WithRef(refType string, refID uuid.UUID) *Notification {
	n.RefType = refType
	n.RefID = &refID
	return n
}

// MarkRead marks the notification as read. Idempotent.
func (n *Notification) MarkRead() {
	if n.ReadAt != nil {
		return
	}
	now := time.Now()
	n.ReadAt = &now
	n.UpdatedAt = now
}

// IsRead returns true if the notification has been read
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
