package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// ProductListing Entity
// ---------------------------------------------------------------------------

// ProductListing represents the binding between a local product and its
// listing on a marketplace channel. It is an Entity (not Aggregate Root):
// it has identity and is mutable, but emits no lifecycle events of its own.
type ProductListing struct {
	// ID is the unique identifier of this listing
	ID uuid.UUID
	// ProductID is our internal product ID
	ProductID uuid.UUID
	// ChannelCode identifies which marketplace this listing is on
	ChannelCode ChannelCode
	// ChannelProductID is the listing ID assigned by the marketplace
	// (empty until the first successful sync creates the listing)
	ChannelProductID string
	// ChannelProductName is the title as published (for reference)
	ChannelProductName string
	// IsActive indicates if this listing should be kept on sale
	IsActive bool
	// SyncEnabled indicates if auto-sync is enabled for this listing
	SyncEnabled bool
	// LastSyncAt is when this listing was last pushed to the channel
	LastSyncAt *time.Time
	// LastSyncStatus is the result of the last sync
	LastSyncStatus SyncStatus
	// LastSyncError contains any error from the last sync
	LastSyncError string
	// CreatedAt is when this listing was created
	CreatedAt time.Time
	// UpdatedAt is when this listing was last updated
	UpdatedAt time.Time
}

// NewProductListing creates a new listing binding for a product
func NewProductListing(productID uuid.UUID, channelCode ChannelCode) (*ProductListing, error) {
	if productID == uuid.Nil {
		return nil, ErrListingInvalidProductID
	}
	if !channelCode.IsValid() {
		return nil, ErrListingInvalidChannel
	}

	now := time.Now()
	return &ProductListing{
		ID:             uuid.New(),
		ProductID:      productID,
		ChannelCode:    channelCode,
		IsActive:       true,
		SyncEnabled:    true,
		LastSyncStatus: SyncStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Validate validates the listing
func (l *ProductListing) Validate() error {
	if l.ProductID == uuid.Nil {
		return ErrListingInvalidProductID
	}
	if !l.ChannelCode.IsValid() {
		return ErrListingInvalidChannel
	}
	return nil
}

// MarkSynced records a successful sync and the channel-assigned listing ID
func (l *ProductListing) MarkSynced(channelProductID string) {
	now := time.Now()
	if channelProductID != "" {
		l.ChannelProductID = channelProductID
	}
	l.LastSyncAt = &now
	l.LastSyncStatus = SyncStatusSuccess
	l.LastSyncError = ""
	l.UpdatedAt = now
}

// MarkSyncFailed records a failed sync with the error message
func (l *ProductListing) MarkSyncFailed(errMsg string) {
	now := time.Now()
	l.LastSyncAt = &now
	l.LastSyncStatus = SyncStatusFailed
	l.LastSyncError = errMsg
	l.UpdatedAt = now
}

// Activate re-enables the listing
func (l *ProductListing) Activate() {
	l.IsActive = true
	l.UpdatedAt = time.Now()
}

// Deactivate takes the listing off sale (it is kept for history)
func (l *ProductListing) Deactivate() {
	l.IsActive = false
	l.UpdatedAt = time.Now()
}

// EnableSync turns automatic syncing back on
func (l *ProductListing) EnableSync() {
	l.SyncEnabled = true
	l.UpdatedAt = time.Now()
}

// DisableSync excludes the listing from scheduled sync runs
func (l *ProductListing) DisableSync() {
	l.SyncEnabled = false
	l.UpdatedAt = time.Now()
}

// NeedsSync returns true if the listing should be included in a sync run
func (l *ProductListing) NeedsSync(staleAfter time.Duration) bool {
	if !l.IsActive || !l.SyncEnabled {
		return false
	}
	if l.LastSyncStatus == SyncStatusPending || l.LastSyncStatus == SyncStatusFailed {
		return true
	}
	if l.LastSyncAt == nil {
		return true
	}
	return time.Since(*l.LastSyncAt) > staleAfter
}

// ---------------------------------------------------------------------------
// Repository
// ---------------------------------------------------------------------------

// ListingRepository persists product listings
type ListingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductListing, error)
	FindByProductAndChannel(ctx context.Context, productID uuid.UUID, channel ChannelCode) (*ProductListing, error)
	FindByChannelProductID(ctx context.Context, channel ChannelCode, channelProductID string) (*ProductListing, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]ProductListing, error)
	FindPendingSync(ctx context.Context, channel ChannelCode, staleAfter time.Duration, limit int) ([]ProductListing, error)
	CountByStatus(ctx context.Context, channel ChannelCode) (map[SyncStatus]int64, error)
	CountSyncEnabled(ctx context.Context) (int64, error)
	Save(ctx context.Context, listing *ProductListing) error
	Delete(ctx context.Context, id uuid.UUID) error
}
