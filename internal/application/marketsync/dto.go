package marketsync

import (
	"time"

	"github.com/google/uuid"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
)

// ============================================================================
// Request DTOs
// ============================================================================

// CreateListingRequest binds a product to a marketplace channel
type CreateListingRequest struct {
	ProductID   uuid.UUID `json:"product_id" binding:"required"`
	ChannelCode string    `json:"channel_code" binding:"required,oneof=COUPANG SMARTSTORE GMARKET ELEVENST"`
}

// ============================================================================
// Response DTOs
// ============================================================================

// ListingResponse represents a product listing in API responses
type ListingResponse struct {
	ID                 uuid.UUID  `json:"id"`
	ProductID          uuid.UUID  `json:"product_id"`
	ChannelCode        string     `json:"channel_code"`
	ChannelProductID   string     `json:"channel_product_id,omitempty"`
	ChannelProductName string     `json:"channel_product_name,omitempty"`
	IsActive           bool       `json:"is_active"`
	SyncEnabled        bool       `json:"sync_enabled"`
	LastSyncAt         *time.Time `json:"last_sync_at,omitempty"`
	LastSyncStatus     string     `json:"last_sync_status"`
	LastSyncError      string     `json:"last_sync_error,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ListingCountsResponse represents listing counts by sync status for a channel
type ListingCountsResponse struct {
	ChannelCode string `json:"channel_code"`
	Total       int64  `json:"total"`
	Pending     int64  `json:"pending"`
	Synced      int64  `json:"synced"`
	Failed      int64  `json:"failed"`
}

// SyncRunResponse summarizes one listing sync run against a channel
type SyncRunResponse struct {
	ChannelCode string        `json:"channel_code"`
	Status      string        `json:"status"`
	Total       int           `json:"total"`
	Synced      int           `json:"synced"`
	Failed      int           `json:"failed"`
	Skipped     int           `json:"skipped"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
}

// ============================================================================
// Conversion Functions
// ============================================================================

// ToListingResponse converts a domain ProductListing to ListingResponse
func ToListingResponse(l *integration.ProductListing) ListingResponse {
	return ListingResponse{
		ID:                 l.ID,
		ProductID:          l.ProductID,
		ChannelCode:        l.ChannelCode.String(),
		ChannelProductID:   l.ChannelProductID,
		ChannelProductName: l.ChannelProductName,
		IsActive:           l.IsActive,
		SyncEnabled:        l.SyncEnabled,
		LastSyncAt:         l.LastSyncAt,
		LastSyncStatus:     l.LastSyncStatus.String(),
		LastSyncError:      l.LastSyncError,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
}

// ToListingResponses converts domain ProductListings to responses
func ToListingResponses(listings []integration.ProductListing) []ListingResponse {
	responses := make([]ListingResponse, len(listings))
	for i := range listings {
		responses[i] = ToListingResponse(&listings[i])
	}
	return responses
}
