package integration

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductListing(t *testing.T) {
	productID := uuid.New()

	listing, err := NewProductListing(productID, ChannelCodeCoupang)
	require.NoError(t, err)

	assert.Equal(t, productID, listing.ProductID)
	assert.Equal(t, ChannelCodeCoupang, listing.ChannelCode)
	assert.Empty(t, listing.ChannelProductID)
	assert.True(t, listing.IsActive)
	assert.True(t, listing.SyncEnabled)
	assert.Equal(t, SyncStatusPending, listing.LastSyncStatus)
}

func TestNewProductListing_Invalid(t *testing.T) {
	_, err := NewProductListing(uuid.Nil, ChannelCodeCoupang)
	assert.ErrorIs(t, err, ErrListingInvalidProductID)

	_, err = NewProductListing(uuid.New(), ChannelCode("EBAY"))
	assert.ErrorIs(t, err, ErrListingInvalidChannel)
}

func TestProductListing_MarkSynced(t *testing.T) {
	listing, err := NewProductListing(uuid.New(), ChannelCodeSmartStore)
	require.NoError(t, err)

	listing.MarkSynced("1000012345")

	assert.Equal(t, "1000012345", listing.ChannelProductID)
	assert.Equal(t, SyncStatusSuccess, listing.LastSyncStatus)
	assert.Empty(t, listing.LastSyncError)
	require.NotNil(t, listing.LastSyncAt)

	// A later sync without a channel ID keeps the previous one
	listing.MarkSynced("")
	assert.Equal(t, "1000012345", listing.ChannelProductID)
}

func TestProductListing_MarkSyncFailed(t *testing.T) {
	listing, err := NewProductListing(uuid.New(), ChannelCodeCoupang)
	require.NoError(t, err)

	listing.MarkSyncFailed("channel rate limited")

	assert.Equal(t, SyncStatusFailed, listing.LastSyncStatus)
	assert.Equal(t, "channel rate limited", listing.LastSyncError)
}

func TestProductListing_NeedsSync(t *testing.T) {
	listing, err := NewProductListing(uuid.New(), ChannelCodeCoupang)
	require.NoError(t, err)

	// Pending listings always need sync
	assert.True(t, listing.NeedsSync(time.Hour))

	// Recently synced listings do not
	listing.MarkSynced("123")
	assert.False(t, listing.NeedsSync(time.Hour))

	// Stale listings do
	stale := time.Now().Add(-2 * time.Hour)
	listing.LastSyncAt = &stale
	assert.True(t, listing.NeedsSync(time.Hour))

	// Failed listings are retried regardless of age
	listing.MarkSyncFailed("boom")
	assert.True(t, listing.NeedsSync(time.Hour))

	// Inactive or sync-disabled listings are skipped
	listing.Deactivate()
	assert.False(t, listing.NeedsSync(time.Hour))
	listing.Activate()
	listing.DisableSync()
	assert.False(t, listing.NeedsSync(time.Hour))
}

func TestSyncResult_Finalize(t *testing.T) {
	cases := []struct {
		name    string
		success int
		failed  int
		want    SyncStatus
	}{
		{"all success", 5, 0, SyncStatusSuccess},
		{"partial", 3, 2, SyncStatusPartial},
		{"all failed", 0, 4, SyncStatusFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &SyncResult{TotalCount: tc.success + tc.failed, SuccessCount: tc.success, FailedCount: tc.failed}
			r.Finalize()
			assert.Equal(t, tc.want, r.Status)
		})
	}
}
