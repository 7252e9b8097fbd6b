package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

func newTestListing(t *testing.T, channel integration.ChannelCode) *integration.ProductListing {
	t.Helper()

	listing, err := integration.NewProductListing(uuid.New(), channel)
	require.NoError(t, err)
	return listing
}

func TestGormListingRepository_SaveAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormListingRepository(db)
	ctx := context.Background()

	listing := newTestListing(t, integration.ChannelCodeCoupang)
	require.NoError(t, repo.Save(ctx, listing))

	t.Run("find by ID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, listing.ID)
		require.NoError(t, err)
		assert.Equal(t, integration.SyncStatusPending, found.LastSyncStatus)
		assert.True(t, found.IsActive)
	})

	t.Run("find by product and channel", func(t *testing.T) {
		found, err := repo.FindByProductAndChannel(ctx, listing.ProductID, integration.ChannelCodeCoupang)
		require.NoError(t, err)
		assert.Equal(t, listing.ID, found.ID)

		_, err = repo.FindByProductAndChannel(ctx, listing.ProductID, integration.ChannelCodeSmartStore)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("find by channel product ID after sync", func(t *testing.T) {
		listing.MarkSynced("CP-9001")
		require.NoError(t, repo.Save(ctx, listing))

		found, err := repo.FindByChannelProductID(ctx, integration.ChannelCodeCoupang, "CP-9001")
		require.NoError(t, err)
		assert.Equal(t, listing.ID, found.ID)
		assert.Equal(t, integration.SyncStatusSuccess, found.LastSyncStatus)
	})

	t.Run("find by product lists all channels", func(t *testing.T) {
		second, err := integration.NewProductListing(listing.ProductID, integration.ChannelCodeSmartStore)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, second))

		listings, err := repo.FindByProduct(ctx, listing.ProductID)
		require.NoError(t, err)
		assert.Len(t, listings, 2)
	})
}

func TestGormListingRepository_FindPendingSync(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormListingRepository(db)
	ctx := context.Background()
	staleAfter := time.Hour

	pending := newTestListing(t, integration.ChannelCodeCoupang)
	require.NoError(t, repo.Save(ctx, pending))

	failed := newTestListing(t, integration.ChannelCodeCoupang)
	failed.MarkSyncFailed("rate limited")
	require.NoError(t, repo.Save(ctx, failed))

	stale := newTestListing(t, integration.ChannelCodeCoupang)
	stale.MarkSynced("CP-1")
	past := time.Now().Add(-2 * time.Hour)
	stale.LastSyncAt = &past
	require.NoError(t, repo.Save(ctx, stale))

	fresh := newTestListing(t, integration.ChannelCodeCoupang)
	fresh.MarkSynced("CP-2")
	require.NoError(t, repo.Save(ctx, fresh))

	disabled := newTestListing(t, integration.ChannelCodeCoupang)
	disabled.DisableSync()
	require.NoError(t, repo.Save(ctx, disabled))

	inactive := newTestListing(t, integration.ChannelCodeCoupang)
	inactive.Deactivate()
	require.NoError(t, repo.Save(ctx, inactive))

	otherChannel := newTestListing(t, integration.ChannelCodeSmartStore)
	require.NoError(t, repo.Save(ctx, otherChannel))

	listings, err := repo.FindPendingSync(ctx, integration.ChannelCodeCoupang, staleAfter, 50)
	require.NoError(t, err)

	ids := make(map[uuid.UUID]bool, len(listings))
	for _, l := range listings {
		ids[l.ID] = true
	}
	assert.Len(t, listings, 3)
	assert.True(t, ids[pending.ID])
	assert.True(t, ids[failed.ID])
	assert.True(t, ids[stale.ID])

	t.Run("limit caps the batch", func(t *testing.T) {
		listings, err := repo.FindPendingSync(ctx, integration.ChannelCodeCoupang, staleAfter, 2)
		require.NoError(t, err)
		assert.Len(t, listings, 2)
	})
}

func TestGormListingRepository_CountByStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormListingRepository(db)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Save(ctx, newTestListing(t, integration.ChannelCodeCoupang)))
	}
	synced := newTestListing(t, integration.ChannelCodeCoupang)
	synced.MarkSynced("CP-1")
	require.NoError(t, repo.Save(ctx, synced))

	require.NoError(t, repo.Save(ctx, newTestListing(t, integration.ChannelCodeSmartStore)))

	counts, err := repo.CountByStatus(ctx, integration.ChannelCodeCoupang)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[integration.SyncStatusPending])
	assert.Equal(t, int64(1), counts[integration.SyncStatusSuccess])
}

func TestGormListingRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormListingRepository(db)
	ctx := context.Background()

	listing := newTestListing(t, integration.ChannelCodeCoupang)
	require.NoError(t, repo.Save(ctx, listing))

	require.NoError(t, repo.Delete(ctx, listing.ID))
	assert.ErrorIs(t, repo.Delete(ctx, listing.ID), shared.ErrNotFound)
}
