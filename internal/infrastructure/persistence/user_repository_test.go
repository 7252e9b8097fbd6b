package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/identity"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

func newTestUser(t *testing.T, username string, role identity.UserRole) *identity.User {
	t.Helper()

	user, err := identity.NewUser(username, "s3cret-password!", role)
	require.NoError(t, err)
	return user
}

func TestGormUserRepository_SaveAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user := newTestUser(t, "sunwoo", identity.RoleAdmin)
	require.NoError(t, repo.Save(ctx, user))

	t.Run("find by ID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "sunwoo", found.Username)
		assert.Equal(t, identity.RoleAdmin, found.Role)
	})

	t.Run("find by username", func(t *testing.T) {
		found, err := repo.FindByUsername(ctx, "sunwoo")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.True(t, found.VerifyPassword("s3cret-password!"))

		_, err = repo.FindByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("login bookkeeping round trips", func(t *testing.T) {
		user.RecordLoginSuccess("10.0.0.5")
		require.NoError(t, repo.Save(ctx, user))

		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, found.LastLoginAt)
		assert.Equal(t, "10.0.0.5", found.LastLoginIP)
	})
}

func TestGormUserRepository_FindAllAndCount(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestUser(t, "admin1", identity.RoleAdmin)))
	require.NoError(t, repo.Save(ctx, newTestUser(t, "op1", identity.RoleOperator)))
	require.NoError(t, repo.Save(ctx, newTestUser(t, "op2", identity.RoleOperator)))

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	t.Run("filter by role", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["role"] = identity.RoleOperator

		users, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, users, 2)
	})

	t.Run("search by username", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "admin"

		users, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, users, 1)
		assert.Equal(t, "admin1", users[0].Username)
	})
}

func TestGormUserRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user := newTestUser(t, "todelete", identity.RoleViewer)
	require.NoError(t, repo.Save(ctx, user))

	require.NoError(t, repo.Delete(ctx, user.ID))
	assert.ErrorIs(t, repo.Delete(ctx, user.ID), shared.ErrNotFound)
}
