package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("Admin.User", "secret1234", RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, "admin.user", user.Username)
	assert.Equal(t, RoleAdmin, user.Role)
	assert.Equal(t, UserStatusActive, user.Status)
	assert.True(t, user.VerifyPassword("secret1234"))
	assert.False(t, user.VerifyPassword("wrong"))
}

func TestNewUser_Validation(t *testing.T) {
	cases := []struct {
		name     string
		username string
		password string
		role     UserRole
	}{
		{"short username", "ab", "secret1234", RoleOperator},
		{"bad characters", "user name", "secret1234", RoleOperator},
		{"short password", "gooduser", "ab1", RoleOperator},
		{"password without digit", "gooduser", "onlyletters", RoleOperator},
		{"unknown role", "gooduser", "secret1234", UserRole("root")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewUser(tc.username, tc.password, tc.role)
			assert.Error(t, err)
		})
	}
}

func TestUser_ChangePassword(t *testing.T) {
	user, err := NewUser("operator1", "secret1234", RoleOperator)
	require.NoError(t, err)

	assert.Error(t, user.ChangePassword("wrongpass1", "newsecret1"))
	require.NoError(t, user.ChangePassword("secret1234", "newsecret1"))
	assert.True(t, user.VerifyPassword("newsecret1"))
}

func TestUser_LoginFailureLockout(t *testing.T) {
	user, err := NewUser("operator1", "secret1234", RoleOperator)
	require.NoError(t, err)

	locked := false
	for i := 0; i < 5; i++ {
		locked = user.RecordLoginFailure(5, time.Hour)
	}

	assert.True(t, locked)
	assert.True(t, user.IsLocked())
	assert.False(t, user.CanLogin())

	require.NoError(t, user.Unlock())
	assert.True(t, user.CanLogin())
	assert.Equal(t, 0, user.FailedAttempts)
}

func TestUser_ExpiredLockAllowsLogin(t *testing.T) {
	user, err := NewUser("operator1", "secret1234", RoleOperator)
	require.NoError(t, err)

	require.NoError(t, user.Lock(-time.Minute))
	assert.False(t, user.IsLocked())
	assert.True(t, user.CanLogin())
}

func TestUser_Deactivate(t *testing.T) {
	user, err := NewUser("operator1", "secret1234", RoleOperator)
	require.NoError(t, err)

	require.NoError(t, user.Deactivate())
	assert.False(t, user.CanLogin())
	assert.Error(t, user.Deactivate())

	require.NoError(t, user.Activate())
	assert.True(t, user.CanLogin())
}
