package supplier

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
)

func TestNewAccount(t *testing.T) {
	acc, err := NewAccount(integration.SourceCodeOwnerClan, "main", "key-123", "secret-456")
	require.NoError(t, err)

	assert.Equal(t, integration.SourceCodeOwnerClan, acc.SourceCode)
	assert.Equal(t, AccountStatusActive, acc.Status)
	assert.True(t, acc.IsCollectable())
}

func TestNewAccount_Invalid(t *testing.T) {
	_, err := NewAccount(integration.SourceCode("ALIBABA"), "main", "key", "")
	assert.Error(t, err)

	_, err = NewAccount(integration.SourceCodeDomeggook, "", "key", "")
	assert.Error(t, err)

	_, err = NewAccount(integration.SourceCodeDomeggook, "main", "", "")
	assert.Error(t, err)
}

func TestAccount_TokenLifecycle(t *testing.T) {
	acc, err := NewAccount(integration.SourceCodeOwnerClan, "main", "key", "secret")
	require.NoError(t, err)

	assert.False(t, acc.TokenValid())

	acc.StoreToken("tok-abc", time.Now().Add(time.Hour))
	assert.True(t, acc.TokenValid())

	// Tokens about to expire are treated as invalid
	acc.StoreToken("tok-abc", time.Now().Add(30*time.Second))
	assert.False(t, acc.TokenValid())
}

func TestAccount_RecordCollection(t *testing.T) {
	acc, err := NewAccount(integration.SourceCodeDomeggook, "main", "key", "")
	require.NoError(t, err)

	acc.RecordCollection(250, nil)
	assert.Equal(t, 250, acc.LastCollectedCount)
	assert.Empty(t, acc.LastCollectError)
	assert.NotNil(t, acc.LastCollectedAt)

	acc.RecordCollection(0, errors.New("source timeout"))
	assert.Equal(t, "source timeout", acc.LastCollectError)
}

func TestAccount_AuthFailureAndRecovery(t *testing.T) {
	acc, err := NewAccount(integration.SourceCodeOwnerClan, "main", "key", "secret")
	require.NoError(t, err)
	acc.StoreToken("tok", time.Now().Add(time.Hour))

	acc.MarkAuthFailed()
	assert.Equal(t, AccountStatusAuthFailed, acc.Status)
	assert.False(t, acc.IsCollectable())
	assert.False(t, acc.TokenValid())

	// New credentials clear the failure
	require.NoError(t, acc.UpdateCredentials("new-key", "new-secret"))
	assert.Equal(t, AccountStatusActive, acc.Status)
}

func TestAccount_EnableDisable(t *testing.T) {
	acc, err := NewAccount(integration.SourceCodeZentrade, "main", "key", "")
	require.NoError(t, err)

	require.NoError(t, acc.Disable())
	assert.False(t, acc.IsCollectable())
	assert.Error(t, acc.Disable())

	require.NoError(t, acc.Enable())
	assert.True(t, acc.IsCollectable())
}
