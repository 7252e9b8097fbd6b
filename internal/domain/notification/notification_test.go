package notification

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

func TestNew(t *testing.T) {
	n, err := New(KindSoldOut, shared.SeverityHigh, "품절 발생", "무선 마우스 품절")
	require.NoError(t, err)

	assert.Equal(t, KindSoldOut, n.Kind)
	assert.False(t, n.IsRead())
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(Kind("bogus"), shared.SeverityLow, "t", "m")
	assert.Error(t, err)

	_, err = New(KindSoldOut, shared.SeverityLow, "", "m")
	assert.Error(t, err)
}

func TestNotification_WithRef(t *testing.T) {
	id := uuid.New()
	n, err := New(KindOrderReceived, shared.SeverityLow, "신규 주문", "")
	require.NoError(t, err)

	n.WithRef("Order", id)
	assert.Equal(t, "Order", n.RefType)
	require.NotNil(t, n.RefID)
	assert.Equal(t, id, *n.RefID)
}

func TestNotification_MarkReadIdempotent(t *testing.T) {
	n, err := New(KindSyncFailed, shared.SeverityMedium, "동기화 실패", "")
	require.NoError(t, err)

	n.MarkRead()
	require.True(t, n.IsRead())
	first := *n.ReadAt

	n.MarkRead()
	assert.Equal(t, first, *n.ReadAt)
}
