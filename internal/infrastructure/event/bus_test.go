package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

type recordingHandler struct {
	types    []string
	received []string
	fail     bool
	panics   bool
}

func (h *recordingHandler) Handle(_ context.Context, evt shared.DomainEvent) error {
	if h.panics {
		panic("handler blew up")
	}
	h.received = append(h.received, evt.EventType())
	if h.fail {
		return errors.New("handler error")
	}
	return nil
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func newEvent(eventType string) shared.DomainEvent {
	evt := shared.NewBaseDomainEvent(eventType, "Test", uuid.Nil)
	return &evt
}

func TestBus_TypedSubscription(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"order.received"}}
	bus.Subscribe(h)

	require.NoError(t, bus.Publish(context.Background(),
		newEvent("order.received"),
		newEvent("order.shipped"),
	))

	assert.Equal(t, []string{"order.received"}, h.received)
}

func TestBus_WildcardSubscription(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{}
	bus.Subscribe(h)

	require.NoError(t, bus.Publish(context.Background(),
		newEvent("a"), newEvent("b"),
	))

	assert.Equal(t, []string{"a", "b"}, h.received)
}

func TestBus_FailingHandlerDoesNotBlockOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{"x"}, fail: true}
	healthy := &recordingHandler{types: []string{"x"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newEvent("x")))

	assert.Len(t, failing.received, 1)
	assert.Len(t, healthy.received, 1)
}

func TestBus_PanickingHandlerIsRecovered(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	panicking := &recordingHandler{types: []string{"x"}, panics: true}
	healthy := &recordingHandler{types: []string{"x"}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newEvent("x")))
	assert.Len(t, healthy.received, 1)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"x"}}
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newEvent("x")))
	assert.Empty(t, h.received)
}
