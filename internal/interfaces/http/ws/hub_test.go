package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/analytics"
)

func newTestClient() *Client {
	return &Client{send: make(chan []byte, 8)}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	first := newTestClient()
	second := newTestClient()
	hub.register <- first
	hub.register <- second

	hub.Broadcast(&analytics.Snapshot{UnreadCount: 3})

	for _, client := range []*Client{first, second} {
		select {
		case raw := <-client.send:
			var frame envelope
			require.NoError(t, json.Unmarshal(raw, &frame))
			assert.Equal(t, "dashboard_snapshot", frame.Type)
		case <-time.After(time.Second):
			t.Fatal("client did not receive broadcast")
		}
	}
}

func TestHub_UnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	client := newTestClient()
	hub.register <- client
	hub.unregister <- client

	select {
	case _, open := <-client.send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}

func TestHub_SlowConsumerIsDropped(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	slow := &Client{send: make(chan []byte)}
	hub.register <- slow

	// Unbuffered channel with no reader fills immediately
	hub.Broadcast(&analytics.Snapshot{})

	select {
	case _, open := <-slow.send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("slow client was not dropped")
	}
}
