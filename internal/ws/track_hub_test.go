package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(userID uint) *Client {
	return &Client{UserID: userID, Role: "SUPERVISOR", Send: make(chan []byte, 8)}
}

func TestTrackHubMarkerSnapshot(t *testing.T) {
	hub := NewTrackHub()
	hub.UpdateLocation(1, 6.9271, 79.8612, true)
	hub.UpdateLocation(2, 6.9300, 79.8700, true)
	hub.UpdateLocation(3, 6.9400, 79.8800, false)

	markers := hub.GetMarkers()
	require.Len(t, markers, 2) // offline employees excluded
	ids := map[uint]bool{}
	for _, m := range markers {
		ids[m.UserID] = true
	}
	assert.True(t, ids[1])
	assert.True(t, ids[2])
}

func TestTrackHubSetOffline(t *testing.T) {
	hub := NewTrackHub()
	hub.UpdateLocation(1, 6.9271, 79.8612, true)
	hub.SetOffline(1)
	assert.Empty(t, hub.GetMarkers())

	// Unknown users are a no-op.
	hub.SetOffline(99)
	assert.Empty(t, hub.GetMarkers())
}

func TestTrackHubBroadcastsUpdates(t *testing.T) {
	hub := NewTrackHub()
	watcher := newTestClient(10)
	hub.Register(watcher)

	hub.UpdateLocation(1, 6.9271, 79.8612, true)
	select {
	case msg := <-watcher.Send:
		assert.Contains(t, string(msg), `"user_id":1`)
	default:
		t.Fatal("expected a marker broadcast")
	}
}

func TestHubBroadcastToUser(t *testing.T) {
	hub := NewHub()
	a := newTestClient(1)
	b := newTestClient(2)
	hub.Register(a)
	hub.Register(b)

	hub.BroadcastToUser(1, map[string]string{"hello": "world"})
	assert.Len(t, a.Send, 1)
	assert.Empty(t, b.Send)
}
