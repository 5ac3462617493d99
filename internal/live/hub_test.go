package live

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airdrop-tracker/internal/events"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()

	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)

	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	return h, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	h, url := startHub(t)

	first := dial(t, url)
	second := dial(t, url)
	require.Eventually(t, func() bool { return h.ClientCount() == 2 },
		2*time.Second, 10*time.Millisecond)

	h.Broadcast(events.Event{
		Type:      events.TypeTransactionLogged,
		RecordID:  "tx-1",
		Timestamp: 1704067200000,
	})

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)

		var got events.Event
		require.NoError(t, json.Unmarshal(msg, &got))
		assert.Equal(t, events.TypeTransactionLogged, got.Type)
		assert.Equal(t, "tx-1", got.RecordID)
	}
}

func TestHub_EmitDelivers(t *testing.T) {
	h, url := startHub(t)

	conn := dial(t, url)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	require.NoError(t, h.Emit(events.Event{Type: events.TypeWalletAdded, RecordID: "w-1"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got events.Event
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, events.TypeWalletAdded, got.Type)
}

func TestHub_UnregistersDisconnectedClient(t *testing.T) {
	h, url := startHub(t)

	conn := dial(t, url)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return h.ClientCount() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	conn := dial(t, "ws"+strings.TrimPrefix(server.URL, "http"))
	require.Eventually(t, func() bool { return h.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	cancel()

	// The hub sends a close frame on shutdown; the read surfaces it.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	require.Eventually(t, func() bool { return h.ClientCount() == 0 },
		2*time.Second, 10*time.Millisecond)
}
