// Package live pushes tracker events to WebSocket subscribers. One hub
// goroutine owns the client set; handlers and emitters only talk to it
// through channels.
package live

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"airdrop-tracker/internal/events"
	"airdrop-tracker/internal/logger"
	"airdrop-tracker/internal/observability"
)

const (
	// Pending broadcasts buffered before the hub starts dropping.
	broadcastBuffer = 256
	// Pending messages buffered per client before it counts as slow.
	clientBuffer = 64
	maxClients   = 1000
)

// Hub fans tracker events out to connected WebSocket clients. It
// implements events.Emitter, so it can sit directly behind the tracker
// next to the log or Kafka emitter.
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan events.Event
	clients    map[*client]bool
	count      atomic.Int64
	done       chan struct{}

	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewHub creates a hub. Run must be started for clients to receive
// anything.
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan events.Event, broadcastBuffer),
		clients:    make(map[*client]bool),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: logger.Component("live"),
	}
}

// Run owns the client set until the context is canceled. All
// registration and broadcasting happens on this goroutine, so the map
// needs no lock. Run must be called exactly once per hub.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
			}
			h.clients = make(map[*client]bool)
			h.count.Store(0)
			observability.UpdateLiveClients(0)
			return

		case c := <-h.register:
			if len(h.clients) >= maxClients {
				h.log.Warn().Int("max", maxClients).Msg("Client limit reached, rejecting connection")
				close(c.send)
				continue
			}
			h.clients[c] = true
			h.count.Store(int64(len(h.clients)))
			observability.UpdateLiveClients(len(h.clients))
			h.log.Debug().Int("clients", len(h.clients)).Msg("Client connected")

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.count.Store(int64(len(h.clients)))
			observability.UpdateLiveClients(len(h.clients))

		case ev := <-h.broadcast:
			h.deliver(ev)
		}
	}
}

func (h *Hub) deliver(ev events.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Error().Err(err).Str("type", string(ev.Type)).Msg("Event marshal failed")
		return
	}

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// A full buffer means the client stopped reading.
			delete(h.clients, c)
			close(c.send)
			h.log.Warn().Msg("Dropped slow client")
		}
	}
	h.count.Store(int64(len(h.clients)))
	observability.UpdateLiveClients(len(h.clients))
	observability.RecordEventBroadcast(string(ev.Type))
}

// Broadcast queues an event for delivery. It never blocks; events are
// dropped when the hub cannot keep up.
func (h *Hub) Broadcast(ev events.Event) {
	select {
	case h.broadcast <- ev:
	default:
		h.log.Warn().Str("type", string(ev.Type)).Msg("Broadcast queue full, event dropped")
	}
}

// Emit implements events.Emitter.
func (h *Hub) Emit(ev events.Event) error {
	h.Broadcast(ev)
	return nil
}

// Close implements events.Emitter. Shutdown happens through the Run
// context, so there is nothing to release here.
func (h *Hub) Close() error { return nil }

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// ServeHTTP upgrades the request and registers the connection with the
// hub.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, clientBuffer),
	}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump(h)
}

var _ events.Emitter = (*Hub)(nil)
