package devtools

import (
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Hub fans state-change events out to connected websocket clients and
// retains the latest event per store for snapshot listing. Publish may
// be called from any scope goroutine; the hub does its own locking.
type Hub struct {
	clients  map[*websocket.Conn]string // conn -> client id for logs
	latest   map[string]Event
	mu       sync.RWMutex
	seq      atomic.Uint64
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithLogger sets the hub's logger.
// Default: slog.Default with a "devtools" component.
func WithLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) { h.logger = logger }
}

// NewHub creates an empty hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		clients: make(map[*websocket.Conn]string),
		latest:  make(map[string]Event),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // inspection tool, bind it to localhost
			},
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.Default().With("component", "devtools")
	}
	return h
}

// Publish stamps the event with the next sequence number and broadcasts
// it to all connected clients.
func (h *Hub) Publish(ev Event) {
	ev.Seq = h.seq.Add(1)

	// Writes happen under the lock: gorilla connections allow only one
	// concurrent writer, and Publish may be called from any scope.
	h.mu.Lock()
	h.latest[ev.Store] = ev
	var failed []*websocket.Conn
	for conn := range h.clients {
		if err := conn.WriteJSON(ev); err != nil {
			failed = append(failed, conn)
		}
	}
	for _, conn := range failed {
		delete(h.clients, conn)
	}
	h.mu.Unlock()

	for _, conn := range failed {
		conn.Close()
	}
}

// Latest returns the most recent event per store.
func (h *Hub) Latest() []Event {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Event, 0, len(h.latest))
	for _, ev := range h.latest {
		out = append(out, ev)
	}
	return out
}

// HandleWebSocket upgrades the request and streams events until the
// client disconnects. New clients first receive the latest event of
// every store so they start with a full picture.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	id := uuid.NewString()
	h.logger.Info("client connected", "client", id, "remote", req.RemoteAddr)

	for _, ev := range h.Latest() {
		if err := conn.WriteJSON(ev); err != nil {
			conn.Close()
			return
		}
	}

	h.mu.Lock()
	h.clients[conn] = id
	h.mu.Unlock()

	// Hold the connection open until the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.drop(conn)
	h.logger.Info("client disconnected", "client", id)
}

// drop removes and closes a client connection.
func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// Clients reports the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
