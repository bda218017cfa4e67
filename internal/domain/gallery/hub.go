package gallery

import (
	"context"
	"encoding/json"
	"expvar"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	wsConnectionsGauge = expvar.NewInt("websocket_connections")
	wsEventsSentTotal  = expvar.NewInt("websocket_events_sent_total")
)

// Connection represents one subscribed front end
type Connection struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans catalog change events out to connected front ends so open views
// stay consistent with the store without polling.
type Hub struct {
	store *Store

	mu          sync.RWMutex
	connections map[*Connection]bool

	register   chan *Connection
	unregister chan *Connection

	upgrader websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates a hub over the store's change events
func NewHub(store *Store, allowedOrigins []string) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &Hub{
		store:       store,
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins[origin] || origins["*"]
			},
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

// Run pumps store events to all connections until Shutdown
func (h *Hub) Run() {
	events := h.store.Subscribe()
	defer h.store.Unsubscribe(events)

	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.connections[conn] = true
			h.mu.Unlock()
			wsConnectionsGauge.Add(1)

		case conn := <-h.unregister:
			h.mu.Lock()
			if h.connections[conn] {
				delete(h.connections, conn)
				close(conn.send)
			}
			h.mu.Unlock()
			wsConnectionsGauge.Add(-1)

		case event := <-events:
			payload, err := json.Marshal(event)
			if err != nil {
				log.Error().Err(err).Msg("Failed to marshal change event")
				continue
			}
			h.broadcast(payload)

		case <-h.ctx.Done():
			h.mu.Lock()
			for conn := range h.connections {
				close(conn.send)
				delete(h.connections, conn)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Shutdown stops the hub and closes all connections
func (h *Hub) Shutdown() {
	h.cancel()
}

func (h *Hub) broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.connections {
		select {
		case conn.send <- payload:
			wsEventsSentTotal.Add(1)
		default:
			// Slow consumer: drop the event rather than block the hub
			log.Warn().Msg("Dropping change event for slow websocket client")
		}
	}
}

// ServeWS handles GET /ws: upgrades the connection and streams change events
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	conn := &Connection{
		conn: ws,
		send: make(chan []byte, 32),
	}
	h.register <- conn

	go conn.writePump()
	go conn.readPump(h)
}

func (c *Connection) writePump() {
	defer c.conn.Close()
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump discards client messages; its job is detecting the disconnect
func (c *Connection) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
