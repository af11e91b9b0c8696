package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Selora-Finance/interface-sub000/internal/metrics"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // same-origin or non-browser client
		}

		originURL, err := url.Parse(origin)
		if err != nil {
			return false
		}

		if originURL.Host == r.Host {
			return true
		}

		// Allow localhost connections (common for development)
		if originURL.Hostname() == "localhost" || originURL.Hostname() == "127.0.0.1" {
			return true
		}

		return false
	},
}

// Update is the envelope pushed to websocket clients whenever a cached view
// or the preferences change.
type Update struct {
	Topic string `json:"topic"`
	Data  any    `json:"data"`
}

// WebSocketServer pushes view updates to connected clients.
type WebSocketServer struct {
	logger  *slog.Logger
	metrics *metrics.Metrics

	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex
}

// NewWebSocketServer creates a new websocket broadcaster.
func NewWebSocketServer(logger *slog.Logger, m *metrics.Metrics) *WebSocketServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketServer{
		logger:  logger,
		metrics: m,
		clients: make(map[*websocket.Conn]bool),
	}
}

// Handler returns the websocket HTTP handler.
func (ws *WebSocketServer) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			ws.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
			return
		}

		ws.clientsMu.Lock()
		ws.clients[conn] = true
		total := len(ws.clients)
		ws.clientsMu.Unlock()
		if ws.metrics != nil {
			ws.metrics.WSClients.Set(float64(total))
		}

		ws.logger.Debug("websocket client connected", slog.Int("total_clients", total))

		defer func() {
			ws.clientsMu.Lock()
			delete(ws.clients, conn)
			total := len(ws.clients)
			ws.clientsMu.Unlock()
			conn.Close()
			if ws.metrics != nil {
				ws.metrics.WSClients.Set(float64(total))
			}

			ws.logger.Debug("websocket client disconnected", slog.Int("total_clients", total))
		}()

		// Read loop exists only to detect disconnects and answer pings.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					ws.logger.Debug("websocket read error", slog.String("error", err.Error()))
				}
				break
			}
		}
	}
}

// Publish sends a topic update to all connected clients. Publishers are
// serialized under the write lock: the websocket protocol allows only one
// concurrent writer per connection.
func (ws *WebSocketServer) Publish(topic string, data any) {
	payload, err := json.Marshal(Update{Topic: topic, Data: data})
	if err != nil {
		ws.logger.Error("failed to marshal update",
			slog.String("topic", topic),
			slog.String("error", err.Error()))
		return
	}

	ws.clientsMu.Lock()
	defer ws.clientsMu.Unlock()

	for conn := range ws.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			// The read loop cleans the connection up.
			ws.logger.Debug("failed to write to websocket", slog.String("error", err.Error()))
		}
	}
}

// Stop closes all client connections.
func (ws *WebSocketServer) Stop() {
	ws.clientsMu.Lock()
	for conn := range ws.clients {
		conn.Close()
	}
	ws.clients = make(map[*websocket.Conn]bool)
	ws.clientsMu.Unlock()
	if ws.metrics != nil {
		ws.metrics.WSClients.Set(0)
	}
}

// ClientCount returns the number of connected clients.
func (ws *WebSocketServer) ClientCount() int {
	ws.clientsMu.RLock()
	defer ws.clientsMu.RUnlock()
	return len(ws.clients)
}
