// Package realtime pushes newly created alerts to connected websocket
// clients. Each client subscribes for one user; alerts fan out only to that
// user's connections.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	models "bazaar-radar/database/models_pkg"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

// Client is one websocket subscription.
type Client struct {
	userID uint
	conn   *websocket.Conn
	send   chan []byte
}

// Hub tracks websocket subscriptions per user and fans committed alerts
// out to them. It satisfies the pipeline's AlertSink.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*Client]bool
	logger  *zap.SugaredLogger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		clients: make(map[uint]map[*Client]bool),
		logger:  logger,
	}
}

// Register attaches a websocket connection for a user and starts its read
// and write pumps. The connection is closed and removed when either pump
// stops.
func (h *Hub) Register(userID uint, conn *websocket.Conn) {
	client := &Client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*Client]bool)
	}
	h.clients[userID][client] = true
	h.mu.Unlock()

	h.logger.Infow("websocket client connected", "user_id", userID)

	go h.writePump(client)
	go h.readPump(client)
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	if conns, ok := h.clients[client.userID]; ok && conns[client] {
		delete(conns, client)
		if len(conns) == 0 {
			delete(h.clients, client.userID)
		}
		close(client.send)
	}
	h.mu.Unlock()
	client.conn.Close()
}

// readPump drains incoming frames until the peer disconnects. Inbound
// payloads are ignored; the socket is push-only.
func (h *Hub) readPump(client *Client) {
	defer h.remove(client)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// AlertCreated pushes a committed alert to the owning user's connections.
// Slow clients are skipped rather than blocking the pipeline.
func (h *Hub) AlertCreated(alert *models.Alert) {
	payload, err := json.Marshal(map[string]interface{}{
		"event": "alert.created",
		"alert": alert,
	})
	if err != nil {
		h.logger.Errorw("alert payload marshal failed", "alert_id", alert.ID, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[alert.UserID] {
		select {
		case client.send <- payload:
		default:
			h.logger.Warnw("dropping alert push, client send buffer full", "user_id", alert.UserID)
		}
	}
}

// Shutdown closes every connection.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, conns := range h.clients {
		for client := range conns {
			close(client.send)
			client.conn.Close()
		}
		delete(h.clients, userID)
	}
}
