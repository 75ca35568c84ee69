package websocket

import (
	"sync"
	"sync/atomic"

	"ai-deckbot-be/internal/pkg/logger"
)

// Hub tracks live wizard connections and hands out per-connection user IDs.
// IDs are negative so they never collide with Telegram users in the shared
// session store.
type Hub struct {
	clients map[int64]*Client

	register   chan *Client
	unregister chan *Client
	stop       chan struct{}

	mu     sync.RWMutex
	nextID atomic.Int64

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[int64]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		logger:     log,
	}
}

func (h *Hub) newUserID() int64 {
	return -h.nextID.Add(1)
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = client
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID, "conn_id": client.ConnID.String()})

		case client := <-h.unregister:
			h.mu.Lock()
			if c, ok := h.clients[client.UserID]; ok && c == client {
				delete(h.clients, client.UserID)
				client.closeSend()
			}
			h.mu.Unlock()
			h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"user_id": client.UserID})

		case <-h.stop:
			return
		}
	}
}

// Register hands the client to Run. It reports false once the hub is stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.stop:
		return false
	}
}

// Unregister removes the client and closes its send channel. After Stop the
// channel is closed directly since Run no longer drains unregister.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stop:
		c.closeSend()
	}
}

func (h *Hub) Stop() {
	close(h.stop)
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
