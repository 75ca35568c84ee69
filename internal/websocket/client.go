package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"ai-deckbot-be/internal/wizard"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	ChannelName    = "websocket"
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

var ErrClientClosed = errors.New("websocket client closed")

// Client is one wizard conversation over a websocket. It implements
// wizard.Messenger by queueing frames for the write pump.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	ConnID uuid.UUID
	UserID int64

	// Buffered channel of outbound frames.
	Send chan []byte

	closeOnce sync.Once
	closed    atomic.Bool
	messageID atomic.Int64
}

var _ wizard.Messenger = (*Client)(nil)

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		ConnID: uuid.New(),
		UserID: hub.newUserID(),
		Send:   make(chan []byte, sendBuffer),
	}
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.Send)
	})
}

func (c *Client) push(frame OutboundFrame) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	select {
	case c.Send <- data:
		return nil
	case <-time.After(writeWait):
		return errors.New("websocket send buffer full")
	}
}

func (c *Client) Channel() string {
	return ChannelName
}

func (c *Client) SendText(_ context.Context, _ int64, text string, kb wizard.Keyboard) (int, error) {
	id := int(c.messageID.Add(1))
	return id, c.push(OutboundFrame{Type: "message", MessageID: id, Text: text, Keyboard: kb})
}

func (c *Client) EditText(_ context.Context, _ int64, messageID int, text string, kb wizard.Keyboard) error {
	return c.push(OutboundFrame{Type: "edit", MessageID: messageID, Text: text, Keyboard: kb})
}

func (c *Client) SendDocument(_ context.Context, _ int64, fileName string, data []byte, caption string) error {
	return c.push(documentFrame(fileName, data, caption))
}

// AnswerCallback is a no-op; web clients need no acknowledgement.
func (c *Client) AnswerCallback(context.Context, string) error {
	return nil
}

// readPump feeds inbound frames to the wizard one at a time.
func (c *Client) readPump(ctx context.Context, w *wizard.Wizard) {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Hub", "Unexpected close", map[string]interface{}{"user_id": c.UserID, "error": err.Error()})
			}
			return
		}

		ev, err := ParseFrame(raw, c.UserID)
		if err != nil {
			_ = c.push(OutboundFrame{Type: "error", Text: err.Error()})
			continue
		}
		// Generation can outlast the read deadline.
		c.Conn.SetReadDeadline(time.Time{})
		if err := w.Handle(ctx, c, ev); err != nil {
			c.Hub.logger.Warn("Hub", "Wizard failed to respond", map[string]interface{}{"user_id": c.UserID, "error": err.Error()})
		}
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

// writePump writes one frame per websocket message and keeps the connection alive.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
