package websocket

import (
	"context"

	"ai-deckbot-be/internal/wizard"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Handler upgrades /ws/wizard requests and runs one wizard conversation per connection.
type Handler struct {
	hub    *Hub
	wizard *wizard.Wizard
	ctx    context.Context
}

func NewHandler(ctx context.Context, hub *Hub, w *wizard.Wizard) *Handler {
	return &Handler{hub: hub, wizard: w, ctx: ctx}
}

func (h *Handler) RegisterRoutes(r fiber.Router) {
	r.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	r.Get("/ws/wizard", websocket.New(h.ServeWs))
}

// ServeWs handles websocket requests from the peer.
func (h *Handler) ServeWs(c *websocket.Conn) {
	client := newClient(h.hub, c)
	if !h.hub.Register(client) {
		c.Close()
		return
	}

	go client.writePump()
	client.readPump(h.ctx, h.wizard)
}
