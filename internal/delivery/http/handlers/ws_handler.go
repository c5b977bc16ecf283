package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/ratewatch/rates-service/internal/delivery/ws"
)

type WSHandler struct {
	hub *ws.Hub
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Serve registers the connection in the hub and drains inbound frames until
// the client goes away. Inbound traffic is keep-alive only.
func (h *WSHandler) Serve(conn *websocket.Conn) {
	sub := ws.NewConnSubscriber(conn)
	h.hub.Register(sub)
	defer h.hub.Unregister(sub)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
