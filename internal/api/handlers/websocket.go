package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"qa-service/internal/websocket"
)

type WSHandler struct {
	hub *websocket.Hub
}

func NewWSHandler(hub *websocket.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// HandleWebSocket godoc
// @Summary WebSocket connection
// @Description Upgrade to a websocket; clients authenticate in-band with an `authenticate` event
// @Tags websocket
// @Success 101 "Switching Protocols"
// @Router /ws [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	if err := websocket.Serve(h.hub, c.Writer, c.Request); err != nil {
		slog.Error("WebSocket upgrade failed", "remote", c.ClientIP(), "error", err)
	}
}
