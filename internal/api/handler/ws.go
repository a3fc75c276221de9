package handler

import (
	"net/http"

	"citizenvoice/backend/internal/eventhub"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are enforced by the CORS middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket godoc
// @Summary Event stream
// @Description Upgrades to a WebSocket that receives the caller's state changes as JSON.
// @Description The socket closes when another user signs in or the session ends.
// @Description Browsers can pass the token as ?token= instead of the header.
// @Tags events
// @Security BearerAuth
// @Router /ws [get]
func (h *Handler) ServeWebSocket(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		token = c.Query("token")
	}
	user, err := h.authenticate(c, token)
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := eventhub.NewWebSocketClient(uuid.NewString(), user.ID, conn, h.Hub, h.Logger)
	if !h.Hub.Register(client) {
		h.Logger.Warn("event hub stopped, closing websocket", zap.String("user_id", user.ID))
		conn.Close()
		return
	}
	client.Run()
}
