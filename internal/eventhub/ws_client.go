package eventhub

import (
	"encoding/json"
	"sync"
	"time"

	"citizenvoice/backend/internal/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

// WebSocketClient streams events to one WebSocket connection. Incoming
// messages are only read to process control frames.
type WebSocketClient struct {
	ClientID string
	UserID   string
	Conn     *websocket.Conn
	Hub      *Hub
	Send     chan models.Event
	Logger   *zap.Logger

	closeOnce sync.Once
}

func NewWebSocketClient(id, userID string, conn *websocket.Conn, hub *Hub, logger *zap.Logger) *WebSocketClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketClient{
		ClientID: id,
		UserID:   userID,
		Conn:     conn,
		Hub:      hub,
		Send:     make(chan models.Event, sendBuffer),
		Logger:   logger,
	}
}

func (c *WebSocketClient) GetClientID() string                 { return c.ClientID }
func (c *WebSocketClient) GetUserID() string                   { return c.UserID }
func (c *WebSocketClient) GetSendChannel() chan<- models.Event { return c.Send }

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes Send, which stops writePump.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

func (c *WebSocketClient) readPump() {
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
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Logger.Warn("websocket read failed", zap.String("client_id", c.ClientID), zap.Error(err))
			}
			return
		}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(ev)
			if err != nil {
				c.Logger.Error("failed to encode event", zap.String("client_id", c.ClientID), zap.Error(err))
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
