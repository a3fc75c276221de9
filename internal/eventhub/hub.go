// Package eventhub fans state change events out to connected subscribers.
package eventhub

import (
	"context"

	"citizenvoice/backend/internal/models"

	"go.uber.org/zap"
)

const broadcastBuffer = 64

// Hub owns the set of registered clients. All mutations of Clients happen on
// the Run goroutine.
//
// A client only receives events for the user it was opened by. A session
// change to another user, or a logout, disconnects it.
type Hub struct {
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	BroadcastCh  chan models.Event

	done   chan struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		BroadcastCh:  make(chan models.Event, broadcastBuffer),
		done:         make(chan struct{}),
		logger:       logger,
	}
}

// Register adds c to the hub. It reports false, without blocking, once the
// hub has stopped.
func (h *Hub) Register(c Client) bool {
	select {
	case h.RegisterCh <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes and closes c. It returns immediately once the hub has
// stopped.
func (h *Hub) Unregister(c Client) {
	select {
	case h.UnregisterCh <- c:
	case <-h.done:
	}
}

// Run dispatches register, unregister and broadcast requests until ctx is done.
// It must be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for id, c := range h.Clients {
				delete(h.Clients, id)
				c.Close()
			}
			return

		case c := <-h.RegisterCh:
			h.Clients[c.GetClientID()] = c
			h.logger.Debug("subscriber registered", zap.String("client_id", c.GetClientID()), zap.String("user_id", c.GetUserID()))

		case c := <-h.UnregisterCh:
			h.drop(c.GetClientID())

		case ev := <-h.BroadcastCh:
			h.broadcast(ev)
		}
	}
}

func (h *Hub) broadcast(ev models.Event) {
	for id, c := range h.Clients {
		if ev.Type == models.EventSessionChanged && c.GetUserID() != ev.UserID {
			h.logger.Debug("session changed, disconnecting subscriber", zap.String("client_id", id), zap.String("user_id", c.GetUserID()))
			h.drop(id)
			continue
		}
		if !addressedTo(ev, c.GetUserID()) {
			continue
		}
		select {
		case c.GetSendChannel() <- ev:
		default:
			h.logger.Warn("subscriber too slow, dropping", zap.String("client_id", id))
			h.drop(id)
		}
	}
}

// addressedTo reports whether ev may be shown to userID. Notifications for a
// specific user go to that user only.
func addressedTo(ev models.Event, userID string) bool {
	if ev.Notification != nil && ev.Notification.UserID != "" {
		return ev.Notification.UserID == userID
	}
	return true
}

func (h *Hub) drop(id string) {
	c, ok := h.Clients[id]
	if !ok {
		return
	}
	delete(h.Clients, id)
	c.Close()
	h.logger.Debug("subscriber removed", zap.String("client_id", id))
}

// Publish queues ev for broadcast. It never blocks; when the queue is full the
// event is dropped and logged.
func (h *Hub) Publish(ev models.Event) {
	select {
	case h.BroadcastCh <- ev:
	default:
		h.logger.Warn("event queue full, dropping event", zap.String("type", string(ev.Type)))
	}
}
