// Package handler exposes the store over a local REST API and a WebSocket
// event stream.
package handler

import (
	"time"

	"citizenvoice/backend/internal/auth"
	"citizenvoice/backend/internal/eventhub"
	"citizenvoice/backend/internal/store"

	"go.uber.org/zap"
)

// Handler holds the dependencies shared by all endpoints.
type Handler struct {
	Store  *store.Store
	Tokens *auth.TokenIssuer
	Hub    *eventhub.Hub
	Logger *zap.Logger
	Now    func() time.Time
}

func NewHandler(s *store.Store, tokens *auth.TokenIssuer, hub *eventhub.Hub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Store: s, Tokens: tokens, Hub: hub, Logger: logger, Now: time.Now}
}
