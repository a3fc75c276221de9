package eventhub

import "citizenvoice/backend/internal/models"

// Client is a subscriber to state change events, e.g. a WebSocket connection.
type Client interface {
	// GetClientID returns the unique identifier of this subscription.
	GetClientID() string
	// GetUserID returns the signed-in user the subscription belongs to.
	GetUserID() string

	// GetSendChannel returns the channel the hub writes events to.
	GetSendChannel() chan<- models.Event

	// Run starts the client's pumps.
	Run()
	// Close stops the client; the hub calls it once after unregistering.
	Close()
}
