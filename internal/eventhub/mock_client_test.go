package eventhub_test

import (
	"sync"

	"citizenvoice/backend/internal/models"
)

type MockClient struct {
	clientID    string
	userID      string
	RecvChannel chan models.Event
	closed      chan struct{}
	once        sync.Once
}

func newMockClient(clientID string, buffer int) *MockClient {
	return &MockClient{
		clientID:    clientID,
		userID:      "user_" + clientID,
		RecvChannel: make(chan models.Event, buffer),
		closed:      make(chan struct{}),
	}
}

func (c *MockClient) GetClientID() string {
	return c.clientID
}

func (c *MockClient) GetUserID() string {
	return c.userID
}

func (c *MockClient) GetSendChannel() chan<- models.Event {
	return c.RecvChannel
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.once.Do(func() { close(c.closed) })
}

func (c *MockClient) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}
