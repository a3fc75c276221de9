package store_test

import (
	"context"
	"errors"
	"testing"

	"citizenvoice/backend/internal/apperr"
	"citizenvoice/backend/internal/models"
	"citizenvoice/backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFetchNotifications_DemoFeed(t *testing.T) {
	// Arrange
	e := newEnv(t)

	// Act
	feed := e.store.FetchNotifications(context.Background())

	// Assert
	assert.Len(t, feed, 4)
	assert.Equal(t, 3, e.store.UnreadCount())
}

func TestFetchNotifications_StoredFeedFilteredByUser(t *testing.T) {
	// Arrange
	ctx := context.Background()
	e := newEnv(t)
	require.NoError(t, e.svc.SaveNotifications(ctx, []models.Notification{
		{ID: "a", UserID: "1"},
		{ID: "b", UserID: "9"},
		{ID: "c", Read: true},
	}))
	require.NoError(t, e.svc.SaveUser(ctx, models.User{ID: "1"}))
	require.NoError(t, e.svc.SaveToken(ctx, "token"))
	_, err := e.store.RestoreSession(ctx)
	require.NoError(t, err)

	// Act
	feed := e.store.FetchNotifications(ctx)

	// Assert
	require.Len(t, feed, 2)
	assert.Equal(t, "a", feed[0].ID)
	assert.Equal(t, "c", feed[1].ID)
	assert.Equal(t, 1, e.store.UnreadCount())
}

func TestFetchNotifications_Remote(t *testing.T) {
	// Arrange
	remote := new(MockRemote)
	remote.On("ListNotifications", mock.Anything, mock.Anything).Return([]models.Notification{{ID: "r1"}}, nil)
	e := newEnv(t, store.WithRemote(remote))

	// Act
	feed := e.store.FetchNotifications(context.Background())

	// Assert
	require.Len(t, feed, 1)
	assert.Equal(t, "r1", feed[0].ID)
}

func TestMarkNotificationRead_DecrementsOnce(t *testing.T) {
	// Arrange
	ctx := context.Background()
	e := newEnv(t)
	e.store.FetchNotifications(ctx)

	// Act
	require.NoError(t, e.store.MarkNotificationRead(ctx, "1"))
	require.NoError(t, e.store.MarkNotificationRead(ctx, "1"))
	require.NoError(t, e.store.MarkNotificationRead(ctx, "4"))

	// Assert
	assert.Equal(t, 2, e.store.UnreadCount())
	n, ok := e.store.Notification("1")
	require.True(t, ok)
	assert.True(t, n.Read)

	stored, ok, err := e.svc.LoadNotifications(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, stored[0].Read)
	assert.False(t, stored[1].Read)
}

func TestMarkNotificationRead_NotFound(t *testing.T) {
	e := newEnv(t)

	err := e.store.MarkNotificationRead(context.Background(), "missing")

	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	// Arrange
	ctx := context.Background()
	remote := new(MockRemote)
	remote.On("ListNotifications", mock.Anything, mock.Anything).Return(nil, errors.New("offline"))
	remote.On("MarkAllRead", mock.Anything, mock.Anything).Return(errors.New("offline"))
	e := newEnv(t, store.WithRemote(remote))
	e.store.FetchNotifications(ctx)

	// Act
	err := e.store.MarkAllNotificationsRead(ctx)

	// Assert
	require.NoError(t, err, "remote failures are only logged")
	assert.Zero(t, e.store.UnreadCount())
	for _, n := range e.store.Notifications() {
		assert.True(t, n.Read)
	}
	stored, _, err := e.svc.LoadNotifications(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 4)
	remote.AssertExpectations(t)
}

func TestAddNotification(t *testing.T) {
	// Arrange
	ctx := context.Background()
	e := newEnv(t)
	e.store.FetchNotifications(ctx)

	// Act
	require.NoError(t, e.store.AddNotification(ctx, models.Notification{ID: "new", Message: "Hello"}))
	require.NoError(t, e.store.AddNotification(ctx, models.Notification{ID: "old", Read: true}))

	// Assert
	assert.Equal(t, 4, e.store.UnreadCount())
	feed := e.store.Notifications()
	assert.Equal(t, "old", feed[0].ID)
	assert.Equal(t, "new", feed[1].ID)
	ev := e.events.last()
	assert.Equal(t, models.EventNotificationAdded, ev.Type)
	assert.Equal(t, 4, ev.Count)
}
