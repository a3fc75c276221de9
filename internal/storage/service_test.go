package storage_test

import (
	"context"
	"errors"
	"testing"

	"citizenvoice/backend/internal/apperr"
	"citizenvoice/backend/internal/models"
	"citizenvoice/backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type MockKV struct {
	mock.Mock
}

func (m *MockKV) Load(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockKV) Save(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockKV) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func sampleComplaints() []models.Complaint {
	return []models.Complaint{
		{
			ID: 2, Title: "Broken pipe", Subtitle: "Water everywhere", Location: "Gasabo",
			Date: "2024-05-01", Day: "Wednesday", Time: "2:00 PM",
			BackgroundImage: "file:///data/images/complaint_2_0.jpg",
			Images:          []models.ImageRef{"file:///data/images/complaint_2_0.jpg"},
			Leader:          models.Leader{Name: "Steve Bertin", Responsibilities: "Mayor of Gasabo"},
			Category:        models.CategoryGovernance, Status: models.StatusResolved, UserID: "1",
			Responses: []models.Response{{ID: "r1", Text: "Fixed", Date: "2024-05-02T10:00:00Z",
				Status: models.StatusResolved, ResponderID: "2", ResponderName: "Steve Bertin"}},
		},
		{
			ID: 1, Title: "Noise", Location: "Huye", Date: "2024-04-20",
			BackgroundImage: "asset:3", Images: []models.ImageRef{"asset:3"},
			Category: models.CategorySecurity, Status: models.StatusPending,
		},
	}
}

func TestService_ComplaintsRoundTrip(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc := storage.NewService(storage.NewMemoryKV(), zap.NewNop())
	original := sampleComplaints()

	// Act
	require.NoError(t, svc.SaveComplaints(ctx, original))
	loaded, err := svc.LoadComplaints(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestService_LoadComplaints_Absent(t *testing.T) {
	svc := storage.NewService(storage.NewMemoryKV(), nil)

	list, err := svc.LoadComplaints(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, list)
}

func TestService_LoadComplaints_MalformedFallsBackToEmpty(t *testing.T) {
	// Arrange
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Save(ctx, "userComplaints", "{not json"))
	core, logs := observer.New(zapcore.WarnLevel)
	svc := storage.NewService(kv, zap.New(core))

	// Act
	list, err := svc.LoadComplaints(ctx)

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, list)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "userComplaints", logs.All()[0].ContextMap()["key"])
}

func TestService_BackendFailureIsStorageFailure(t *testing.T) {
	// Arrange
	kv := new(MockKV)
	kv.On("Load", mock.Anything, "userComplaints").Return("", false, errors.New("disk I/O error"))
	kv.On("Save", mock.Anything, "token", "abc").Return(errors.New("read-only file system"))
	svc := storage.NewService(kv, zap.NewNop())
	ctx := context.Background()

	// Act
	_, loadErr := svc.LoadComplaints(ctx)
	saveErr := svc.SaveToken(ctx, "abc")

	// Assert
	assert.ErrorIs(t, loadErr, apperr.ErrStorageFailure)
	assert.ErrorIs(t, saveErr, apperr.ErrStorageFailure)
	kv.AssertExpectations(t)
}

func TestService_UpdateComplaints(t *testing.T) {
	ctx := context.Background()
	svc := storage.NewService(storage.NewMemoryKV(), zap.NewNop())
	require.NoError(t, svc.SaveComplaints(ctx, sampleComplaints()))

	err := svc.UpdateComplaints(ctx, func(list []models.Complaint) []models.Complaint {
		return list[1:]
	})

	require.NoError(t, err)
	loaded, err := svc.LoadComplaints(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 1, loaded[0].ID)
}

func TestService_Session(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc := storage.NewService(storage.NewMemoryKV(), zap.NewNop())
	user := models.User{ID: "1", Name: "KARASIRA AINE", Role: models.RoleCitizen}

	// Act
	require.NoError(t, svc.SaveUser(ctx, user))
	require.NoError(t, svc.SaveToken(ctx, "jwt"))
	require.NoError(t, svc.SetOnboarding(ctx, true))

	// Assert
	loaded, err := svc.LoadUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, &user, loaded)
	token, ok, err := svc.LoadToken(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "jwt", token)

	require.NoError(t, svc.ClearSession(ctx))

	loaded, err = svc.LoadUser(ctx)
	assert.NoError(t, err)
	assert.Nil(t, loaded)
	_, ok, _ = svc.LoadToken(ctx)
	assert.False(t, ok)
	seen, err := svc.HasSeenOnboarding(ctx)
	assert.NoError(t, err)
	assert.True(t, seen, "logout keeps the onboarding flag")
}

func TestService_Onboarding(t *testing.T) {
	ctx := context.Background()
	svc := storage.NewService(storage.NewMemoryKV(), zap.NewNop())

	seen, err := svc.HasSeenOnboarding(ctx)
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, svc.SetOnboarding(ctx, true))
	seen, _ = svc.HasSeenOnboarding(ctx)
	assert.True(t, seen)

	require.NoError(t, svc.SetOnboarding(ctx, false))
	seen, _ = svc.HasSeenOnboarding(ctx)
	assert.False(t, seen)
}

func TestService_Notifications(t *testing.T) {
	ctx := context.Background()
	svc := storage.NewService(storage.NewMemoryKV(), zap.NewNop())

	_, ok, err := svc.LoadNotifications(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	feed := []models.Notification{{ID: "1", Message: "Update", ComplaintID: 2, Read: false}}
	require.NoError(t, svc.SaveNotifications(ctx, feed))

	loaded, ok, err := svc.LoadNotifications(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, feed, loaded)
}

func TestService_UpdateNotifications(t *testing.T) {
	ctx := context.Background()
	svc := storage.NewService(storage.NewMemoryKV(), zap.NewNop())

	err := svc.UpdateNotifications(ctx, func(list []models.Notification) []models.Notification {
		assert.Nil(t, list)
		return append(list, models.Notification{ID: "n1", Message: "Reply"})
	})
	require.NoError(t, err)

	loaded, ok, err := svc.LoadNotifications(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, loaded, 1)
	assert.Equal(t, "n1", loaded[0].ID)
}
