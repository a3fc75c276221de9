package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"citizenvoice/backend/internal/media"
	"citizenvoice/backend/internal/models"
	"citizenvoice/backend/internal/storage"
	"citizenvoice/backend/internal/store"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testNow = time.Date(2024, 6, 20, 14, 0, 0, 0, time.UTC)

type env struct {
	store   *store.Store
	kv      *flakyKV
	svc     *storage.Service
	library *media.Library
	events  *eventRecorder
}

func newEnv(t *testing.T, opts ...store.Option) *env {
	t.Helper()
	kv := &flakyKV{KV: storage.NewMemoryKV()}
	logger := zaptest.NewLogger(t)
	svc := storage.NewService(kv, logger)
	library, err := media.NewLibrary(filepath.Join(t.TempDir(), "images"))
	require.NoError(t, err)
	events := &eventRecorder{}

	base := []store.Option{
		store.WithLogger(logger),
		store.WithClock(func() time.Time { return testNow }),
		store.WithPublisher(events),
	}
	s := store.New(svc, library, append(base, opts...)...)
	return &env{store: s, kv: kv, svc: svc, library: library, events: events}
}

// writeImage creates a picked image outside the media library.
func writeImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("jpeg bytes"), 0o600))
	return path
}

// flakyKV fails writes while failSaves is set.
type flakyKV struct {
	storage.KV
	mu        sync.Mutex
	failSaves bool
}

var errDiskFull = errors.New("disk full")

func (f *flakyKV) setFailSaves(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSaves = v
}

func (f *flakyKV) Save(ctx context.Context, key, value string) error {
	f.mu.Lock()
	fail := f.failSaves
	f.mu.Unlock()
	if fail {
		return errDiskFull
	}
	return f.KV.Save(ctx, key, value)
}

type eventRecorder struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *eventRecorder) Publish(ev models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) types() []models.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func (r *eventRecorder) last() models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return models.Event{}
	}
	return r.events[len(r.events)-1]
}

type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) ListComplaints(ctx context.Context, token string) ([]models.Complaint, error) {
	args := m.Called(ctx, token)
	list, _ := args.Get(0).([]models.Complaint)
	return list, args.Error(1)
}

func (m *MockRemote) GetComplaint(ctx context.Context, token string, id int) (models.Complaint, error) {
	args := m.Called(ctx, token, id)
	c, _ := args.Get(0).(models.Complaint)
	return c, args.Error(1)
}

func (m *MockRemote) DeleteComplaint(ctx context.Context, token string, id int) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *MockRemote) ListNotifications(ctx context.Context, token string) ([]models.Notification, error) {
	args := m.Called(ctx, token)
	list, _ := args.Get(0).([]models.Notification)
	return list, args.Error(1)
}

func (m *MockRemote) MarkNotificationRead(ctx context.Context, token, id string) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *MockRemote) MarkAllRead(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func ids(list []models.Complaint) []int {
	out := make([]int, len(list))
	for i, c := range list {
		out[i] = c.ID
	}
	return out
}

func assertStatusInvariant(t *testing.T, list []models.Complaint) {
	t.Helper()
	for _, c := range list {
		want := models.StatusPending
		if n := len(c.Responses); n > 0 {
			want = c.Responses[n-1].Status
		}
		require.Equal(t, want, c.Status, "complaint %d", c.ID)
	}
}
