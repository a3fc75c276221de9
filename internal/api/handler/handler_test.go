package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"citizenvoice/backend/internal/api/handler"
	"citizenvoice/backend/internal/auth"
	"citizenvoice/backend/internal/eventhub"
	"citizenvoice/backend/internal/fixtures"
	"citizenvoice/backend/internal/media"
	"citizenvoice/backend/internal/storage"
	"citizenvoice/backend/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, 6, 20, 14, 0, 0, 0, time.UTC)

type server struct {
	router *gin.Engine
	store  *store.Store
	tokens *auth.TokenIssuer
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := storage.NewService(storage.NewMemoryKV(), zap.NewNop())
	library, err := media.NewLibrary(filepath.Join(t.TempDir(), "images"))
	require.NoError(t, err)
	authn, err := auth.NewFixtureAuthenticator(fixtures.MustLoad().Accounts)
	require.NoError(t, err)
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)

	hub := eventhub.NewHub(zap.NewNop())
	s := store.New(svc, library,
		store.WithAuth(authn, tokens),
		store.WithPublisher(hub),
		store.WithClock(func() time.Time { return testNow }),
	)
	h := handler.NewHandler(s, tokens, hub, zap.NewNop())
	h.Now = func() time.Time { return testNow }

	return &server{router: handler.NewRouter(h, []string{"*"}), store: s, tokens: tokens}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *server) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (s *server) login(t *testing.T, phone, password string) string {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"phoneNumber": phone, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var session handler.SessionResponse
	require.NoError(t, json.Unmarshal(env.Data, &session))
	return session.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0o600))
	return path
}

func TestHealth(t *testing.T) {
	s := newServer(t)

	w, env := s.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		wantCode int
		wantErr  string
	}{
		{"valid credentials", gin.H{"phoneNumber": "789123456", "password": "password123"}, http.StatusOK, ""},
		{"wrong password", gin.H{"phoneNumber": "789123456", "password": "nope"}, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"missing password", gin.H{"phoneNumber": "789123456"}, http.StatusBadRequest, "VALIDATION_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			s := newServer(t)

			// Act
			w, env := s.do(t, http.MethodPost, "/api/auth/login", "", tt.body)

			// Assert
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantErr != "" {
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.wantErr, env.Error.Code)
				return
			}
			session := decode[handler.SessionResponse](t, env.Data)
			assert.NotEmpty(t, session.Token)
			assert.Equal(t, "KARASIRA AINE", session.User.Name)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	// Arrange
	s := newServer(t)
	token := s.login(t, "789123456", "password123")
	w, _ := s.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbage token", "not-a-jwt"},
		{"token of an ended session", token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			w, env := s.do(t, http.MethodGet, "/api/complaints", tt.token, nil)

			// Assert
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
		})
	}
}

func TestProfile(t *testing.T) {
	// Arrange
	s := newServer(t)
	token := s.login(t, "789123456", "password123")

	// Act
	w, env := s.do(t, http.MethodPut, "/api/auth/profile", token, gin.H{"location": "Huye, Rwanda"})

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "Huye, Rwanda")
	_, env = s.do(t, http.MethodGet, "/api/auth/profile", token, nil)
	assert.Contains(t, string(env.Data), "Huye, Rwanda")
}

func TestListComplaints_Filters(t *testing.T) {
	// Arrange
	s := newServer(t)
	token := s.login(t, "789123456", "password123")

	// Act
	w, env := s.do(t, http.MethodGet, "/api/complaints?query=STREET", token, nil)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]map[string]any](t, env.Data)
	require.Len(t, list, 1)
	assert.EqualValues(t, 7, list[0]["id"])
}

func TestGroupedComplaints(t *testing.T) {
	// Arrange
	s := newServer(t)
	citizen := s.login(t, "789123456", "password123")
	w, _ := s.do(t, http.MethodGet, "/api/complaints/grouped", citizen, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	leader := s.login(t, "722987654", "leader123")

	// Act
	w, env := s.do(t, http.MethodGet, "/api/complaints/grouped?order=asc", leader, nil)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	groups := decode[map[string][]map[string]any](t, env.Data)
	assert.Len(t, groups["recent"], 2)
	total := len(groups["recent"]) + len(groups["older"]) + len(groups["oldest"])
	assert.Equal(t, 8, total)
}

func TestCreateComplaint(t *testing.T) {
	// Arrange
	s := newServer(t)
	token := s.login(t, "789123456", "password123")
	body := gin.H{
		"title":       "Broken pipe",
		"description": "Water leaking",
		"category":    "Governance",
		"images":      []string{writeImage(t)},
	}

	// Act
	w, env := s.do(t, http.MethodPost, "/api/complaints", token, body)

	// Assert
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]any](t, env.Data)
	assert.EqualValues(t, 9, created["id"])
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, "1", created["userId"])

	w, _ = s.do(t, http.MethodGet, "/api/complaints/9", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateComplaint_Errors(t *testing.T) {
	tests := []struct {
		name     string
		images   []string
		wantCode int
		wantErr  string
	}{
		{"no images", []string{}, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"unreadable image", []string{"/missing/photo.jpg"}, http.StatusUnprocessableEntity, "CREATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			s := newServer(t)
			token := s.login(t, "789123456", "password123")

			// Act
			w, env := s.do(t, http.MethodPost, "/api/complaints", token, gin.H{
				"title": "Broken pipe", "description": "x", "category": "Governance", "images": tt.images,
			})

			// Assert
			assert.Equal(t, tt.wantCode, w.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantErr, env.Error.Code)
		})
	}
}

func TestRespondToComplaint(t *testing.T) {
	// Arrange
	s := newServer(t)
	leader := s.login(t, "722987654", "leader123")

	tests := []struct {
		name     string
		path     string
		body     any
		wantCode int
	}{
		{"resolves complaint", "/api/complaints/3", gin.H{"text": "Patrols added", "status": "Resolved"}, http.StatusOK},
		{"unknown status", "/api/complaints/3", gin.H{"text": "x", "status": "closed"}, http.StatusBadRequest},
		{"missing text", "/api/complaints/3", gin.H{"status": "resolved"}, http.StatusBadRequest},
		{"unknown complaint", "/api/complaints/99", gin.H{"text": "x"}, http.StatusNotFound},
		{"bad id", "/api/complaints/abc", gin.H{"text": "x"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			w, _ := s.do(t, http.MethodPut, tt.path, leader, tt.body)

			// Assert
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}

	c, ok := s.store.Complaint(3)
	require.True(t, ok)
	assert.Equal(t, "resolved", string(c.Status))
	assert.Len(t, c.Responses, 1)
}

func TestRespondToComplaint_CitizenForbidden(t *testing.T) {
	s := newServer(t)
	token := s.login(t, "789123456", "password123")

	w, env := s.do(t, http.MethodPut, "/api/complaints/1", token, gin.H{"text": "x"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "PERMISSION_DENIED", env.Error.Code)
}

func TestDeleteComplaint(t *testing.T) {
	// Arrange
	s := newServer(t)
	token := s.login(t, "789123456", "password123")

	// Act & Assert
	w, _ := s.do(t, http.MethodDelete, "/api/complaints/3", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "complaint 3 belongs to nobody")

	w, env := s.do(t, http.MethodDelete, "/api/complaints/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, handler.DeleteResponse{ID: 1, Deleted: true}, decode[handler.DeleteResponse](t, env.Data))

	w, env = s.do(t, http.MethodDelete, "/api/complaints/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, handler.DeleteResponse{ID: 1, Deleted: false}, decode[handler.DeleteResponse](t, env.Data))

	w, _ = s.do(t, http.MethodGet, "/api/complaints/1", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotifications(t *testing.T) {
	// Arrange
	s := newServer(t)
	token := s.login(t, "789123456", "password123")

	// Act & Assert
	_, env := s.do(t, http.MethodGet, "/api/notifications", token, nil)
	feed := decode[handler.NotificationFeed](t, env.Data)
	assert.Len(t, feed.Notifications, 4)
	assert.Equal(t, 3, feed.UnreadCount)

	_, env = s.do(t, http.MethodPut, "/api/notifications/1/read", token, nil)
	assert.Equal(t, 2, decode[handler.NotificationFeed](t, env.Data).UnreadCount)

	w, _ := s.do(t, http.MethodGet, "/api/notifications/1", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPut, "/api/notifications/missing/read", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, env = s.do(t, http.MethodPut, "/api/notifications/read-all", token, nil)
	assert.Zero(t, decode[handler.NotificationFeed](t, env.Data).UnreadCount)
}

func TestOnboarding(t *testing.T) {
	// Arrange
	s := newServer(t)

	// Act & Assert
	_, env := s.do(t, http.MethodGet, "/api/onboarding", "", nil)
	assert.False(t, decode[handler.OnboardingState](t, env.Data).Seen)

	w, _ := s.do(t, http.MethodPost, "/api/onboarding", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, env = s.do(t, http.MethodGet, "/api/onboarding", "", nil)
	assert.True(t, decode[handler.OnboardingState](t, env.Data).Seen)

	_, _ = s.do(t, http.MethodPost, "/api/onboarding", "", gin.H{"seen": false})
	seen, err := s.store.HasSeenOnboarding(context.Background())
	require.NoError(t, err)
	assert.False(t, seen)
}
