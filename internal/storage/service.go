package storage

import (
	"context"
	"encoding/json"

	"citizenvoice/backend/internal/apperr"
	"citizenvoice/backend/internal/config"
	"citizenvoice/backend/internal/models"

	"go.uber.org/zap"
)

// Service reads and writes the app's fixed keys. Malformed stored values are
// logged and treated as absent; only backend failures are returned.
type Service struct {
	KV     KV
	Logger *zap.Logger
}

// NewService wraps kv with typed accessors.
func NewService(kv KV, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{KV: kv, Logger: logger}
}

// loadJSON decodes the value under key into dst. It reports false when the key
// is absent or the value cannot be decoded.
func (s *Service) loadJSON(ctx context.Context, op, key string, dst any) (bool, error) {
	raw, ok, err := s.KV.Load(ctx, key)
	if err != nil {
		return false, apperr.Storage(op, err)
	}
	if !ok || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.Logger.Warn("discarding malformed stored value", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (s *Service) saveJSON(ctx context.Context, op, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return apperr.Storage(op, err)
	}
	if err := s.KV.Save(ctx, key, string(data)); err != nil {
		return apperr.Storage(op, err)
	}
	return nil
}

// LoadComplaints returns the stored complaint collection, nil if none.
func (s *Service) LoadComplaints(ctx context.Context) ([]models.Complaint, error) {
	var list []models.Complaint
	ok, err := s.loadJSON(ctx, "LoadComplaints", config.KeyComplaints, &list)
	if err != nil || !ok {
		return nil, err
	}
	for i := range list {
		list[i].Normalize()
	}
	return list, nil
}

// SaveComplaints overwrites the stored complaint collection.
func (s *Service) SaveComplaints(ctx context.Context, list []models.Complaint) error {
	if list == nil {
		list = []models.Complaint{}
	}
	return s.saveJSON(ctx, "SaveComplaints", config.KeyComplaints, list)
}

// UpdateComplaints loads the stored collection, applies fn and writes the
// result back. Concurrent writers race; the last write wins.
func (s *Service) UpdateComplaints(ctx context.Context, fn func([]models.Complaint) []models.Complaint) error {
	list, err := s.LoadComplaints(ctx)
	if err != nil {
		return err
	}
	return s.SaveComplaints(ctx, fn(list))
}

// LoadUser returns the persisted session user, nil if none.
func (s *Service) LoadUser(ctx context.Context) (*models.User, error) {
	var u models.User
	ok, err := s.loadJSON(ctx, "LoadUser", config.KeyUser, &u)
	if err != nil || !ok || u.ID == "" {
		return nil, err
	}
	return &u, nil
}

func (s *Service) SaveUser(ctx context.Context, u models.User) error {
	return s.saveJSON(ctx, "SaveUser", config.KeyUser, u)
}

// LoadToken returns the stored session token. The token is an opaque string,
// not JSON.
func (s *Service) LoadToken(ctx context.Context) (string, bool, error) {
	token, ok, err := s.KV.Load(ctx, config.KeyToken)
	if err != nil {
		return "", false, apperr.Storage("LoadToken", err)
	}
	return token, ok && token != "", nil
}

func (s *Service) SaveToken(ctx context.Context, token string) error {
	if err := s.KV.Save(ctx, config.KeyToken, token); err != nil {
		return apperr.Storage("SaveToken", err)
	}
	return nil
}

// ClearSession removes the user and token keys. The onboarding flag stays.
func (s *Service) ClearSession(ctx context.Context) error {
	for _, key := range []string{config.KeyUser, config.KeyToken} {
		if err := s.KV.Remove(ctx, key); err != nil {
			return apperr.Storage("ClearSession", err)
		}
	}
	return nil
}

// HasSeenOnboarding reports whether the onboarding flag is "true".
func (s *Service) HasSeenOnboarding(ctx context.Context) (bool, error) {
	v, _, err := s.KV.Load(ctx, config.KeyOnboarding)
	if err != nil {
		return false, apperr.Storage("HasSeenOnboarding", err)
	}
	return v == config.OnboardingSeen, nil
}

func (s *Service) SetOnboarding(ctx context.Context, seen bool) error {
	v := config.OnboardingNotSeen
	if seen {
		v = config.OnboardingSeen
	}
	if err := s.KV.Save(ctx, config.KeyOnboarding, v); err != nil {
		return apperr.Storage("SetOnboarding", err)
	}
	return nil
}

// LoadNotifications returns the stored feed and whether one was stored.
func (s *Service) LoadNotifications(ctx context.Context) ([]models.Notification, bool, error) {
	var list []models.Notification
	ok, err := s.loadJSON(ctx, "LoadNotifications", config.KeyNotifications, &list)
	return list, ok, err
}

func (s *Service) SaveNotifications(ctx context.Context, list []models.Notification) error {
	if list == nil {
		list = []models.Notification{}
	}
	return s.saveJSON(ctx, "SaveNotifications", config.KeyNotifications, list)
}

// UpdateNotifications is the notification counterpart of UpdateComplaints. fn
// receives nil when no feed is stored.
func (s *Service) UpdateNotifications(ctx context.Context, fn func([]models.Notification) []models.Notification) error {
	list, _, err := s.LoadNotifications(ctx)
	if err != nil {
		return err
	}
	return s.SaveNotifications(ctx, fn(list))
}
