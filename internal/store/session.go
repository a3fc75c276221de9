package store

import (
	"context"

	"citizenvoice/backend/internal/apperr"
	"citizenvoice/backend/internal/auth"
	"citizenvoice/backend/internal/models"

	"go.uber.org/zap"
)

// profileUpdater is implemented by authenticators that keep profiles, so edits
// survive the next login.
type profileUpdater interface {
	Update(u models.User)
}

// Login checks the credentials, signs a token and persists the session.
func (s *Store) Login(ctx context.Context, identifier, password string) (models.User, string, error) {
	if s.authn == nil || s.tokens == nil {
		return models.User{}, "", apperr.New(apperr.CodeUnauthorized, "Login", "authentication is not configured")
	}
	u, err := s.authn.Authenticate(ctx, identifier, password)
	if err != nil {
		return models.User{}, "", err
	}
	return s.startSession(ctx, "Login", u)
}

// Register creates a citizen account and signs it in.
func (s *Store) Register(ctx context.Context, r auth.Registration) (models.User, string, error) {
	if s.authn == nil || s.tokens == nil {
		return models.User{}, "", apperr.New(apperr.CodeUnauthorized, "Register", "authentication is not configured")
	}
	u, err := s.authn.Register(ctx, r)
	if err != nil {
		return models.User{}, "", err
	}
	return s.startSession(ctx, "Register", u)
}

func (s *Store) startSession(ctx context.Context, op string, u models.User) (models.User, string, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return models.User{}, "", apperr.Wrap(apperr.CodeUnauthorized, op, err, "failed to issue token")
	}

	err = s.commit(ctx, op, func(st *State) (*models.Event, error) {
		user := u
		st.User = &user
		st.Token = token
		st.Notifications = nil
		st.UnreadCount = 0
		return &models.Event{Type: models.EventSessionChanged, UserID: u.ID}, nil
	}, func(ctx context.Context) error {
		if err := s.storage.SaveUser(ctx, u); err != nil {
			return err
		}
		return s.storage.SaveToken(ctx, token)
	})

	s.logger.Info("session started", zap.String("op", op), zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, token, err
}

// Logout clears the session from memory and storage. The onboarding flag is kept.
func (s *Store) Logout(ctx context.Context) error {
	return s.commit(ctx, "Logout", func(st *State) (*models.Event, error) {
		st.User = nil
		st.Token = ""
		st.Notifications = nil
		st.UnreadCount = 0
		return &models.Event{Type: models.EventSessionChanged}, nil
	}, s.storage.ClearSession)
}

// RestoreSession loads the persisted session. It needs both the token and the
// user; with either missing nobody is signed in and nil is returned.
func (s *Store) RestoreSession(ctx context.Context) (*models.User, error) {
	token, ok, err := s.storage.LoadToken(ctx)
	if err != nil || !ok {
		return nil, err
	}
	u, err := s.storage.LoadUser(ctx)
	if err != nil || u == nil {
		return nil, err
	}

	s.commit(ctx, "RestoreSession", func(st *State) (*models.Event, error) {
		user := *u
		st.User = &user
		st.Token = token
		return &models.Event{Type: models.EventSessionChanged, UserID: u.ID}, nil
	}, nil)
	return u, nil
}

// SessionToken returns the persisted token, which is the only token the API
// accepts.
func (s *Store) SessionToken(ctx context.Context) (string, bool, error) {
	return s.storage.LoadToken(ctx)
}

// UpdateProfile edits the signed-in user's profile.
func (s *Store) UpdateProfile(ctx context.Context, p models.ProfileUpdate) (models.User, error) {
	var updated models.User

	err := s.commit(ctx, "UpdateProfile", func(st *State) (*models.Event, error) {
		if st.User == nil {
			return nil, apperr.New(apperr.CodeUnauthorized, "UpdateProfile", "sign in required")
		}
		p.Apply(st.User)
		updated = *st.User
		return &models.Event{Type: models.EventSessionChanged, UserID: updated.ID}, nil
	}, func(ctx context.Context) error {
		return s.storage.SaveUser(ctx, updated)
	})
	if apperr.CodeOf(err) == apperr.CodeUnauthorized {
		return models.User{}, err
	}

	if pu, ok := s.authn.(profileUpdater); ok {
		pu.Update(updated)
	}
	return updated, err
}

func (s *Store) HasSeenOnboarding(ctx context.Context) (bool, error) {
	return s.storage.HasSeenOnboarding(ctx)
}

func (s *Store) CompleteOnboarding(ctx context.Context) error {
	return s.storage.SetOnboarding(ctx, true)
}

func (s *Store) ResetOnboarding(ctx context.Context) error {
	return s.storage.SetOnboarding(ctx, false)
}
