// Package store is the in-memory state of the citizen voice app and the only
// place that mutates it.
//
// Every mutation applies to memory first, under the write lock, so readers see
// it immediately. The change is then published to subscribers and written to
// local persistence. A failed write is never rolled back; memory and storage
// may diverge until the next fetch.
package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"citizenvoice/backend/internal/auth"
	"citizenvoice/backend/internal/fixtures"
	"citizenvoice/backend/internal/models"
	"citizenvoice/backend/internal/storage"

	"go.uber.org/zap"
)

// ImageStore copies picked images into app storage and deletes them again.
type ImageStore interface {
	Import(ctx context.Context, complaintID, index int, src string) (models.ImageRef, error)
	Remove(refs ...models.ImageRef) error
}

// Remote is the best-effort backend API. Every call may fail; failures fall
// back to local data.
type Remote interface {
	ListComplaints(ctx context.Context, token string) ([]models.Complaint, error)
	GetComplaint(ctx context.Context, token string, id int) (models.Complaint, error)
	DeleteComplaint(ctx context.Context, token string, id int) error
	ListNotifications(ctx context.Context, token string) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, token, id string) error
	MarkAllRead(ctx context.Context, token string) error
}

// Publisher receives an event after each applied change. Publish must not block.
type Publisher interface {
	Publish(ev models.Event)
}

// Notifier relays new notifications outside the app.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// Localizer renders notification texts.
type Localizer interface {
	Format(lang, key string, args ...any) string
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(u models.User) (string, error)
}

// State is a snapshot of everything the store holds.
type State struct {
	Complaints    []models.Complaint
	User          *models.User
	Token         string
	Notifications []models.Notification
	UnreadCount   int
}

// Store owns the canonical in-memory state.
type Store struct {
	mu    sync.RWMutex
	state State

	// createMu keeps id assignment and insertion of new complaints atomic.
	createMu sync.Mutex

	storage   *storage.Service
	images    ImageStore
	remote    Remote
	publisher Publisher
	notifier  Notifier
	localizer Localizer
	authn     auth.Authenticator
	tokens    TokenIssuer
	demo      *fixtures.Set
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Store.
type Option func(*Store)

func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.logger = l } }

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

func WithRemote(r Remote) Option { return func(s *Store) { s.remote = r } }

func WithPublisher(p Publisher) Option { return func(s *Store) { s.publisher = p } }

func WithNotifier(n Notifier) Option { return func(s *Store) { s.notifier = n } }

func WithLocalizer(l Localizer) Option { return func(s *Store) { s.localizer = l } }

// WithAuth sets the credential check and token signer used by Login and Register.
func WithAuth(a auth.Authenticator, t TokenIssuer) Option {
	return func(s *Store) {
		s.authn = a
		s.tokens = t
	}
}

// WithDemo sets the fallback data set. By default the embedded fixtures are used.
func WithDemo(set *fixtures.Set) Option { return func(s *Store) { s.demo = set } }

// New creates an empty store. Call RestoreSession and FetchComplaints to load
// persisted state.
func New(svc *storage.Service, images ImageStore, opts ...Option) *Store {
	s := &Store{
		storage: svc,
		images:  images,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.demo == nil {
		set, err := fixtures.Load()
		if err != nil {
			s.logger.Error("failed to load demo data", zap.Error(err))
			set = &fixtures.Set{}
		}
		s.demo = set
	}
	return s
}

// commit applies fn to the state under the write lock and publishes the event
// it returns. A nil event means nothing changed. persist runs afterwards,
// outside the lock, only when something changed; its error is returned as is.
func (s *Store) commit(ctx context.Context, op string, fn func(*State) (*models.Event, error), persist func(context.Context) error) error {
	s.mu.Lock()
	ev, err := fn(&s.state)
	s.mu.Unlock()
	if err != nil || ev == nil {
		return err
	}

	ev.At = s.now()
	if s.publisher != nil {
		s.publisher.Publish(*ev)
	}

	if persist == nil {
		return nil
	}
	if err := persist(ctx); err != nil {
		s.logger.Warn("failed to persist change", zap.String("op", op), zap.Error(err))
		return err
	}
	return nil
}

// Complaints returns a copy of the current collection, newest first.
func (s *Store) Complaints() []models.Complaint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneComplaints(s.state.Complaints)
}

// Complaint looks up one complaint by id.
func (s *Store) Complaint(id int) (models.Complaint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.state.Complaints, id); i >= 0 {
		return s.state.Complaints[i].Clone(), true
	}
	return models.Complaint{}, false
}

// User returns the signed-in user, nil if nobody is signed in.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

func (s *Store) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

func (s *Store) Notifications() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Notifications)
}

func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.UnreadCount
}

// persistComplaints applies patch to the stored collection. When nothing is
// stored yet, patch starts from base instead, so a collection that came from
// the remote API or the demo set is not reduced to the changed entry. patch
// must be idempotent.
func (s *Store) persistComplaints(ctx context.Context, base []models.Complaint, patch func([]models.Complaint) []models.Complaint) error {
	return s.storage.UpdateComplaints(ctx, func(list []models.Complaint) []models.Complaint {
		if len(list) == 0 && base != nil {
			list = base
		}
		return patch(list)
	})
}

// persistBase is the in-memory collection as it should be stored: everything
// for leaders and signed-out use, only their own complaints for citizens.
// Callers hold s.mu.
func persistBase(st *State) []models.Complaint {
	base := cloneComplaints(st.Complaints)
	if base == nil {
		base = []models.Complaint{}
	}
	if u := st.User; u != nil && !u.IsLeader() {
		base = slices.DeleteFunc(base, func(c models.Complaint) bool { return !c.OwnedBy(u.ID) })
	}
	return base
}

func cloneComplaints(list []models.Complaint) []models.Complaint {
	if list == nil {
		return nil
	}
	out := make([]models.Complaint, len(list))
	for i, c := range list {
		out[i] = c.Clone()
	}
	return out
}

func indexOf(list []models.Complaint, id int) int {
	return slices.IndexFunc(list, func(c models.Complaint) bool { return c.ID == id })
}
