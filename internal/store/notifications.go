package store

import (
	"context"
	"slices"

	"citizenvoice/backend/internal/apperr"
	"citizenvoice/backend/internal/models"

	"go.uber.org/zap"
)

// FetchNotifications replaces the feed from storage, then the remote API, then
// the demo set, keeping only entries addressed to the signed-in user.
func (s *Store) FetchNotifications(ctx context.Context) []models.Notification {
	user := s.User()

	list, source := s.loadNotifications(ctx)
	list = slices.DeleteFunc(list, func(n models.Notification) bool { return !visibleTo(n, user) })
	s.logger.Debug("notifications fetched", zap.String("source", source), zap.Int("count", len(list)))

	s.commit(ctx, "FetchNotifications", func(st *State) (*models.Event, error) {
		st.Notifications = list
		st.UnreadCount = countUnread(list)
		return &models.Event{Type: models.EventNotificationsSet, Count: st.UnreadCount}, nil
	}, nil)

	return slices.Clone(list)
}

func (s *Store) loadNotifications(ctx context.Context) ([]models.Notification, string) {
	stored, ok, err := s.storage.LoadNotifications(ctx)
	if err != nil {
		s.logger.Warn("failed to load stored notifications", zap.Error(err))
	}
	if ok {
		return stored, "storage"
	}

	if s.remote != nil {
		remote, err := s.remote.ListNotifications(ctx, s.token())
		if err == nil {
			return remote, "remote"
		}
		s.logger.Warn("remote notifications unavailable, using demo data", zap.Error(err))
	}

	return slices.Clone(s.demo.Notifications), "demo"
}

// AddNotification stores n and prepends it to the feed when it is addressed to
// the signed-in user.
func (s *Store) AddNotification(ctx context.Context, n models.Notification) error {
	return s.commit(ctx, "AddNotification", func(st *State) (*models.Event, error) {
		if visibleTo(n, st.User) {
			st.Notifications = slices.Insert(st.Notifications, 0, n)
			if !n.Read {
				st.UnreadCount++
			}
		}
		added := n
		return &models.Event{Type: models.EventNotificationAdded, ComplaintID: n.ComplaintID, Notification: &added, Count: st.UnreadCount}, nil
	}, func(ctx context.Context) error {
		return s.storage.UpdateNotifications(ctx, func(list []models.Notification) []models.Notification {
			if list == nil {
				list = slices.Clone(s.demo.Notifications)
			}
			return slices.Insert(list, 0, n)
		})
	})
}

// MarkNotificationRead marks one notification as read. The unread count only
// drops if it was unread before.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	var feed []models.Notification

	err := s.commit(ctx, "MarkNotificationRead", func(st *State) (*models.Event, error) {
		i := slices.IndexFunc(st.Notifications, func(n models.Notification) bool { return n.ID == id })
		if i < 0 {
			return nil, apperr.NotFound("MarkNotificationRead", "notification %s not found", id)
		}
		if !st.Notifications[i].Read {
			st.Notifications[i].Read = true
			st.UnreadCount--
		}
		feed = slices.Clone(st.Notifications)
		n := st.Notifications[i]
		return &models.Event{Type: models.EventNotificationsRead, ComplaintID: n.ComplaintID, Notification: &n, Count: st.UnreadCount}, nil
	}, func(ctx context.Context) error {
		return s.storage.UpdateNotifications(ctx, func(list []models.Notification) []models.Notification {
			if list == nil {
				return feed
			}
			for i := range list {
				if list[i].ID == id {
					list[i].Read = true
				}
			}
			return list
		})
	})
	if apperr.CodeOf(err) == apperr.CodeNotFound {
		return err
	}

	if s.remote != nil {
		if rErr := s.remote.MarkNotificationRead(ctx, s.token(), id); rErr != nil {
			s.logger.Warn("remote mark-as-read failed", zap.String("notification_id", id), zap.Error(rErr))
		}
	}
	return err
}

// MarkAllNotificationsRead marks the whole feed as read.
func (s *Store) MarkAllNotificationsRead(ctx context.Context) error {
	var ids []string
	var feed []models.Notification

	err := s.commit(ctx, "MarkAllNotificationsRead", func(st *State) (*models.Event, error) {
		for i := range st.Notifications {
			st.Notifications[i].Read = true
			ids = append(ids, st.Notifications[i].ID)
		}
		st.UnreadCount = 0
		feed = slices.Clone(st.Notifications)
		return &models.Event{Type: models.EventNotificationsRead}, nil
	}, func(ctx context.Context) error {
		return s.storage.UpdateNotifications(ctx, func(list []models.Notification) []models.Notification {
			if list == nil {
				return feed
			}
			for i := range list {
				if slices.Contains(ids, list[i].ID) {
					list[i].Read = true
				}
			}
			return list
		})
	})

	if s.remote != nil {
		if rErr := s.remote.MarkAllRead(ctx, s.token()); rErr != nil {
			s.logger.Warn("remote mark-all-read failed", zap.Error(rErr))
		}
	}
	return err
}

// Notification looks up one notification in the feed.
func (s *Store) Notification(id string) (models.Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.state.Notifications, func(n models.Notification) bool { return n.ID == id })
	if i < 0 {
		return models.Notification{}, false
	}
	return s.state.Notifications[i], true
}

// visibleTo reports whether n belongs in u's feed. Unaddressed notifications
// are shown to everyone.
func visibleTo(n models.Notification, u *models.User) bool {
	return n.UserID == "" || (u != nil && n.UserID == u.ID)
}

func countUnread(list []models.Notification) int {
	count := 0
	for _, n := range list {
		if !n.Read {
			count++
		}
	}
	return count
}
