package store

import (
	"context"
	"fmt"
	"slices"

	"citizenvoice/backend/internal/apperr"
	"citizenvoice/backend/internal/complaint"
	"citizenvoice/backend/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FetchComplaints replaces the collection. Sources are tried in order: the
// stored collection (only the user's own complaints for citizens), the remote
// API, then the demo set. It never fails.
func (s *Store) FetchComplaints(ctx context.Context) []models.Complaint {
	user := s.User()

	list, source := s.loadComplaints(ctx, user)
	s.logger.Debug("complaints fetched", zap.String("source", source), zap.Int("count", len(list)))

	s.commit(ctx, "FetchComplaints", func(st *State) (*models.Event, error) {
		st.Complaints = list
		return &models.Event{Type: models.EventComplaintsReplaced}, nil
	}, nil)

	return cloneComplaints(list)
}

func (s *Store) loadComplaints(ctx context.Context, user *models.User) ([]models.Complaint, string) {
	stored, err := s.storage.LoadComplaints(ctx)
	if err != nil {
		s.logger.Warn("failed to load stored complaints", zap.Error(err))
	}
	if user != nil && !user.IsLeader() {
		stored = slices.DeleteFunc(stored, func(c models.Complaint) bool { return !c.OwnedBy(user.ID) })
	}
	if len(stored) > 0 {
		return stored, "storage"
	}

	if s.remote != nil {
		remote, err := s.remote.ListComplaints(ctx, s.token())
		if err == nil && len(remote) > 0 {
			return remote, "remote"
		}
		if err != nil {
			s.logger.Warn("remote complaints unavailable, using demo data", zap.Error(err))
		}
	}

	return cloneComplaints(s.demo.Complaints), "demo"
}

// FindComplaint returns complaint id from memory, or asks the server when it
// is not loaded.
func (s *Store) FindComplaint(ctx context.Context, id int) (models.Complaint, error) {
	if c, ok := s.Complaint(id); ok {
		return c, nil
	}
	if s.remote == nil {
		return models.Complaint{}, apperr.NotFound("GetComplaint", "complaint %d not found", id)
	}

	c, err := s.remote.GetComplaint(ctx, s.token(), id)
	if err != nil {
		s.logger.Debug("remote complaint lookup failed", zap.Int("complaint_id", id), zap.Error(err))
		return models.Complaint{}, apperr.NotFound("GetComplaint", "complaint %d not found", id)
	}
	return c, nil
}

// CreateComplaint validates d, copies its images into the media library and
// prepends the new complaint. A nil creator files the complaint as the
// signed-in user, or anonymously.
//
// If the images cannot be copied nothing changes and a CreationError is
// returned. If only the storage write fails, the complaint is returned with a
// StorageFailure and stays in memory.
func (s *Store) CreateComplaint(ctx context.Context, d complaint.Draft, creator *models.User) (models.Complaint, error) {
	if err := d.Validate(); err != nil {
		return models.Complaint{}, err
	}
	if creator == nil {
		creator = s.User()
	}
	if d.Leader == (models.Leader{}) {
		d.Leader = s.demo.DefaultLeader()
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	stored, err := s.storage.LoadComplaints(ctx)
	if err != nil {
		s.logger.Warn("failed to read stored ids", zap.Error(err))
	}
	id := complaint.NextID(s.Complaints(), stored)
	now := s.now()

	refs := make([]models.ImageRef, 0, len(d.Images))
	for i, src := range d.Images {
		ref, err := s.images.Import(ctx, id, i, src)
		if err != nil {
			if rmErr := s.images.Remove(refs...); rmErr != nil {
				s.logger.Warn("failed to clean up imported images", zap.Int("complaint_id", id), zap.Error(rmErr))
			}
			return models.Complaint{}, apperr.Wrap(apperr.CodeCreationError, "CreateComplaint", err, "failed to save complaint image")
		}
		refs = append(refs, ref)
	}

	c := complaint.New(id, d, creator, refs, now)

	var base []models.Complaint
	err = s.commit(ctx, "CreateComplaint", func(st *State) (*models.Event, error) {
		st.Complaints = slices.Insert(st.Complaints, 0, c.Clone())
		base = persistBase(st)
		created := c.Clone()
		return &models.Event{Type: models.EventComplaintCreated, ComplaintID: c.ID, Complaint: &created}, nil
	}, func(ctx context.Context) error {
		return s.persistComplaints(ctx, base, func(list []models.Complaint) []models.Complaint {
			list = slices.DeleteFunc(list, func(e models.Complaint) bool { return e.ID == c.ID })
			return slices.Insert(list, 0, c)
		})
	})

	s.logger.Info("complaint created", zap.Int("complaint_id", c.ID), zap.String("user_id", c.UserID), zap.Int("images", len(refs)))
	return c, err
}

// DeleteComplaint removes the complaint from memory, then from storage, then
// deletes its image files and asks the remote API to delete it. It reports
// whether anything was removed; deleting an unknown id is a no-op.
func (s *Store) DeleteComplaint(ctx context.Context, id int) (bool, error) {
	var (
		removed []models.Complaint
		base    []models.Complaint
	)

	err := s.commit(ctx, "DeleteComplaint", func(st *State) (*models.Event, error) {
		i := indexOf(st.Complaints, id)
		if i < 0 {
			return nil, nil
		}
		removed = append(removed, st.Complaints[i])
		st.Complaints = slices.Delete(st.Complaints, i, i+1)
		base = persistBase(st)
		return &models.Event{Type: models.EventComplaintDeleted, ComplaintID: id}, nil
	}, nil)
	if err != nil {
		return false, err
	}

	inMemory := len(removed) > 0
	err = s.persistComplaints(ctx, base, func(list []models.Complaint) []models.Complaint {
		return slices.DeleteFunc(list, func(c models.Complaint) bool {
			if c.ID != id {
				return false
			}
			removed = append(removed, c)
			return true
		})
	})
	if err != nil {
		s.logger.Warn("failed to persist change", zap.String("op", "DeleteComplaint"), zap.Int("complaint_id", id), zap.Error(err))
	}

	if len(removed) == 0 {
		return false, err
	}
	if !inMemory && s.publisher != nil {
		s.publisher.Publish(models.Event{Type: models.EventComplaintDeleted, ComplaintID: id, At: s.now()})
	}

	var refs []models.ImageRef
	for _, c := range removed {
		refs = append(refs, c.BackgroundImage)
		refs = append(refs, c.Images...)
	}
	if rmErr := s.images.Remove(refs...); rmErr != nil {
		s.logger.Warn("failed to delete complaint images", zap.Int("complaint_id", id), zap.Error(rmErr))
	}

	if s.remote != nil {
		if rErr := s.remote.DeleteComplaint(ctx, s.token(), id); rErr != nil {
			s.logger.Warn("remote delete failed", zap.Int("complaint_id", id), zap.Error(rErr))
		}
	}

	s.logger.Info("complaint deleted", zap.Int("complaint_id", id))
	return true, err
}

// Respond builds a response from the signed-in leader and adds it.
func (s *Store) Respond(ctx context.Context, id int, text string, status models.Status) (models.Complaint, error) {
	responder := s.User()
	if responder == nil {
		return models.Complaint{}, apperr.New(apperr.CodeUnauthorized, "AddResponse", "sign in required")
	}
	c, ok := s.Complaint(id)
	if !ok {
		return models.Complaint{}, apperr.NotFound("AddResponse", "complaint %d not found", id)
	}
	r, err := complaint.NewResponse(c, text, status, *responder, s.now())
	if err != nil {
		return models.Complaint{}, err
	}
	return s.AddResponse(ctx, id, r)
}

// AddResponse appends r to the complaint and makes its status the complaint's
// status. r must carry a valid status; a missing id or date is stamped. A
// storage failure is logged and does not undo the change. The owner gets a
// notification, which is also relayed through the notifier.
func (s *Store) AddResponse(ctx context.Context, id int, r models.Response) (models.Complaint, error) {
	if err := complaint.Complete(&r, s.now()); err != nil {
		return models.Complaint{}, err
	}

	var (
		updated models.Complaint
		base    []models.Complaint
	)
	err := s.commit(ctx, "AddResponse", func(st *State) (*models.Event, error) {
		i := indexOf(st.Complaints, id)
		if i < 0 {
			return nil, apperr.NotFound("AddResponse", "complaint %d not found", id)
		}
		complaint.ApplyResponse(&st.Complaints[i], r)
		updated = st.Complaints[i].Clone()
		base = persistBase(st)
		ev := updated.Clone()
		return &models.Event{Type: models.EventComplaintResponded, ComplaintID: id, Complaint: &ev}, nil
	}, func(ctx context.Context) error {
		return s.persistComplaints(ctx, base, func(list []models.Complaint) []models.Complaint {
			// A stored collection without this complaint is left as it is.
			if i := indexOf(list, id); i >= 0 {
				list[i] = updated
			}
			return list
		})
	})
	if apperr.CodeOf(err) == apperr.CodeNotFound {
		return models.Complaint{}, err
	}

	s.notifyOwner(ctx, updated, r)
	return updated, nil
}

func (s *Store) notifyOwner(ctx context.Context, c models.Complaint, r models.Response) {
	if c.UserID == "" {
		return
	}

	lang := ""
	if u := s.User(); u != nil {
		lang = u.Language
	}
	now := s.now()
	n := models.Notification{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Message:     s.format(lang, "complaint_response_short", "%s responded to %q", r.ResponderName, c.Title),
		FullMessage: s.format(lang, "complaint_response_full", "%s responded to %q: %s", r.ResponderName, c.Title, r.Text),
		ComplaintID: c.ID,
		Date:        now.Format(complaint.DateLayout),
		Day:         now.Format(complaint.DayLayout),
		Time:        now.Format(complaint.TimeLayout),
		UserID:      c.UserID,
	}
	if err := s.AddNotification(ctx, n); err != nil {
		s.logger.Warn("failed to store response notification", zap.Int("complaint_id", c.ID), zap.Error(err))
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, n); err != nil {
			s.logger.Warn("failed to relay notification", zap.String("notification_id", n.ID), zap.Error(err))
		}
	}
}

func (s *Store) format(lang, key, fallback string, args ...any) string {
	if s.localizer == nil {
		return fmt.Sprintf(fallback, args...)
	}
	return s.localizer.Format(lang, key, args...)
}

// Seed stores the demo complaints and notifications when nothing is stored yet,
// or always when force is set. It returns the number of complaints written.
func (s *Store) Seed(ctx context.Context, force bool) (int, error) {
	stored, err := s.storage.LoadComplaints(ctx)
	if err != nil {
		return 0, err
	}
	if len(stored) > 0 && !force {
		return 0, nil
	}
	if err := s.storage.SaveComplaints(ctx, s.demo.Complaints); err != nil {
		return 0, err
	}
	if err := s.storage.SaveNotifications(ctx, s.demo.Notifications); err != nil {
		return 0, err
	}
	s.logger.Info("demo data seeded", zap.Int("complaints", len(s.demo.Complaints)))
	return len(s.demo.Complaints), nil
}
