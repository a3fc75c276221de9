package store

import (
	"context"
	"fmt"

	"citizenvoice/backend/internal/complaint"
	"citizenvoice/backend/internal/models"
)

// Action is a named mutation accepted by Dispatch.
type Action interface {
	action() string
}

type FetchComplaints struct{}

type CreateComplaint struct {
	Draft   complaint.Draft
	Creator *models.User
}

type DeleteComplaint struct {
	ID int
}

type AddResponse struct {
	ID       int
	Response models.Response
}

type MarkNotificationRead struct {
	ID string
}

type MarkAllNotificationsRead struct{}

func (FetchComplaints) action() string          { return "fetchComplaints" }
func (CreateComplaint) action() string          { return "createComplaint" }
func (DeleteComplaint) action() string          { return "deleteComplaint" }
func (AddResponse) action() string              { return "addResponseToComplaint" }
func (MarkNotificationRead) action() string     { return "markNotificationRead" }
func (MarkAllNotificationsRead) action() string { return "markAllNotificationsRead" }

// Dispatch runs the action through its typed method. The in-memory change is visible to
// readers as soon as Dispatch returns, whatever the error.
func (s *Store) Dispatch(ctx context.Context, a Action) error {
	switch a := a.(type) {
	case FetchComplaints:
		s.FetchComplaints(ctx)
		return nil
	case CreateComplaint:
		_, err := s.CreateComplaint(ctx, a.Draft, a.Creator)
		return err
	case DeleteComplaint:
		_, err := s.DeleteComplaint(ctx, a.ID)
		return err
	case AddResponse:
		_, err := s.AddResponse(ctx, a.ID, a.Response)
		return err
	case MarkNotificationRead:
		return s.MarkNotificationRead(ctx, a.ID)
	case MarkAllNotificationsRead:
		return s.MarkAllNotificationsRead(ctx)
	default:
		return fmt.Errorf("store: unknown action %T", a)
	}
}
