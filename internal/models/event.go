package models

import "time"

// EventType names a change to the application state.
type EventType string

const (
	EventComplaintsReplaced EventType = "complaints.replaced"
	EventComplaintCreated   EventType = "complaint.created"
	EventComplaintDeleted   EventType = "complaint.deleted"
	EventComplaintResponded EventType = "complaint.responded"
	EventNotificationAdded  EventType = "notification.added"
	EventNotificationsRead  EventType = "notifications.read"
	EventNotificationsSet   EventType = "notifications.replaced"
	EventSessionChanged     EventType = "session.changed"
)

// Event is pushed to subscribers after an in-memory change is applied.
type Event struct {
	Type         EventType     `json:"type"`
	ComplaintID  int           `json:"complaintId,omitempty"`
	Complaint    *Complaint    `json:"complaint,omitempty"`
	Notification *Notification `json:"notification,omitempty"`
	Count        int           `json:"count,omitempty"`
	// UserID is the signed-in user after a session change, empty once signed out.
	UserID string    `json:"userId,omitempty"`
	At     time.Time `json:"at"`
}
