package models

// Notification is an entry in the citizen's notification feed.
type Notification struct {
	ID          string `json:"id" yaml:"id"`
	Message     string `json:"message" yaml:"message"`
	FullMessage string `json:"fullMessage" yaml:"fullMessage"`
	ComplaintID int    `json:"complaintId" yaml:"complaintId"`
	Date        string `json:"date" yaml:"date"`
	Time        string `json:"time" yaml:"time"`
	Day         string `json:"day" yaml:"day"`
	Read        bool   `json:"read" yaml:"read"`
	UserID      string `json:"userId,omitempty" yaml:"userId,omitempty"`
}
