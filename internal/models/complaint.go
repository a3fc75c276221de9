package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Status is the lifecycle state of a complaint or of a response.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// ParseStatus accepts both stored values and display labels ("In Progress").
func ParseStatus(v string) (Status, bool) {
	s := Status(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(v)), " ", "-"))
	return s, s.Valid()
}

// Well-known categories. Free-form values are accepted as well.
const (
	CategoryHealth        = "Health"
	CategorySecurity      = "Security"
	CategoryEntertainment = "Entertainment"
	CategoryNutrition     = "Nutrition"
	CategoryGovernance    = "Governance"
)

// Leader is the denormalized leader shown on a complaint card.
type Leader struct {
	Name             string `json:"name" yaml:"name"`
	Responsibilities string `json:"responsibilities" yaml:"responsibilities"`
}

// Response is a leader's reply to a complaint.
type Response struct {
	ID            string `json:"id" yaml:"id"`
	Text          string `json:"text" yaml:"text"`
	Date          string `json:"date" yaml:"date"` // RFC3339
	Status        Status `json:"status" yaml:"status"`
	ResponderID   string `json:"responderId" yaml:"responderId"`
	ResponderName string `json:"responderName" yaml:"responderName"`
}

// Complaint is a citizen-filed report as stored under the userComplaints key.
// UserID, CreatedBy, Images and Responses appeared in later revisions of the
// stored format and are optional.
type Complaint struct {
	ID              int        `json:"id" yaml:"id"`
	Title           string     `json:"title" yaml:"title"`
	Subtitle        string     `json:"subtitle" yaml:"subtitle"`
	Location        string     `json:"location" yaml:"location"`
	Date            string     `json:"date" yaml:"date"` // 2006-01-02
	Day             string     `json:"day" yaml:"day"`
	Time            string     `json:"time" yaml:"time"`
	BackgroundImage ImageRef   `json:"backgroundImage" yaml:"backgroundImage"`
	Images          []ImageRef `json:"images,omitempty" yaml:"images,omitempty"`
	Leader          Leader     `json:"leader" yaml:"leader"`
	Category        string     `json:"category" yaml:"category"`
	Status          Status     `json:"status" yaml:"status"`
	UserID          string     `json:"userId,omitempty" yaml:"userId,omitempty"`
	CreatedBy       string     `json:"createdBy,omitempty" yaml:"createdBy,omitempty"`
	Responses       []Response `json:"responses,omitempty" yaml:"responses,omitempty"`
}

// Normalize fills fields missing from older stored entries.
func (c *Complaint) Normalize() {
	if c.Status == "" {
		c.Status = StatusPending
		if n := len(c.Responses); n > 0 && c.Responses[n-1].Status != "" {
			c.Status = c.Responses[n-1].Status
		}
	}
	if c.Images == nil && c.BackgroundImage != "" {
		c.Images = []ImageRef{c.BackgroundImage}
	}
}

// OwnedBy reports whether the complaint was filed by userID. Complaints without
// a userId are unowned.
func (c *Complaint) OwnedBy(userID string) bool {
	return c.UserID != "" && c.UserID == userID
}

// Clone returns a deep copy so callers cannot alias the store's slices.
func (c Complaint) Clone() Complaint {
	if c.Images != nil {
		c.Images = append([]ImageRef(nil), c.Images...)
	}
	if c.Responses != nil {
		c.Responses = append([]Response(nil), c.Responses...)
	}
	return c
}

// ImageRef points at an image: a bundled asset ("asset:<n>"), a URL, or an
// on-device file URI.
type ImageRef string

const assetPrefix = "asset:"

// AssetImage returns the reference for a bundled asset id.
func AssetImage(id int) ImageRef {
	return ImageRef(assetPrefix + strconv.Itoa(id))
}

// IsAsset reports whether the image ships with the app.
func (r ImageRef) IsAsset() bool {
	return strings.HasPrefix(string(r), assetPrefix)
}

// UnmarshalJSON accepts a string, a bundled asset number or an {"uri": ...} object.
func (r *ImageRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = ImageRef(s)
	case '{':
		var obj struct {
			URI string `json:"uri"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*r = ImageRef(obj.URI)
	default:
		n, err := strconv.Atoi(string(data))
		if err != nil {
			return fmt.Errorf("unsupported image reference %s", data)
		}
		*r = AssetImage(n)
	}
	return nil
}
