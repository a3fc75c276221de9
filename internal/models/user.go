package models

import "github.com/google/uuid"

// Role separates citizens, who file complaints, from leaders, who answer them.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleLeader  Role = "leader"
)

// User is the signed-in account persisted under the "user" key.
type User struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Email        string `json:"email" yaml:"email"`
	PhoneNumber  string `json:"phoneNumber" yaml:"phoneNumber"`
	Role         Role   `json:"role" yaml:"role"`
	ProfileImage string `json:"profileImage,omitempty" yaml:"profileImage,omitempty"`
	Location     string `json:"location,omitempty" yaml:"location,omitempty"`
	Language     string `json:"language,omitempty" yaml:"language,omitempty"`
	Title        string `json:"title,omitempty" yaml:"title,omitempty"` // leaders only
}

// IsLeader reports whether the user may view and answer all complaints.
func (u *User) IsLeader() bool {
	return u != nil && u.Role == RoleLeader
}

// EnsureID assigns a new UUID if the user has none yet.
func (u *User) EnsureID() {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
}

// ProfileUpdate carries the editable profile fields. Nil fields are left alone.
type ProfileUpdate struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	PhoneNumber  *string `json:"phoneNumber"`
	ProfileImage *string `json:"profileImage"`
	Location     *string `json:"location"`
	Language     *string `json:"language"`
}

// Apply merges the non-nil fields into u.
func (p ProfileUpdate) Apply(u *User) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.Name, p.Name)
	set(&u.Email, p.Email)
	set(&u.PhoneNumber, p.PhoneNumber)
	set(&u.ProfileImage, p.ProfileImage)
	set(&u.Location, p.Location)
	set(&u.Language, p.Language)
}
