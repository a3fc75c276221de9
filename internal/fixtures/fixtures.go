// Package fixtures embeds the demo data used when nothing is stored locally
// and the remote API cannot be reached.
package fixtures

import (
	"embed"
	"fmt"
	"sync"

	"citizenvoice/backend/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var files embed.FS

// Account is a development user with its plain-text password.
type Account struct {
	models.User `yaml:",inline"`
	Password    string `yaml:"password"`
}

// Set is the full demo data set.
type Set struct {
	Complaints    []models.Complaint
	Accounts      []Account
	Notifications []models.Notification
}

var load = sync.OnceValues(func() (*Set, error) {
	s := &Set{}
	if err := decode("data/complaints.yaml", &s.Complaints); err != nil {
		return nil, err
	}
	if err := decode("data/users.yaml", &s.Accounts); err != nil {
		return nil, err
	}
	if err := decode("data/notifications.yaml", &s.Notifications); err != nil {
		return nil, err
	}
	for i := range s.Complaints {
		s.Complaints[i].Normalize()
	}
	return s, nil
})

func decode(name string, dst any) error {
	data, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read fixture %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse fixture %s: %w", name, err)
	}
	return nil
}

// Load returns a fresh copy of the demo data; callers may modify it.
func Load() (*Set, error) {
	s, err := load()
	if err != nil {
		return nil, err
	}
	out := &Set{
		Complaints:    make([]models.Complaint, len(s.Complaints)),
		Accounts:      append([]Account(nil), s.Accounts...),
		Notifications: append([]models.Notification(nil), s.Notifications...),
	}
	for i, c := range s.Complaints {
		out.Complaints[i] = c.Clone()
	}
	return out, nil
}

// MustLoad is Load for callers that treat broken embedded data as a bug.
func MustLoad() *Set {
	s, err := Load()
	if err != nil {
		panic(err)
	}
	return s
}

// DefaultLeader is the leader attached to new complaints: the first leader
// account, with its title as responsibilities.
func (s *Set) DefaultLeader() models.Leader {
	for _, a := range s.Accounts {
		if a.Role == models.RoleLeader {
			return models.Leader{Name: a.Name, Responsibilities: a.Title}
		}
	}
	return models.Leader{}
}
