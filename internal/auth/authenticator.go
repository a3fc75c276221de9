// Package auth checks credentials against a pluggable account source, issues
// session tokens and answers role questions. The fixture-backed source stands
// in for a real identity service during development.
package auth

import (
	"context"
	"strings"
	"sync"

	"citizenvoice/backend/internal/apperr"
	"citizenvoice/backend/internal/fixtures"
	"citizenvoice/backend/internal/models"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// Authenticator resolves credentials to a user and registers new citizens.
type Authenticator interface {
	Authenticate(ctx context.Context, identifier, password string) (models.User, error)
	Register(ctx context.Context, r Registration) (models.User, error)
}

// Registration is the sign-up form.
type Registration struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Password    string `json:"password" validate:"required,min=6"`
	Location    string `json:"location"`
	Language    string `json:"language"`
}

var validate = validator.New()

type account struct {
	user models.User
	hash []byte
}

// FixtureAuthenticator keeps accounts in memory with bcrypt password hashes.
type FixtureAuthenticator struct {
	mu       sync.RWMutex
	accounts []account
	cost     int
}

// NewFixtureAuthenticator hashes the given development accounts.
func NewFixtureAuthenticator(accounts []fixtures.Account) (*FixtureAuthenticator, error) {
	a := &FixtureAuthenticator{cost: bcrypt.DefaultCost}
	for _, acc := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), a.cost)
		if err != nil {
			return nil, err
		}
		a.accounts = append(a.accounts, account{user: acc.User, hash: hash})
	}
	return a, nil
}

// Authenticate matches identifier against phone number or email.
func (a *FixtureAuthenticator) Authenticate(ctx context.Context, identifier, password string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	identifier = strings.TrimSpace(identifier)

	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, acc := range a.accounts {
		if acc.user.PhoneNumber != identifier && !strings.EqualFold(acc.user.Email, identifier) {
			continue
		}
		if bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
			break
		}
		return acc.user, nil
	}
	return models.User{}, apperr.New(apperr.CodeUnauthorized, "Login", "invalid phone number or password")
}

// Register adds a citizen account. Phone numbers and emails must be unique.
func (a *FixtureAuthenticator) Register(ctx context.Context, r Registration) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	if err := validate.Struct(r); err != nil {
		return models.User{}, apperr.Validation("Register", "%v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), a.cost)
	if err != nil {
		return models.User{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, acc := range a.accounts {
		if acc.user.PhoneNumber == r.PhoneNumber {
			return models.User{}, apperr.Validation("Register", "phone number already registered")
		}
		if r.Email != "" && strings.EqualFold(acc.user.Email, r.Email) {
			return models.User{}, apperr.Validation("Register", "email already registered")
		}
	}

	u := models.User{
		Name:        r.Name,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Role:        models.RoleCitizen,
		Location:    r.Location,
		Language:    r.Language,
	}
	u.EnsureID()
	a.accounts = append(a.accounts, account{user: u, hash: hash})
	return u, nil
}

// Update replaces the stored profile of an existing account so later logins
// return the edited user.
func (a *FixtureAuthenticator) Update(u models.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.accounts {
		if a.accounts[i].user.ID == u.ID {
			a.accounts[i].user = u
			return
		}
	}
}
