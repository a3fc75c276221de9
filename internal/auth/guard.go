package auth

import (
	"citizenvoice/backend/internal/apperr"
	"citizenvoice/backend/internal/models"
)

// RequireRole fails unless u is signed in with one of roles.
func RequireRole(u *models.User, roles ...models.Role) error {
	if u == nil {
		return apperr.New(apperr.CodeUnauthorized, "RequireRole", "sign in required")
	}
	for _, r := range roles {
		if u.Role == r {
			return nil
		}
	}
	return apperr.New(apperr.CodePermissionDenied, "RequireRole", "not allowed for role "+string(u.Role))
}

// CanDelete reports whether u may delete c: leaders may delete anything,
// citizens only their own complaints.
func CanDelete(u *models.User, c models.Complaint) bool {
	if u == nil {
		return false
	}
	return u.IsLeader() || c.OwnedBy(u.ID)
}
