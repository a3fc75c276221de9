package handler

import (
	"strings"

	"citizenvoice/backend/internal/apperr"
	"citizenvoice/backend/internal/auth"
	"citizenvoice/backend/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const userKey = "user"

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// authenticate resolves token to the signed-in user. The token must be valid
// and be the persisted session token.
func (h *Handler) authenticate(c *gin.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperr.New(apperr.CodeUnauthorized, "Authenticate", "authorization token missing")
	}
	claims, err := h.Tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	session, ok, err := h.Store.SessionToken(c.Request.Context())
	if err != nil {
		return nil, err
	}
	if !ok || session != token {
		return nil, apperr.New(apperr.CodeUnauthorized, "Authenticate", "session has ended")
	}

	user := h.Store.User()
	if user == nil || user.ID != claims.UserID {
		return nil, apperr.New(apperr.CodeUnauthorized, "Authenticate", "session has ended")
	}
	return user, nil
}

// RequireAuth rejects requests without the current session's bearer token.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.authenticate(c, bearerToken(c))
		if err != nil {
			h.Logger.Debug("request rejected", zap.String("path", c.FullPath()), zap.Error(err))
			respondError(c, err)
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func (h *Handler) RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.RequireRole(currentUser(c), roles...); err != nil {
			respondError(c, err)
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
