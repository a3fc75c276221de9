package handler

import (
	"net/http"

	"citizenvoice/backend/internal/auth"
	"citizenvoice/backend/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LoginRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

type SessionResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login godoc
// @Summary Sign in
// @Description Checks the credentials, persists the session and loads the user's complaints.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Phone number (or email) and password"
// @Success 200 {object} Response{data=SessionResponse}
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	user, token, err := h.Store.Login(ctx, req.PhoneNumber, req.Password)
	if err != nil && token == "" {
		respondError(c, err)
		return
	}
	if err != nil {
		h.Logger.Warn("session not persisted", zap.String("user_id", user.ID), zap.Error(err))
	}
	h.Store.FetchComplaints(ctx)
	h.Store.FetchNotifications(ctx)

	respondSuccess(c, http.StatusOK, SessionResponse{Token: token, User: user})
}

// Register godoc
// @Summary Create a citizen account
// @Tags auth
// @Accept json
// @Produce json
// @Param account body auth.Registration true "New account"
// @Success 201 {object} Response{data=SessionResponse}
// @Failure 400 {object} Response
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req auth.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	user, token, err := h.Store.Register(ctx, req)
	if err != nil && token == "" {
		respondError(c, err)
		return
	}
	if err != nil {
		h.Logger.Warn("session not persisted", zap.String("user_id", user.ID), zap.Error(err))
	}
	h.Store.FetchComplaints(ctx)
	h.Store.FetchNotifications(ctx)

	respondSuccess(c, http.StatusCreated, SessionResponse{Token: token, User: user})
}

// Logout godoc
// @Summary Sign out
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} Response
// @Router /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	if err := h.Store.Logout(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, nil)
}

// GetProfile godoc
// @Summary Current user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} Response{data=models.User}
// @Router /auth/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	respondSuccess(c, http.StatusOK, currentUser(c))
}

// UpdateProfile godoc
// @Summary Edit the current user's profile
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param profile body models.ProfileUpdate true "Fields to change"
// @Success 200 {object} Response{data=models.User}
// @Router /auth/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req models.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}
	user, err := h.Store.UpdateProfile(c.Request.Context(), req)
	if err != nil && user.ID == "" {
		respondError(c, err)
		return
	}
	if err != nil {
		h.Logger.Warn("profile not persisted", zap.String("user_id", user.ID), zap.Error(err))
	}
	respondSuccess(c, http.StatusOK, user)
}
