package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type OnboardingState struct {
	Seen bool `json:"seen"`
}

// GetOnboarding godoc
// @Summary Whether the onboarding flow was completed
// @Tags onboarding
// @Produce json
// @Success 200 {object} Response{data=OnboardingState}
// @Router /onboarding [get]
func (h *Handler) GetOnboarding(c *gin.Context) {
	seen, err := h.Store.HasSeenOnboarding(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, OnboardingState{Seen: seen})
}

// SetOnboarding godoc
// @Summary Complete or reset onboarding
// @Description An empty body completes onboarding; {"seen": false} resets it.
// @Tags onboarding
// @Accept json
// @Produce json
// @Param state body OnboardingState false "Desired state"
// @Success 200 {object} Response{data=OnboardingState}
// @Router /onboarding [post]
func (h *Handler) SetOnboarding(c *gin.Context) {
	req := OnboardingState{Seen: true}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
	}

	ctx := c.Request.Context()
	var err error
	if req.Seen {
		err = h.Store.CompleteOnboarding(ctx)
	} else {
		err = h.Store.ResetOnboarding(ctx)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, req)
}
