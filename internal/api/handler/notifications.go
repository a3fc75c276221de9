package handler

import (
	"net/http"

	"citizenvoice/backend/internal/apperr"
	"citizenvoice/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type NotificationFeed struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unreadCount"`
}

func (h *Handler) feed() NotificationFeed {
	list := h.Store.Notifications()
	if list == nil {
		list = []models.Notification{}
	}
	return NotificationFeed{Notifications: list, UnreadCount: h.Store.UnreadCount()}
}

// ListNotifications godoc
// @Summary Notification feed
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Param refresh query bool false "Reload the feed first"
// @Success 200 {object} Response{data=NotificationFeed}
// @Router /notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
	if c.Query("refresh") == "true" {
		h.Store.FetchNotifications(c.Request.Context())
	}
	respondSuccess(c, http.StatusOK, h.feed())
}

// GetNotification godoc
// @Summary Notification detail
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Param id path string true "Notification id"
// @Success 200 {object} Response{data=models.Notification}
// @Failure 404 {object} Response
// @Router /notifications/{id} [get]
func (h *Handler) GetNotification(c *gin.Context) {
	id := c.Param("id")
	n, ok := h.Store.Notification(id)
	if !ok {
		respondError(c, apperr.NotFound("GetNotification", "notification %s not found", id))
		return
	}
	respondSuccess(c, http.StatusOK, n)
}

// MarkNotificationRead godoc
// @Summary Mark one notification as read
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Param id path string true "Notification id"
// @Success 200 {object} Response{data=NotificationFeed}
// @Failure 404 {object} Response
// @Router /notifications/{id}/read [put]
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	err := h.Store.MarkNotificationRead(c.Request.Context(), c.Param("id"))
	if apperr.CodeOf(err) == apperr.CodeNotFound {
		respondError(c, err)
		return
	}
	if err != nil {
		c.Error(err)
	}
	respondSuccess(c, http.StatusOK, h.feed())
}

// MarkAllNotificationsRead godoc
// @Summary Mark the whole feed as read
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {object} Response{data=NotificationFeed}
// @Router /notifications/read-all [put]
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	if err := h.Store.MarkAllNotificationsRead(c.Request.Context()); err != nil {
		c.Error(err)
	}
	respondSuccess(c, http.StatusOK, h.feed())
}
