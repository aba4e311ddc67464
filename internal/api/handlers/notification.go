package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qa-service/internal/api/middleware"
	"qa-service/internal/services"
	"qa-service/pkg/response"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List godoc
// @Summary List the caller's notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} map[string]interface{} "Notifications with pagination"
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	notifications, pagination, err := h.notifications.List(c.Request.Context(), user.ID,
		queryInt(c, "page", 1), queryInt(c, "limit", 20))
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Notifications retrieved successfully", gin.H{
		"notifications": notifications,
		"pagination":    pagination,
	})
}

// UnreadCount godoc
// @Summary Count unread notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Unread count"
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	count, err := h.notifications.UnreadCount(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Unread count retrieved successfully", gin.H{"count": count})
}

// MarkRead godoc
// @Summary Mark one notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} map[string]interface{} "Marked read"
// @Failure 403 {object} map[string]interface{} "Not the recipient"
// @Failure 404 {object} map[string]interface{} "Notification not found"
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), user.ID, id); err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Notification marked as read", nil)
}

// MarkAllRead godoc
// @Summary Mark every notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "All marked read"
// @Router /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.notifications.MarkAllRead(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "All notifications marked as read", nil)
}

// Delete godoc
// @Summary Delete a notification
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} map[string]interface{} "Deleted"
// @Failure 403 {object} map[string]interface{} "Not the recipient"
// @Failure 404 {object} map[string]interface{} "Notification not found"
// @Router /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.notifications.Delete(c.Request.Context(), user.ID, id); err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Notification deleted successfully", nil)
}
