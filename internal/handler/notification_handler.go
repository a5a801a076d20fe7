package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gaanavykhari/studio-api/internal/service"
	"github.com/gaanavykhari/studio-api/pkg/response"
)

// NotificationHandler exposes the composed message outbox.
type NotificationHandler struct {
	notifications *service.NotificationService
}

// NewNotificationHandler constructs NotificationHandler.
func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListByStudent godoc
// @Summary Composed messages for a student
// @Tags Notifications
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/notifications [get]
func (h *NotificationHandler) ListByStudent(c *gin.Context) {
	notifications, err := h.notifications.ListByStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notifications, nil)
}
