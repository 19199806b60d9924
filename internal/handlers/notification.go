// internal/handlers/notification.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/aryanmiramini/shopyar-backend/internal/services"
	"github.com/aryanmiramini/shopyar-backend/internal/utils"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := services.NotificationListParams{
		PaginationParams: utils.GetPaginationParams(c),
		UnreadOnly:       c.Query("unread") == "true",
	}

	notifications, total, err := h.notificationService.List(userID, params)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(notifications, total, params.PaginationParams))
}

// GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	count, err := h.notificationService.UnreadCount(userID)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"unread_count": count})
}

// PATCH /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	notificationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	notification, err := h.notificationService.MarkRead(userID, notificationID)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, notification)
}

// PATCH /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	updated, err := h.notificationService.MarkAllRead(userID)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"marked_read": updated})
}
