package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sunwoo0067/yooni-03-sub011/internal/application/notification"
)

// NotificationHandler serves the operator notification feed
type NotificationHandler struct {
	BaseHandler
	notifications *notification.Service
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *notification.Service) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// RegisterRoutes registers notification routes
func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/notifications")
	{
		group.GET("", h.List)
		group.GET("/unread-count", h.UnreadCount)
		group.POST("/:id/read", h.MarkRead)
		group.POST("/read-all", h.MarkAllRead)
	}
}

// List returns notifications with filtering and pagination
func (h *NotificationHandler) List(c *gin.Context) {
	var filter notification.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rows, total, err := h.notifications.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, rows, total, filter.Page, filter.PageSize)
}

// UnreadCount returns the number of unread notifications
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notifications.CountUnread(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"unread": count})
}

// MarkRead marks one notification as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid notification ID")
		return
	}

	row, err := h.notifications.MarkRead(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, row)
}

// MarkAllRead marks every unread notification as read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notifications.MarkAllRead(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "all notifications marked read"})
}
