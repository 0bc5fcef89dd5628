package notification

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/study-planner/handlers"
	"github.com/sahilchouksey/study-planner/services"
	"github.com/sahilchouksey/study-planner/utils/middleware"
	"github.com/sahilchouksey/study-planner/utils/response"
)

// NotificationHandler handles notification-related API endpoints
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// GetNotifications handles GET /api/notifications?page=&limit=
func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	meta := response.CalculatePagination(page, limit, 0)

	notifications, total, err := h.notificationService.GetNotificationsByUser(c.UserContext(), services.ListNotificationsOptions{
		UserID:     userID,
		UnreadOnly: c.Query("unread_only") == "true",
		Category:   c.Query("category"),
		Limit:      meta.PerPage,
		Offset:     (meta.CurrentPage - 1) * meta.PerPage,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	unreadCount, err := h.notificationService.GetUnreadCount(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Paginated(c, fiber.Map{
		"notifications": notifications,
		"unreadCount":   unreadCount,
	}, response.CalculatePagination(meta.CurrentPage, meta.PerPage, total))
}

// GetUnreadCount handles GET /api/notifications/unread-count
func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	count, err := h.notificationService.GetUnreadCount(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"unreadCount": count})
}

// MarkAsRead handles POST /api/notifications/:id/read
func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid notification ID")
	}

	if err := h.notificationService.MarkAsRead(c.UserContext(), userID, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"message": "Notification marked as read"})
}

// MarkAllAsRead handles POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	count, err := h.notificationService.MarkAllAsRead(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{
		"message": "All notifications marked as read",
		"count":   count,
	})
}

// DeleteNotification handles DELETE /api/notifications/:id
func (h *NotificationHandler) DeleteNotification(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid notification ID")
	}

	if err := h.notificationService.DeleteNotification(c.UserContext(), userID, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"message": "Notification deleted"})
}
