package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bookxchange/backend/internal/models"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationLedger is the slice of the notification service the handler needs.
type NotificationLedger interface {
	GetUnread(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, time.Time, error)
	MarkReadUpTo(ctx context.Context, userID primitive.ObjectID, cutoff time.Time) ([]models.Notification, time.Time, error)
}

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	ledger NotificationLedger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(ledger NotificationLedger) *NotificationHandler {
	return &NotificationHandler{ledger: ledger}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/users/notifications", h.GetNotifications)
	g.POST("/users/notifications", h.MarkNotificationsRead)
}

// GetNotifications returns the caller's unread notifications, newest first,
// together with the latest unread timestamp as a sync cursor.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID := getUserIDFromContext(c)

	unread, latest, err := h.ledger.GetUnread(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "success",
		"data": echo.Map{
			"notifications":   unread,
			"latestTimestamp": latest,
		},
	})
}

// MarkNotificationsRead acknowledges everything the client has seen up to
// the cutoff and returns what is still unread afterwards.
func (h *NotificationHandler) MarkNotificationsRead(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req models.MarkNotificationsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	unread, latest, err := h.ledger.MarkReadUpTo(c.Request().Context(), userID, req.Timestamp)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "success",
		"data": echo.Map{
			"notifications":   unread,
			"latestTimestamp": latest,
		},
	})
}
