package handlers

import (
	"net/http"

	"github.com/bookxchange/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// AdminHandler handles operational endpoints guarded by a shared token
type AdminHandler struct {
	userRepository    repositories.UserRepository
	bookRepository    repositories.BookRepository
	sessionRepository repositories.SessionRepository
	adminToken        string
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(userRepo repositories.UserRepository, bookRepo repositories.BookRepository, sessionRepo repositories.SessionRepository, adminToken string) *AdminHandler {
	return &AdminHandler{
		userRepository:    userRepo,
		bookRepository:    bookRepo,
		sessionRepository: sessionRepo,
		adminToken:        adminToken,
	}
}

// RegisterAdminRoutes registers admin routes
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.POST("/purge", h.Purge)
}

// Purge hard-deletes every user, book and session. Unlike account
// deactivation this is destructive; it exists for test environments.
func (h *AdminHandler) Purge(c echo.Context) error {
	if h.adminToken == "" || c.Request().Header.Get("X-Admin-Token") != h.adminToken {
		return echo.NewHTTPError(http.StatusForbidden, "You cannot perform this action")
	}

	ctx := c.Request().Context()
	if err := h.bookRepository.DeleteAllBooks(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.userRepository.DeleteAllUsers(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.sessionRepository.DeleteAllSessions(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "success"})
}
