package handlers

import (
	"net/http"

	"github.com/bookxchange/backend/internal/models"
	"github.com/bookxchange/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles profile-related HTTP requests
type UserHandler struct {
	userRepository repositories.UserRepository
	locations      repositories.LocationRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, locations repositories.LocationRepository) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		locations:      locations,
	}
}

// RegisterProfileRoutes registers profile routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/users/me", h.GetMe)
	g.PUT("/users/me", h.UpdateMe)
	g.DELETE("/users/me", h.DeleteMe)
}

// GetMe returns the caller's profile
func (h *UserHandler) GetMe(c echo.Context) error {
	userID := getUserIDFromContext(c)

	user, err := h.userRepository.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": echo.Map{"user": user}})
}

// UpdateMe updates the caller's name and/or zipcode. A new zipcode must be
// inside the service area.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.Zipcode != "" {
		inService, err := h.locations.HasZipcode(c.Request().Context(), req.Zipcode)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if !inService {
			return echo.NewHTTPError(http.StatusBadRequest, "We do not operate in your location!")
		}
	}

	if err := h.userRepository.UpdateProfile(c.Request().Context(), userID, req.Name, req.Zipcode); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": "Update success"})
}

// DeleteMe deactivates the caller's account. Records are kept; the account
// simply stops participating.
func (h *UserHandler) DeleteMe(c echo.Context) error {
	userID := getUserIDFromContext(c)

	if err := h.userRepository.DeactivateUser(c.Request().Context(), userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
