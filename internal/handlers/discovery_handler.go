package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/bookxchange/backend/internal/models"
	"github.com/bookxchange/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookFinder is the slice of the discovery service the handler needs.
type BookFinder interface {
	NearbyBooks(ctx context.Context, userID primitive.ObjectID, radiusMeters float64) ([]models.BookSummary, error)
}

// DiscoveryHandler handles nearby-book discovery requests
type DiscoveryHandler struct {
	finder BookFinder
}

// NewDiscoveryHandler creates a new DiscoveryHandler
func NewDiscoveryHandler(finder BookFinder) *DiscoveryHandler {
	return &DiscoveryHandler{finder: finder}
}

// RegisterDiscoveryRoutes registers discovery routes
func (h *DiscoveryHandler) RegisterDiscoveryRoutes(g *echo.Group) {
	g.GET("/books/find", h.FindBooks)
}

// FindBooks returns books owned by nearby users, excluding the caller's own
// books and books already liked. An empty result is a success, not an error.
func (h *DiscoveryHandler) FindBooks(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var radius float64
	if raw := c.QueryParam("radius"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid radius parameter")
		}
		radius = parsed
	}

	nearbyBooks, err := h.finder.NearbyBooks(c.Request().Context(), userID, radius)
	if err != nil {
		if err == repositories.ErrZipcodeUnknown {
			return echo.NewHTTPError(http.StatusBadRequest, "We do not operate in your location!")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "success",
		"data": echo.Map{
			"nearbyBooks": nearbyBooks,
		},
	})
}
