package handlers

import (
	"context"
	"net/http"

	"github.com/bookxchange/backend/internal/repositories"
	"github.com/bookxchange/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LikeActions is the slice of the like/unlike state machine the handler needs.
type LikeActions interface {
	Like(ctx context.Context, userID, bookID primitive.ObjectID) (*services.LikeResult, error)
	Unlike(ctx context.Context, userID, bookID primitive.ObjectID) (*services.LikeResult, error)
}

// LikeHandler handles HTTP requests for liking and unliking books
type LikeHandler struct {
	likes LikeActions
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likes LikeActions) *LikeHandler {
	return &LikeHandler{likes: likes}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/books/:id/likes", h.LikeBook)
	g.DELETE("/books/:id/likes", h.UnlikeBook)
}

// LikeBook handles liking a book. Repeat likes are a successful
// already-liked outcome, not an error.
func (h *LikeHandler) LikeBook(c echo.Context) error {
	userID := getUserIDFromContext(c)

	bookID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid book ID format")
	}

	result, err := h.likes.Like(c.Request().Context(), userID, bookID)
	if err != nil {
		switch err {
		case repositories.ErrBookNotFound:
			return echo.NewHTTPError(http.StatusNotFound, "Book not found")
		case repositories.ErrUserNotFound:
			// The session outlived its account, e.g. after a purge.
			return echo.NewHTTPError(http.StatusUnauthorized, "You are not logged in, please login to continue")
		case services.ErrOwnBook:
			return echo.NewHTTPError(http.StatusBadRequest, "You cannot like your own book")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"outcome": result.Outcome,
		"message": result.Message,
	})
}

// UnlikeBook handles unliking a book. Unliking a book that was never liked
// is a successful not-liked outcome.
func (h *LikeHandler) UnlikeBook(c echo.Context) error {
	userID := getUserIDFromContext(c)

	bookID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid book ID format")
	}

	result, err := h.likes.Unlike(c.Request().Context(), userID, bookID)
	if err != nil {
		switch err {
		case repositories.ErrBookNotFound:
			return echo.NewHTTPError(http.StatusNotFound, "Book not found")
		case repositories.ErrUserNotFound:
			return echo.NewHTTPError(http.StatusUnauthorized, "You are not logged in, please login to continue")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"outcome": result.Outcome,
		"message": result.Message,
	})
}
