package handlers

import (
	"net/http"

	"github.com/bookxchange/backend/internal/models"
	"github.com/bookxchange/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookHandler handles book CRUD requests
type BookHandler struct {
	bookRepository repositories.BookRepository
	userRepository repositories.UserRepository
}

// NewBookHandler creates a new BookHandler
func NewBookHandler(bookRepo repositories.BookRepository, userRepo repositories.UserRepository) *BookHandler {
	return &BookHandler{
		bookRepository: bookRepo,
		userRepository: userRepo,
	}
}

// RegisterBookRoutes registers book-related routes
func (h *BookHandler) RegisterBookRoutes(g *echo.Group) {
	g.POST("/books", h.AddBook)
	g.GET("/books/owned", h.GetOwnedBooks)
	g.GET("/books/liked", h.GetLikedBooks)
	g.GET("/books/:id", h.GetBook)
	g.PUT("/books/:id", h.UpdateBook)
	g.DELETE("/books/:id", h.DeleteBook)
}

// AddBook lists a new book owned by the caller
func (h *BookHandler) AddBook(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req models.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	book := &models.Book{
		Name:   req.Name,
		Author: req.Author,
		Link:   req.Link,
		Owner:  userID,
	}
	if err := h.bookRepository.CreateBook(c.Request().Context(), book); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.userRepository.AddOwnedBook(c.Request().Context(), userID, book.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"status": "success", "data": echo.Map{"book": book}})
}

// GetBook retrieves a single book by id
func (h *BookHandler) GetBook(c echo.Context) error {
	bookID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid book ID format")
	}

	book, err := h.bookRepository.GetBookByID(c.Request().Context(), bookID)
	if err != nil {
		if err == repositories.ErrBookNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Book not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": echo.Map{"book": book}})
}

// GetOwnedBooks lists the caller's own books
func (h *BookHandler) GetOwnedBooks(c echo.Context) error {
	userID := getUserIDFromContext(c)

	books, err := h.bookRepository.GetBooksByOwner(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": echo.Map{"books": books}})
}

// GetLikedBooks lists the books the caller has liked, with owner names
func (h *BookHandler) GetLikedBooks(c echo.Context) error {
	userID := getUserIDFromContext(c)

	user, err := h.userRepository.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	books, err := h.bookRepository.GetBooksByIDs(c.Request().Context(), user.BooksLiked)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Owner names resolved once per distinct owner.
	ownerNames := make(map[primitive.ObjectID]string)
	liked := make([]models.BookSummary, 0, len(books))
	for _, b := range books {
		name, ok := ownerNames[b.Owner]
		if !ok {
			owner, err := h.userRepository.GetUserByID(c.Request().Context(), b.Owner)
			if err == nil {
				name = owner.Name
			}
			ownerNames[b.Owner] = name
		}
		liked = append(liked, models.BookSummary{
			ID:       b.ID,
			Name:     b.Name,
			Author:   b.Author,
			Link:     b.Link,
			UserName: name,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": echo.Map{"books": liked}})
}

// UpdateBook updates a book the caller owns
func (h *BookHandler) UpdateBook(c echo.Context) error {
	userID := getUserIDFromContext(c)

	bookID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid book ID format")
	}

	var req models.UpdateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	book, err := h.bookRepository.GetBookByID(c.Request().Context(), bookID)
	if err != nil {
		if err == repositories.ErrBookNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Book not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if book.Owner != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only update your own books")
	}

	if err := h.bookRepository.UpdateBook(c.Request().Context(), bookID, req.Name, req.Author, req.Link); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": "Update success"})
}

// DeleteBook removes a book the caller owns and cascades the reference
// cleanup: the id leaves the owner's owned set and every liker's liked set.
func (h *BookHandler) DeleteBook(c echo.Context) error {
	userID := getUserIDFromContext(c)

	bookID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid book ID format")
	}

	book, err := h.bookRepository.GetBookByID(c.Request().Context(), bookID)
	if err != nil {
		if err == repositories.ErrBookNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Book not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if book.Owner != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own books")
	}

	if err := h.bookRepository.DeleteBook(c.Request().Context(), bookID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.userRepository.RemoveOwnedBook(c.Request().Context(), book.Owner, bookID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.userRepository.RemoveLikedBookFromAll(c.Request().Context(), bookID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": "Book deleted"})
}
