package services

import (
	"context"

	"github.com/bookxchange/backend/internal/models"
	"github.com/bookxchange/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultRadiusMeters is the discovery radius applied when the caller does
// not supply one.
const DefaultRadiusMeters = 3000

// DiscoveryService finds books owned by users near the requester.
type DiscoveryService struct {
	users     repositories.UserRepository
	books     repositories.BookRepository
	locations repositories.LocationRepository
}

// NewDiscoveryService creates a new DiscoveryService
func NewDiscoveryService(users repositories.UserRepository, books repositories.BookRepository, locations repositories.LocationRepository) *DiscoveryService {
	return &DiscoveryService{
		users:     users,
		books:     books,
		locations: locations,
	}
}

// NearbyBooks returns the flattened list of books owned by users whose
// zipcode falls within radiusMeters of the requester's, excluding the
// requester's own books and books the requester has already liked.
// No nearby books is an empty list with success, never an error.
func (s *DiscoveryService) NearbyBooks(ctx context.Context, userID primitive.ObjectID, radiusMeters float64) ([]models.BookSummary, error) {
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	zipcodes, err := s.locations.NearbyZipcodes(ctx, user.Zipcode, radiusMeters)
	if err != nil {
		return nil, err
	}

	// Requester exclusion happens inside the user query, before any book joins.
	owners, err := s.users.GetUsersByZipcodes(ctx, zipcodes, user.ID)
	if err != nil {
		return nil, err
	}

	liked := make(map[primitive.ObjectID]struct{}, len(user.BooksLiked))
	for _, id := range user.BooksLiked {
		liked[id] = struct{}{}
	}

	// Already-liked books are dropped at the reference stage; only
	// surviving ids are expanded into full records.
	ownerNames := make(map[primitive.ObjectID]string)
	bookIDs := []primitive.ObjectID{}
	for _, owner := range owners {
		for _, bookID := range owner.BooksOwned {
			if _, ok := liked[bookID]; ok {
				continue
			}
			ownerNames[bookID] = owner.Name
			bookIDs = append(bookIDs, bookID)
		}
	}

	books, err := s.books.GetBooksByIDs(ctx, bookIDs)
	if err != nil {
		return nil, err
	}

	nearby := make([]models.BookSummary, 0, len(books))
	for _, b := range books {
		nearby = append(nearby, models.BookSummary{
			ID:       b.ID,
			Name:     b.Name,
			Author:   b.Author,
			Link:     b.Link,
			UserName: ownerNames[b.ID],
		})
	}
	return nearby, nil
}
