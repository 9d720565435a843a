package services

import (
	"context"
	"errors"

	"github.com/bookxchange/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrOwnBook rejects a like on a book the acting user owns. The guard runs
// before any mutation is issued.
var ErrOwnBook = errors.New("cannot like your own book")

// Outcome is the stable status vocabulary the like/unlike state machine
// produces. Repeat actions are distinct successful outcomes, not errors.
type Outcome string

const (
	OutcomeLiked        Outcome = "liked"
	OutcomeAlreadyLiked Outcome = "already_liked"
	OutcomeMatched      Outcome = "matched"
	OutcomeUnliked      Outcome = "unliked"
	OutcomeNotLiked     Outcome = "not_liked"
)

const (
	msgLiked        = "Book liked successfully"
	msgAlreadyLiked = "Book already liked"
	msgMatched      = "It is a match!"
	msgUnliked      = "Book unliked successfully"
	msgNotLiked     = "Book not liked yet"
)

// LikeResult is the outcome of a like or unlike call, with the
// client-facing message the transport layer returns as-is.
type LikeResult struct {
	Outcome Outcome `json:"outcome"`
	Message string  `json:"message"`
}

// LikeService is the like/unlike state machine. It coordinates the two
// sides of the like relationship, runs match detection after a first-time
// like, and drives the notification fan-out.
type LikeService struct {
	users    repositories.UserRepository
	books    repositories.BookRepository
	notifier *NotificationService
}

// NewLikeService creates a new LikeService
func NewLikeService(users repositories.UserRepository, books repositories.BookRepository, notifier *NotificationService) *LikeService {
	return &LikeService{
		users:    users,
		books:    books,
		notifier: notifier,
	}
}

// Like transitions the (user, book) pair from NotLiked to Liked.
//
// The book is read first: it supplies the owner and name needed downstream
// and lets the self-like guard run before anything is mutated. The
// book-side add-if-absent then decides idempotency: if it was a no-op the
// pair was already Liked and no second write happens. Only a first-time
// like notifies the owner and evaluates match detection.
func (s *LikeService) Like(ctx context.Context, userID, bookID primitive.ObjectID) (*LikeResult, error) {
	book, err := s.books.GetBookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.Owner == userID {
		return nil, ErrOwnBook
	}

	actor, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	changed, err := s.books.AddLikedBy(ctx, bookID, userID)
	if err != nil {
		return nil, err
	}
	if !changed {
		return &LikeResult{Outcome: OutcomeAlreadyLiked, Message: msgAlreadyLiked}, nil
	}

	// Book side is durable; a failure here leaves the transient one-sided
	// window accepted by the data model.
	if _, err := s.users.AddLikedBook(ctx, userID, bookID); err != nil {
		return nil, err
	}

	if err := s.notifier.Notify(ctx, book.Owner, LikeMessage(actor.Name, book.Name), userID); err != nil {
		return nil, err
	}

	// Match detection needs the owner's liked set as of after this like.
	owner, err := s.users.GetUserByID(ctx, book.Owner)
	if err != nil {
		return nil, err
	}
	if HasMutualLike(owner.BooksLiked, actor.BooksOwned) {
		if err := s.notifier.Notify(ctx, owner.ID, MatchMessage(actor.Name, actor.Email), userID); err != nil {
			return nil, err
		}
		// The acting user's copy is best-effort; the response does not
		// wait for it.
		s.notifier.NotifyAsync(actor.ID, MatchMessage(owner.Name, owner.Email), owner.ID)
		return &LikeResult{Outcome: OutcomeMatched, Message: msgMatched}, nil
	}

	return &LikeResult{Outcome: OutcomeLiked, Message: msgLiked}, nil
}

// Unlike transitions the (user, book) pair from Liked to NotLiked.
//
// The book-side pull goes first so the pre-read book state (name, owner)
// feeds the notification; the user-side pull decides whether the action
// was meaningful. Unliking a pair that was never Liked is a successful
// NotLiked outcome with no side effects.
func (s *LikeService) Unlike(ctx context.Context, userID, bookID primitive.ObjectID) (*LikeResult, error) {
	book, err := s.books.GetBookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	actor, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.books.RemoveLikedBy(ctx, bookID, userID); err != nil {
		return nil, err
	}

	changed, err := s.users.RemoveLikedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if !changed {
		return &LikeResult{Outcome: OutcomeNotLiked, Message: msgNotLiked}, nil
	}

	s.notifier.NotifyAsync(book.Owner, UnlikeMessage(actor.Name, book.Name), userID)

	return &LikeResult{Outcome: OutcomeUnliked, Message: msgUnliked}, nil
}
