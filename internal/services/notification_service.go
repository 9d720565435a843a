package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/bookxchange/backend/internal/models"
	"github.com/bookxchange/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// asyncAppendTimeout bounds best-effort ledger writes that run after the
// caller's response has already been decided.
const asyncAppendTimeout = 10 * time.Second

// LikeMessage renders the notification text for a first-time like.
func LikeMessage(likerName, bookName string) string {
	return fmt.Sprintf("%s liked your book, %s", likerName, bookName)
}

// UnlikeMessage renders the notification text for an unlike.
func UnlikeMessage(likerName, bookName string) string {
	return fmt.Sprintf("%s un-liked your book, %s", likerName, bookName)
}

// MatchMessage renders the notification text for a mutual match.
func MatchMessage(otherName, otherEmail string) string {
	return fmt.Sprintf("It is a match! %s(%s) and you can now exchange book(s)", otherName, otherEmail)
}

// NewNotification builds an unread notification record attributed to the
// triggering user. The timestamp is assigned at composition time, not at
// durable append.
func NewNotification(text string, actorID primitive.ObjectID) models.Notification {
	return models.Notification{
		Text:      text,
		UserID:    actorID,
		IsRead:    false,
		Timestamp: time.Now(),
	}
}

// NotificationService owns the per-user notification ledger: appends,
// unread retrieval and the bulk mark-as-read cutoff.
type NotificationService struct {
	users repositories.UserRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(users repositories.UserRepository) *NotificationService {
	return &NotificationService{users: users}
}

// Notify composes and appends a notification on the caller's path.
func (s *NotificationService) Notify(ctx context.Context, recipientID primitive.ObjectID, text string, actorID primitive.ObjectID) error {
	return s.users.AppendNotification(ctx, recipientID, NewNotification(text, actorID))
}

// NotifyAsync composes a notification now and appends it best-effort
// without blocking the caller. Failures are logged and dropped.
func (s *NotificationService) NotifyAsync(recipientID primitive.ObjectID, text string, actorID primitive.ObjectID) {
	n := NewNotification(text, actorID)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncAppendTimeout)
		defer cancel()
		if err := s.users.AppendNotification(ctx, recipientID, n); err != nil {
			log.Printf("best-effort notification append failed for user %s: %v", recipientID.Hex(), err)
		}
	}()
}

// GetUnread returns the user's unread notifications sorted newest first,
// along with the most recent unread timestamp for use as a sync cursor.
// No unread notifications is an empty slice and a zero time, not an error.
func (s *NotificationService) GetUnread(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, time.Time, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, time.Time{}, err
	}

	unread := []models.Notification{}
	for _, n := range user.Notifications {
		if !n.IsRead {
			unread = append(unread, n)
		}
	}
	sort.Slice(unread, func(i, j int) bool {
		return unread[i].Timestamp.After(unread[j].Timestamp)
	})

	var latest time.Time
	if len(unread) > 0 {
		latest = unread[0].Timestamp
	}
	return unread, latest, nil
}

// MarkReadUpTo marks every currently-unread notification with
// timestamp <= cutoff as read, then returns the remaining unread set.
// Notifications appended after the cutoff stay unread.
func (s *NotificationService) MarkReadUpTo(ctx context.Context, userID primitive.ObjectID, cutoff time.Time) ([]models.Notification, time.Time, error) {
	if err := s.users.MarkNotificationsRead(ctx, userID, cutoff); err != nil {
		return nil, time.Time{}, err
	}
	return s.GetUnread(ctx, userID)
}
