package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/bookxchange/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrSessionNotFound is returned when a session token has no live record.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository defines the interface for session data operations
type SessionRepository interface {
	CreateSession(ctx context.Context, userID primitive.ObjectID, token string) error
	GetSessionByToken(ctx context.Context, token string) (*models.Session, error)
	DeleteSessionByToken(ctx context.Context, token string) error
	DeleteAllSessions(ctx context.Context) error
}

// MongoSessionRepository implements SessionRepository for MongoDB
type MongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new MongoSessionRepository
func NewMongoSessionRepository(db *mongo.Database) *MongoSessionRepository {
	return &MongoSessionRepository{collection: db.Collection("sessions")}
}

// CreateSession records a freshly issued token
func (r *MongoSessionRepository) CreateSession(ctx context.Context, userID primitive.ObjectID, token string) error {
	session := models.Session{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		SessionToken: token,
		CreatedAt:    time.Now(),
	}
	_, err := r.collection.InsertOne(ctx, session)
	return err
}

// GetSessionByToken resolves a token to its live session record
func (r *MongoSessionRepository) GetSessionByToken(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	err := r.collection.FindOne(ctx, bson.M{"sessionToken": token}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// DeleteSessionByToken drops the session on logout
func (r *MongoSessionRepository) DeleteSessionByToken(ctx context.Context, token string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"sessionToken": token})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteAllSessions removes every session document (admin purge only).
func (r *MongoSessionRepository) DeleteAllSessions(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}
