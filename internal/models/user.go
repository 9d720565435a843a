package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is a single entry in a user's notification ledger. It is
// immutable after creation except for the IsRead flag.
type Notification struct {
	Text      string             `json:"text" bson:"text"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"` // user who triggered the notification
	IsRead    bool               `json:"isRead" bson:"isRead"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
}

// User represents an account stored in MongoDB. BooksOwned and BooksLiked
// hold references into the books collection; both are maintained with
// set semantics (no duplicate references).
type User struct {
	ID            primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string               `json:"name" bson:"name"`
	Email         string               `json:"email" bson:"email"` // unique index
	Zipcode       string               `json:"zipcode" bson:"zipcode"`
	Active        bool                 `json:"active" bson:"active"`
	OTP           *int                 `json:"-" bson:"otp,omitempty"` // nil once verified
	BooksOwned    []primitive.ObjectID `json:"booksOwned" bson:"booksOwned"`
	BooksLiked    []primitive.ObjectID `json:"booksLiked" bson:"booksLiked"`
	Notifications []Notification       `json:"notifications" bson:"notifications"`
}

// SignupRequest defines the request body for registering a new account
type SignupRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=50"`
	Email   string `json:"email" validate:"required,email"`
	Zipcode string `json:"zipcode" validate:"required,min=3,max=10"`
}

// VerifyRequest defines the request body for OTP verification (signup and login)
type VerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   int    `json:"otp" validate:"required,min=100000,max=999999"`
}

// LoginRequest defines the request body for requesting a login OTP
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UpdateUserRequest defines the request body for updating a profile
type UpdateUserRequest struct {
	Name    string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Zipcode string `json:"zipcode,omitempty" validate:"omitempty,min=3,max=10"`
}

// MarkNotificationsRequest carries the acknowledgement cutoff: every
// currently-unread notification with timestamp <= Timestamp is marked read.
type MarkNotificationsRequest struct {
	Timestamp time.Time `json:"timestamp" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}
