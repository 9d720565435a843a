package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session records an issued token for a logged-in user. CreatedAt carries a
// TTL index so stale sessions expire server-side.
type Session struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID       primitive.ObjectID `json:"userId" bson:"userId"`
	SessionToken string             `json:"-" bson:"sessionToken"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}
