package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book represents a swappable book stored in MongoDB. LikedBy is kept with
// set semantics and must never contain the owner.
type Book struct {
	ID      primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name    string               `json:"name" bson:"name"`
	Author  string               `json:"author" bson:"author"`
	Link    string               `json:"link,omitempty" bson:"link,omitempty"`
	Owner   primitive.ObjectID   `json:"owner" bson:"owner"`
	LikedBy []primitive.ObjectID `json:"likedBy" bson:"likedBy"`
}

// CreateBookRequest defines the request body for listing a new book
type CreateBookRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=200"`
	Author string `json:"author" validate:"required,min=1,max=100"`
	Link   string `json:"link,omitempty" validate:"omitempty,url"`
}

// UpdateBookRequest defines the request body for updating an existing book
type UpdateBookRequest struct {
	Name   string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Author string `json:"author,omitempty" validate:"omitempty,min=1,max=100"`
	Link   string `json:"link,omitempty" validate:"omitempty,url"`
}

// BookSummary is the flattened projection returned by nearby discovery and
// the liked-books listing: the book plus its owner's display name.
type BookSummary struct {
	ID       primitive.ObjectID `json:"id"`
	Name     string             `json:"name"`
	Author   string             `json:"author"`
	Link     string             `json:"link,omitempty"`
	UserName string             `json:"userName"`
}
