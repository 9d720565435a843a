package repositories

import (
	"context"
	"errors"

	"github.com/bookxchange/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrBookNotFound is returned when a book id does not resolve to a record.
var ErrBookNotFound = errors.New("book not found")

// BookRepository defines the interface for book data operations
type BookRepository interface {
	CreateBook(ctx context.Context, book *models.Book) error
	GetBookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	GetBooksByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Book, error)
	GetBooksByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Book, error)
	UpdateBook(ctx context.Context, id primitive.ObjectID, name, author, link string) error
	DeleteBook(ctx context.Context, id primitive.ObjectID) error
	AddLikedBy(ctx context.Context, bookID, userID primitive.ObjectID) (bool, error)
	RemoveLikedBy(ctx context.Context, bookID, userID primitive.ObjectID) (bool, error)
	DeleteAllBooks(ctx context.Context) error
}

// MongoBookRepository implements BookRepository for MongoDB
type MongoBookRepository struct {
	collection *mongo.Collection
}

// NewMongoBookRepository creates a new MongoBookRepository
func NewMongoBookRepository(db *mongo.Database) *MongoBookRepository {
	return &MongoBookRepository{collection: db.Collection("books")}
}

// CreateBook inserts a new book
func (r *MongoBookRepository) CreateBook(ctx context.Context, book *models.Book) error {
	book.ID = primitive.NewObjectID()
	if book.LikedBy == nil {
		book.LikedBy = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, book)
	return err
}

// GetBookByID retrieves a book by id
func (r *MongoBookRepository) GetBookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	var book models.Book
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&book)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

// GetBooksByIDs retrieves all books whose id is in the given set
func (r *MongoBookRepository) GetBooksByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Book, error) {
	if len(ids) == 0 {
		return []models.Book{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	books := []models.Book{}
	if err = cursor.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBooksByOwner retrieves all books owned by the given user
func (r *MongoBookRepository) GetBooksByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Book, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"owner": owner})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	books := []models.Book{}
	if err = cursor.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// UpdateBook updates the mutable book fields. Empty values are skipped.
func (r *MongoBookRepository) UpdateBook(ctx context.Context, id primitive.ObjectID, name, author, link string) error {
	set := bson.M{}
	if name != "" {
		set["name"] = name
	}
	if author != "" {
		set["author"] = author
	}
	if link != "" {
		set["link"] = link
	}
	if len(set) == 0 {
		return nil
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrBookNotFound
	}
	return nil
}

// DeleteBook removes the book document. Reference cascades live in the
// user repository and are driven by the caller.
func (r *MongoBookRepository) DeleteBook(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrBookNotFound
	}
	return nil
}

// AddLikedBy adds the user reference if absent and reports whether the
// document changed. False means the user had already liked the book; two
// racing likes resolve here, with the loser seeing no modification.
func (r *MongoBookRepository) AddLikedBy(ctx context.Context, bookID, userID primitive.ObjectID) (bool, error) {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": bookID}, bson.M{"$addToSet": bson.M{"likedBy": userID}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ErrBookNotFound
	}
	return res.ModifiedCount > 0, nil
}

// RemoveLikedBy pulls the user reference if present and reports whether the
// document changed.
func (r *MongoBookRepository) RemoveLikedBy(ctx context.Context, bookID, userID primitive.ObjectID) (bool, error) {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": bookID}, bson.M{"$pull": bson.M{"likedBy": userID}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ErrBookNotFound
	}
	return res.ModifiedCount > 0, nil
}

// DeleteAllBooks removes every book document (admin purge only).
func (r *MongoBookRepository) DeleteAllBooks(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}
