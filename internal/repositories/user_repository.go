package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bookxchange/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrUserNotFound is returned when a user id or email does not resolve to a record.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when signup collides with the unique email index.
var ErrEmailExists = errors.New("email already exists")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsersByZipcodes(ctx context.Context, zipcodes []string, exclude primitive.ObjectID) ([]models.User, error)
	SetOTPByEmail(ctx context.Context, email string, otp int) error
	ActivateUser(ctx context.Context, id primitive.ObjectID) error
	ClearOTP(ctx context.Context, id primitive.ObjectID) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, name, zipcode string) error
	DeactivateUser(ctx context.Context, id primitive.ObjectID) error
	AddOwnedBook(ctx context.Context, userID, bookID primitive.ObjectID) error
	RemoveOwnedBook(ctx context.Context, userID, bookID primitive.ObjectID) error
	AddLikedBook(ctx context.Context, userID, bookID primitive.ObjectID) (bool, error)
	RemoveLikedBook(ctx context.Context, userID, bookID primitive.ObjectID) (bool, error)
	RemoveLikedBookFromAll(ctx context.Context, bookID primitive.ObjectID) error
	AppendNotification(ctx context.Context, userID primitive.ObjectID, n models.Notification) error
	MarkNotificationsRead(ctx context.Context, userID primitive.ObjectID, cutoff time.Time) error
	DeleteAllUsers(ctx context.Context) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser inserts a new user. A duplicate email is reported as ErrEmailExists.
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	if user.BooksOwned == nil {
		user.BooksOwned = []primitive.ObjectID{}
	}
	if user.BooksLiked == nil {
		user.BooksLiked = []primitive.ObjectID{}
	}
	if user.Notifications == nil {
		user.Notifications = []models.Notification{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrEmailExists
	}
	return err
}

// GetUserByID retrieves a user by id
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUsersByZipcodes retrieves all active users located in one of the given
// zipcodes, excluding the requester. The exclusion happens in the query so
// the caller never joins against its own books.
func (r *MongoUserRepository) GetUsersByZipcodes(ctx context.Context, zipcodes []string, exclude primitive.ObjectID) ([]models.User, error) {
	if len(zipcodes) == 0 {
		return []models.User{}, nil
	}
	filter := bson.M{
		"zipcode": bson.M{"$in": zipcodes},
		"_id":     bson.M{"$ne": exclude},
		"active":  true,
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SetOTPByEmail stores a fresh OTP for the user with the given email.
func (r *MongoUserRepository) SetOTPByEmail(ctx context.Context, email string, otp int) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"otp": otp}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ActivateUser marks the user active and clears the pending OTP.
func (r *MongoUserRepository) ActivateUser(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{
		"$set":   bson.M{"active": true},
		"$unset": bson.M{"otp": ""},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ClearOTP removes the pending OTP after a successful login verification.
func (r *MongoUserRepository) ClearOTP(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$unset": bson.M{"otp": ""}})
	return err
}

// UpdateProfile updates the mutable profile fields. Empty values are skipped.
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, zipcode string) error {
	set := bson.M{}
	if name != "" {
		set["name"] = name
	}
	if zipcode != "" {
		set["zipcode"] = zipcode
	}
	if len(set) == 0 {
		return nil
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeactivateUser performs the soft delete used by account removal.
func (r *MongoUserRepository) DeactivateUser(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"active": false}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AddOwnedBook records ownership of a newly added book.
func (r *MongoUserRepository) AddOwnedBook(ctx context.Context, userID, bookID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$addToSet": bson.M{"booksOwned": bookID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// RemoveOwnedBook drops a deleted book from its former owner.
func (r *MongoUserRepository) RemoveOwnedBook(ctx context.Context, userID, bookID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$pull": bson.M{"booksOwned": bookID}})
	return err
}

// AddLikedBook adds the book reference if absent and reports whether the
// document changed. A false return means the reference was already there.
func (r *MongoUserRepository) AddLikedBook(ctx context.Context, userID, bookID primitive.ObjectID) (bool, error) {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$addToSet": bson.M{"booksLiked": bookID}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ErrUserNotFound
	}
	return res.ModifiedCount > 0, nil
}

// RemoveLikedBook pulls the book reference if present and reports whether the
// document changed. A false return means the pair was not liked.
func (r *MongoUserRepository) RemoveLikedBook(ctx context.Context, userID, bookID primitive.ObjectID) (bool, error) {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$pull": bson.M{"booksLiked": bookID}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ErrUserNotFound
	}
	return res.ModifiedCount > 0, nil
}

// RemoveLikedBookFromAll is the delete cascade: the book id is pulled from
// every user's liked set.
func (r *MongoUserRepository) RemoveLikedBookFromAll(ctx context.Context, bookID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx, bson.M{"booksLiked": bookID}, bson.M{"$pull": bson.M{"booksLiked": bookID}})
	return err
}

// AppendNotification appends a notification record to the user's ledger.
func (r *MongoUserRepository) AppendNotification(ctx context.Context, userID primitive.ObjectID, n models.Notification) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$push": bson.M{"notifications": n}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// MarkNotificationsRead flips the read flag on every currently-unread
// notification with timestamp <= cutoff, using an array-element filter so
// later entries stay untouched.
func (r *MongoUserRepository) MarkNotificationsRead(ctx context.Context, userID primitive.ObjectID, cutoff time.Time) error {
	update := bson.M{"$set": bson.M{"notifications.$[n].isRead": true}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"n.isRead": false, "n.timestamp": bson.M{"$lte": cutoff}},
		},
	})
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update, opts)
	if err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteAllUsers removes every user document (admin purge only).
func (r *MongoUserRepository) DeleteAllUsers(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}
