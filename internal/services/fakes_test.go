package services

import (
	"context"
	"sync"
	"time"

	"github.com/bookxchange/backend/internal/models"
	"github.com/bookxchange/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They mirror the Mongo implementations'
// semantics ($addToSet/$pull style changed-reporting included) and are safe
// for the concurrent best-effort notification appends.

type memUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func (r *memUserRepo) addUser(name, email, zipcode string) *models.User {
	u := &models.User{
		Name:          name,
		Email:         email,
		Zipcode:       zipcode,
		Active:        true,
		BooksOwned:    []primitive.ObjectID{},
		BooksLiked:    []primitive.ObjectID{},
		Notifications: []models.Notification{},
	}
	_ = r.CreateUser(context.Background(), u)
	return u
}

func (r *memUserRepo) get(id primitive.ObjectID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func copyUser(u *models.User) *models.User {
	cp := *u
	cp.BooksOwned = append([]primitive.ObjectID{}, u.BooksOwned...)
	cp.BooksLiked = append([]primitive.ObjectID{}, u.BooksLiked...)
	cp.Notifications = append([]models.Notification{}, u.Notifications...)
	return &cp
}

func (r *memUserRepo) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrEmailExists
		}
	}
	user.ID = primitive.NewObjectID()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return nil, err
	}
	return copyUser(u), nil
}

func (r *memUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memUserRepo) GetUsersByZipcodes(_ context.Context, zipcodes []string, exclude primitive.ObjectID) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	zips := make(map[string]struct{}, len(zipcodes))
	for _, z := range zipcodes {
		zips[z] = struct{}{}
	}
	out := []models.User{}
	for _, u := range r.users {
		if u.ID == exclude || !u.Active {
			continue
		}
		if _, ok := zips[u.Zipcode]; ok {
			out = append(out, *copyUser(u))
		}
	}
	return out, nil
}

func (r *memUserRepo) SetOTPByEmail(_ context.Context, email string, otp int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u.OTP = &otp
			return nil
		}
	}
	return repositories.ErrUserNotFound
}

func (r *memUserRepo) ActivateUser(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return err
	}
	u.Active = true
	u.OTP = nil
	return nil
}

func (r *memUserRepo) ClearOTP(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return err
	}
	u.OTP = nil
	return nil
}

func (r *memUserRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, name, zipcode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return err
	}
	if name != "" {
		u.Name = name
	}
	if zipcode != "" {
		u.Zipcode = zipcode
	}
	return nil
}

func (r *memUserRepo) DeactivateUser(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return err
	}
	u.Active = false
	return nil
}

func addToSet(set []primitive.ObjectID, id primitive.ObjectID) ([]primitive.ObjectID, bool) {
	for _, existing := range set {
		if existing == id {
			return set, false
		}
	}
	return append(set, id), true
}

func pullFromSet(set []primitive.ObjectID, id primitive.ObjectID) ([]primitive.ObjectID, bool) {
	for i, existing := range set {
		if existing == id {
			return append(set[:i:i], set[i+1:]...), true
		}
	}
	return set, false
}

func (r *memUserRepo) AddOwnedBook(_ context.Context, userID, bookID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(userID)
	if err != nil {
		return err
	}
	u.BooksOwned, _ = addToSet(u.BooksOwned, bookID)
	return nil
}

func (r *memUserRepo) RemoveOwnedBook(_ context.Context, userID, bookID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(userID)
	if err != nil {
		return err
	}
	u.BooksOwned, _ = pullFromSet(u.BooksOwned, bookID)
	return nil
}

func (r *memUserRepo) AddLikedBook(_ context.Context, userID, bookID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(userID)
	if err != nil {
		return false, err
	}
	var changed bool
	u.BooksLiked, changed = addToSet(u.BooksLiked, bookID)
	return changed, nil
}

func (r *memUserRepo) RemoveLikedBook(_ context.Context, userID, bookID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(userID)
	if err != nil {
		return false, err
	}
	var changed bool
	u.BooksLiked, changed = pullFromSet(u.BooksLiked, bookID)
	return changed, nil
}

func (r *memUserRepo) RemoveLikedBookFromAll(_ context.Context, bookID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		u.BooksLiked, _ = pullFromSet(u.BooksLiked, bookID)
	}
	return nil
}

func (r *memUserRepo) AppendNotification(_ context.Context, userID primitive.ObjectID, n models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(userID)
	if err != nil {
		return err
	}
	u.Notifications = append(u.Notifications, n)
	return nil
}

func (r *memUserRepo) MarkNotificationsRead(_ context.Context, userID primitive.ObjectID, cutoff time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(userID)
	if err != nil {
		return err
	}
	for i := range u.Notifications {
		if !u.Notifications[i].IsRead && !u.Notifications[i].Timestamp.After(cutoff) {
			u.Notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *memUserRepo) DeleteAllUsers(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = map[primitive.ObjectID]*models.User{}
	return nil
}

type memBookRepo struct {
	mu    sync.Mutex
	books map[primitive.ObjectID]*models.Book
}

func newMemBookRepo() *memBookRepo {
	return &memBookRepo{books: map[primitive.ObjectID]*models.Book{}}
}

func (r *memBookRepo) addBook(name, author string, owner primitive.ObjectID) *models.Book {
	b := &models.Book{
		Name:    name,
		Author:  author,
		Owner:   owner,
		LikedBy: []primitive.ObjectID{},
	}
	_ = r.CreateBook(context.Background(), b)
	return b
}

func copyBook(b *models.Book) *models.Book {
	cp := *b
	cp.LikedBy = append([]primitive.ObjectID{}, b.LikedBy...)
	return &cp
}

func (r *memBookRepo) CreateBook(_ context.Context, book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	book.ID = primitive.NewObjectID()
	if book.LikedBy == nil {
		book.LikedBy = []primitive.ObjectID{}
	}
	r.books[book.ID] = book
	return nil
}

func (r *memBookRepo) GetBookByID(_ context.Context, id primitive.ObjectID) (*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return nil, repositories.ErrBookNotFound
	}
	return copyBook(b), nil
}

func (r *memBookRepo) GetBooksByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Book{}
	for _, id := range ids {
		if b, ok := r.books[id]; ok {
			out = append(out, *copyBook(b))
		}
	}
	return out, nil
}

func (r *memBookRepo) GetBooksByOwner(_ context.Context, owner primitive.ObjectID) ([]models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Book{}
	for _, b := range r.books {
		if b.Owner == owner {
			out = append(out, *copyBook(b))
		}
	}
	return out, nil
}

func (r *memBookRepo) UpdateBook(_ context.Context, id primitive.ObjectID, name, author, link string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return repositories.ErrBookNotFound
	}
	if name != "" {
		b.Name = name
	}
	if author != "" {
		b.Author = author
	}
	if link != "" {
		b.Link = link
	}
	return nil
}

func (r *memBookRepo) DeleteBook(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return repositories.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *memBookRepo) AddLikedBy(_ context.Context, bookID, userID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[bookID]
	if !ok {
		return false, repositories.ErrBookNotFound
	}
	var changed bool
	b.LikedBy, changed = addToSet(b.LikedBy, userID)
	return changed, nil
}

func (r *memBookRepo) RemoveLikedBy(_ context.Context, bookID, userID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[bookID]
	if !ok {
		return false, repositories.ErrBookNotFound
	}
	var changed bool
	b.LikedBy, changed = pullFromSet(b.LikedBy, userID)
	return changed, nil
}

func (r *memBookRepo) DeleteAllBooks(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books = map[primitive.ObjectID]*models.Book{}
	return nil
}

type memLocationRepo struct {
	mu         sync.Mutex
	nearby     map[string][]string
	lastRadius float64
}

func newMemLocationRepo() *memLocationRepo {
	return &memLocationRepo{nearby: map[string][]string{}}
}

func (r *memLocationRepo) HasZipcode(_ context.Context, zipcode string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.nearby[zipcode]
	return ok, nil
}

func (r *memLocationRepo) NearbyZipcodes(_ context.Context, zipcode string, radiusMeters float64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastRadius = radiusMeters
	zips, ok := r.nearby[zipcode]
	if !ok {
		return nil, repositories.ErrZipcodeUnknown
	}
	return zips, nil
}
