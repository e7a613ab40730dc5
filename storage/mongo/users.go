package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/chatkit/core/user"
)

const usersCollection = "users"

// Compile-time check that UserStore implements user.Store.
var _ user.Store = (*UserStore)(nil)

// UserStore is the MongoDB implementation of user.Store.
type UserStore struct {
	collection *mongo.Collection
}

// NewUserStore creates a user store over the given database.
func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{
		collection: db.Collection(usersCollection),
	}
}

// EnsureIndexes creates the unique email index. Call once at startup.
func (s *UserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo: create email index: %w", err)
	}
	return nil
}

// Create inserts a new user record. A duplicate email maps to
// user.ErrEmailTaken whether detected by the unique index or a prior lookup.
func (s *UserStore) Create(ctx context.Context, u user.User) error {
	_, err := s.collection.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("mongo: insert user: %w", err)
	}
	return nil
}

// FindByEmail looks up a user by email.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("mongo: find user by email: %w", err)
	}
	return u, nil
}

// FindByID looks up a user by identity.
func (s *UserStore) FindByID(ctx context.Context, id string) (user.User, error) {
	var u user.User
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("mongo: find user by id: %w", err)
	}
	return u, nil
}

// UpdateProfilePic replaces the profile picture URL and returns the updated
// record.
func (s *UserStore) UpdateProfilePic(ctx context.Context, id, url string) (user.User, error) {
	update := bson.M{"$set": bson.M{
		"profile_pic": url,
		"updated_at":  time.Now().UTC(),
	}}

	var u user.User
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("mongo: update profile pic: %w", err)
	}
	return u, nil
}
