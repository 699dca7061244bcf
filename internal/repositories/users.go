package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vidtube/backend/internal/models"
)

// MongoUserRepository provides MongoDB-backed persistence for users.
type MongoUserRepository struct {
	users *mongo.Collection
}

// NewMongoUserRepository constructs a user repository backed by MongoDB.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{users: db.Collection(CollectionUsers)}
}

// Create persists a new user record.
func (r *MongoUserRepository) Create(ctx context.Context, user models.User) error {
	if _, err := r.users.InsertOne(ctx, user); err != nil {
		return mapWriteErr(err, "insert user")
	}
	return nil
}

// FindByID fetches a user by their identifier.
func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	return findByID[models.User](ctx, r.users, id)
}

// FindByEmail fetches a user by their email address.
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}}, "email")
}

// FindByUsername fetches a user by their username.
func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "username", Value: username}}, "username")
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.D, by string) (models.User, error) {
	var user models.User
	if err := r.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user by %s: %w", by, err)
	}
	return user, nil
}
