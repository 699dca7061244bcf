package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pipeline"
)

// MongoTweetRepository provides MongoDB-backed persistence for tweets.
type MongoTweetRepository struct {
	tweets *mongo.Collection
}

// NewMongoTweetRepository constructs a tweet repository backed by MongoDB.
func NewMongoTweetRepository(db *mongo.Database) *MongoTweetRepository {
	return &MongoTweetRepository{tweets: db.Collection(CollectionTweets)}
}

// Create persists a new tweet record.
func (r *MongoTweetRepository) Create(ctx context.Context, tweet models.Tweet) error {
	if _, err := r.tweets.InsertOne(ctx, tweet); err != nil {
		return mapWriteErr(err, "insert tweet")
	}
	return nil
}

// FindByID fetches a tweet by its identifier.
func (r *MongoTweetRepository) FindByID(ctx context.Context, id string) (models.Tweet, error) {
	return findByID[models.Tweet](ctx, r.tweets, id)
}

// UpdateContent replaces a tweet's content and returns the updated document.
func (r *MongoTweetRepository) UpdateContent(ctx context.Context, id, content string, updatedAt time.Time) (models.Tweet, error) {
	var tweet models.Tweet
	err := r.tweets.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "content", Value: content},
			{Key: "updatedAt", Value: updatedAt},
		}}},
		returnUpdated(),
	).Decode(&tweet)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Tweet{}, ErrNotFound
		}
		return models.Tweet{}, fmt.Errorf("update tweet: %w", err)
	}
	return tweet, nil
}

// Delete removes a tweet record.
func (r *MongoTweetRepository) Delete(ctx context.Context, id string) error {
	res, err := r.tweets.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete tweet: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByOwner returns a page of a user's tweets, newest first.
func (r *MongoTweetRepository) ListByOwner(ctx context.Context, ownerID string, page pipeline.Page) ([]models.Tweet, error) {
	p := pipeline.Pipeline{
		pipeline.MatchField("owner", ownerID),
		pipeline.Sort("createdAt", false),
	}
	p = append(p, page.Stages()...)

	return aggregate[models.Tweet](ctx, r.tweets, p)
}
