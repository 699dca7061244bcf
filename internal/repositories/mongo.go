package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vidtube/backend/internal/pipeline"
)

// Collection names used across the repositories and their join stages.
const (
	CollectionUsers         = "users"
	CollectionVideos        = "videos"
	CollectionComments      = "comments"
	CollectionTweets        = "tweets"
	CollectionLikes         = "likes"
	CollectionSubscriptions = "subscriptions"
	CollectionPlaylists     = "playlists"
	CollectionSessions      = "sessions"
)

func returnUpdated() options.Lister[options.FindOneAndUpdateOptions] {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

func mapWriteErr(err error, action string) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	return fmt.Errorf("%s: %w", action, err)
}

func findByID[T any](ctx context.Context, coll *mongo.Collection, id string) (T, error) {
	var doc T
	err := coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return doc, ErrNotFound
		}
		return doc, fmt.Errorf("find %s by id: %w", coll.Name(), err)
	}
	return doc, nil
}

func aggregate[T any](ctx context.Context, coll *mongo.Collection, p pipeline.Pipeline) ([]T, error) {
	cursor, err := coll.Aggregate(ctx, p.Build())
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s aggregation: %w", coll.Name(), err)
	}
	return out, nil
}
