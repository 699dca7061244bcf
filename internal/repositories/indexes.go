package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// EnsureIndexes creates the indexes the repositories depend on. The unique
// indexes on likes and subscriptions are load-bearing: toggle operations
// insert first and rely on a duplicate-key conflict to detect the
// already-present state, so correctness degrades to a race without them.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	specs := map[string][]mongo.IndexModel{
		CollectionUsers: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		CollectionVideos: {
			{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}}},
		},
		CollectionComments: {
			{Keys: bson.D{{Key: "video", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		CollectionTweets: {
			{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		CollectionLikes: {
			{
				Keys:    bson.D{{Key: "likedBy", Value: 1}, {Key: "video", Value: 1}},
				Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.D{{Key: "video", Value: bson.D{{Key: "$exists", Value: true}}}}),
			},
			{
				Keys:    bson.D{{Key: "likedBy", Value: 1}, {Key: "comment", Value: 1}},
				Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.D{{Key: "comment", Value: bson.D{{Key: "$exists", Value: true}}}}),
			},
			{
				Keys:    bson.D{{Key: "likedBy", Value: 1}, {Key: "tweet", Value: 1}},
				Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.D{{Key: "tweet", Value: bson.D{{Key: "$exists", Value: true}}}}),
			},
		},
		CollectionSubscriptions: {
			{Keys: bson.D{{Key: "subscriber", Value: 1}, {Key: "channel", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "channel", Value: 1}}},
		},
		CollectionPlaylists: {
			{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		CollectionSessions: {
			{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		},
	}

	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}

	return nil
}
