package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pipeline"
)

// MongoSubscriptionRepository provides MongoDB-backed persistence for
// channel subscriptions.
type MongoSubscriptionRepository struct {
	subscriptions *mongo.Collection
}

// NewMongoSubscriptionRepository constructs a subscription repository
// backed by MongoDB.
func NewMongoSubscriptionRepository(db *mongo.Database) *MongoSubscriptionRepository {
	return &MongoSubscriptionRepository{subscriptions: db.Collection(CollectionSubscriptions)}
}

// Toggle inserts the subscription, or removes the existing one when the
// unique (subscriber, channel) index reports a conflict.
func (r *MongoSubscriptionRepository) Toggle(ctx context.Context, sub models.Subscription) (bool, error) {
	_, err := r.subscriptions.InsertOne(ctx, sub)
	if err == nil {
		return true, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return false, fmt.Errorf("insert subscription: %w", err)
	}

	criteria := bson.D{
		{Key: "subscriber", Value: sub.Subscriber},
		{Key: "channel", Value: sub.Channel},
	}
	if _, err := r.subscriptions.DeleteOne(ctx, criteria); err != nil {
		return false, fmt.Errorf("delete subscription: %w", err)
	}
	return false, nil
}

// ListSubscribers returns a page of the profiles subscribed to the channel.
func (r *MongoSubscriptionRepository) ListSubscribers(ctx context.Context, channelID string, page pipeline.Page) ([]models.PublicUser, error) {
	return r.listProfiles(ctx, "channel", channelID, "subscriber", page)
}

// ListSubscribedChannels returns a page of the channel profiles the user
// subscribes to.
func (r *MongoSubscriptionRepository) ListSubscribedChannels(ctx context.Context, subscriberID string, page pipeline.Page) ([]models.PublicUser, error) {
	return r.listProfiles(ctx, "subscriber", subscriberID, "channel", page)
}

// listProfiles resolves one side of the subscription join entity to public
// user profiles, newest subscription first.
func (r *MongoSubscriptionRepository) listProfiles(ctx context.Context, matchField, matchValue, resolveField string, page pipeline.Page) ([]models.PublicUser, error) {
	return aggregate[models.PublicUser](ctx, r.subscriptions, subscriptionProfilesPipeline(matchField, matchValue, resolveField, page))
}

// subscriptionProfilesPipeline paginates after the profile join so a
// subscription whose user record is gone cannot shorten a page.
func subscriptionProfilesPipeline(matchField, matchValue, resolveField string, page pipeline.Page) pipeline.Pipeline {
	p := pipeline.Pipeline{
		pipeline.MatchField(matchField, matchValue),
		pipeline.Sort("createdAt", false),
		pipeline.Join(CollectionUsers, resolveField, "_id", "profile"),
		pipeline.Unwind("$profile"),
		pipeline.ReplaceRoot("$profile"),
		pipeline.Project(bson.D{
			{Key: "_id", Value: 1},
			{Key: "username", Value: 1},
			{Key: "fullName", Value: 1},
			{Key: "avatar", Value: 1},
		}),
	}
	return append(p, page.Stages()...)
}
