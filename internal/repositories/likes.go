package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vidtube/backend/internal/authz"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pipeline"
)

// MongoLikeRepository provides MongoDB-backed persistence for likes.
type MongoLikeRepository struct {
	likes *mongo.Collection
}

// NewMongoLikeRepository constructs a like repository backed by MongoDB.
func NewMongoLikeRepository(db *mongo.Database) *MongoLikeRepository {
	return &MongoLikeRepository{likes: db.Collection(CollectionLikes)}
}

// Toggle inserts the like, or removes the existing one when the unique
// (likedBy, target) index reports a conflict. Insert-first keeps two
// concurrent toggles from ever producing two records for one pair: one
// insert wins, the other conflicts and deletes.
func (r *MongoLikeRepository) Toggle(ctx context.Context, like models.Like) (bool, error) {
	_, err := r.likes.InsertOne(ctx, like)
	if err == nil {
		return true, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return false, fmt.Errorf("insert like: %w", err)
	}

	if _, err := r.likes.DeleteOne(ctx, toggleCriteria(like)); err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	// A zero delete count means a concurrent toggle removed it first;
	// either way the pair ends in the absent state.
	return false, nil
}

// ListLikedVideos returns a page of the videos the user has liked, newest
// like first, restricted to videos still visible to the caller.
func (r *MongoLikeRepository) ListLikedVideos(ctx context.Context, callerID string, page pipeline.Page) ([]models.VideoDetails, error) {
	return aggregate[models.VideoDetails](ctx, r.likes, likedVideosPipeline(callerID, page))
}

// likedVideosPipeline resolves like records to visible video documents.
// Skip and limit run after the visibility match so a page counts result
// items, not like records; a like whose video went unpublished does not
// shorten the page it would have landed on.
func likedVideosPipeline(callerID string, page pipeline.Page) pipeline.Pipeline {
	p := pipeline.Pipeline{
		pipeline.Match(bson.D{
			{Key: "likedBy", Value: callerID},
			{Key: "video", Value: bson.D{{Key: "$exists", Value: true}}},
		}),
		pipeline.Sort("createdAt", false),
		pipeline.Join(CollectionVideos, "video", "_id", "videoDoc"),
		pipeline.Unwind("$videoDoc"),
		pipeline.ReplaceRoot("$videoDoc"),
		pipeline.Match(authz.VisibilityFilter(callerID)),
		pipeline.Join(CollectionUsers, "owner", "_id", "ownerInfo"),
		pipeline.Join(CollectionLikes, "_id", "video", "likes"),
		pipeline.Derive(bson.D{
			{Key: "ownerInfo", Value: pipeline.FirstOf("$ownerInfo")},
			{Key: "likeCount", Value: pipeline.SizeOf("$likes")},
			{Key: "isLiked", Value: true},
		}),
		pipeline.Project(bson.D{
			{Key: "likes", Value: 0},
			{Key: "ownerInfo.password", Value: 0},
			{Key: "ownerInfo.email", Value: 0},
			{Key: "ownerInfo.createdAt", Value: 0},
			{Key: "ownerInfo.updatedAt", Value: 0},
		}),
	}
	return append(p, page.Stages()...)
}

// toggleCriteria rebuilds the identity pair a like's unique index is keyed
// on, ignoring the generated id and timestamp.
func toggleCriteria(like models.Like) bson.D {
	criteria := bson.D{{Key: "likedBy", Value: like.LikedBy}}
	switch {
	case like.Video != "":
		criteria = append(criteria, bson.E{Key: "video", Value: like.Video})
	case like.Comment != "":
		criteria = append(criteria, bson.E{Key: "comment", Value: like.Comment})
	case like.Tweet != "":
		criteria = append(criteria, bson.E{Key: "tweet", Value: like.Tweet})
	}
	return criteria
}
