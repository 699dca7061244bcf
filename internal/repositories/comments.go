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

// MongoCommentRepository provides MongoDB-backed persistence for comments.
type MongoCommentRepository struct {
	comments *mongo.Collection
}

// NewMongoCommentRepository constructs a comment repository backed by MongoDB.
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{comments: db.Collection(CollectionComments)}
}

// Create persists a new comment record.
func (r *MongoCommentRepository) Create(ctx context.Context, comment models.Comment) error {
	if _, err := r.comments.InsertOne(ctx, comment); err != nil {
		return mapWriteErr(err, "insert comment")
	}
	return nil
}

// FindByID fetches a comment by its identifier.
func (r *MongoCommentRepository) FindByID(ctx context.Context, id string) (models.Comment, error) {
	return findByID[models.Comment](ctx, r.comments, id)
}

// UpdateContent replaces a comment's content and returns the updated document.
func (r *MongoCommentRepository) UpdateContent(ctx context.Context, id, content string, updatedAt time.Time) (models.Comment, error) {
	var comment models.Comment
	err := r.comments.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "content", Value: content},
			{Key: "updatedAt", Value: updatedAt},
		}}},
		returnUpdated(),
	).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Comment{}, ErrNotFound
		}
		return models.Comment{}, fmt.Errorf("update comment: %w", err)
	}
	return comment, nil
}

// Delete removes a comment record.
func (r *MongoCommentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.comments.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByVideo returns a page of a video's comments, newest first, each
// joined with its author profile and the caller's like state.
func (r *MongoCommentRepository) ListByVideo(ctx context.Context, videoID, callerID string, page pipeline.Page) ([]models.CommentDetails, error) {
	p := pipeline.Pipeline{
		pipeline.MatchField("video", videoID),
		pipeline.Join(CollectionUsers, "owner", "_id", "ownerInfo"),
		pipeline.Join(CollectionLikes, "_id", "comment", "likes"),
		pipeline.Derive(bson.D{
			{Key: "ownerInfo", Value: pipeline.FirstOf("$ownerInfo")},
			{Key: "likeCount", Value: pipeline.SizeOf("$likes")},
			{Key: "isLiked", Value: pipeline.MemberOf(callerID, "$likes.likedBy")},
		}),
		pipeline.Project(bson.D{
			{Key: "likes", Value: 0},
			{Key: "ownerInfo.password", Value: 0},
			{Key: "ownerInfo.email", Value: 0},
			{Key: "ownerInfo.createdAt", Value: 0},
			{Key: "ownerInfo.updatedAt", Value: 0},
		}),
		pipeline.Sort("createdAt", false),
	}
	p = append(p, page.Stages()...)

	return aggregate[models.CommentDetails](ctx, r.comments, p)
}
