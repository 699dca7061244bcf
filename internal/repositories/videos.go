package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vidtube/backend/internal/authz"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pipeline"
)

// VideoListOptions scopes a paginated video listing. CallerID always
// participates in the visibility clause; OwnerID and Query are optional.
type VideoListOptions struct {
	CallerID string
	OwnerID  string
	Query    string
	Sort     pipeline.SortOrder
	Page     pipeline.Page
}

// MongoVideoRepository provides MongoDB-backed persistence for videos.
type MongoVideoRepository struct {
	db     *mongo.Database
	videos *mongo.Collection
}

// NewMongoVideoRepository constructs a video repository backed by MongoDB.
func NewMongoVideoRepository(db *mongo.Database) *MongoVideoRepository {
	return &MongoVideoRepository{db: db, videos: db.Collection(CollectionVideos)}
}

// Create persists a new video record.
func (r *MongoVideoRepository) Create(ctx context.Context, video models.Video) error {
	if _, err := r.videos.InsertOne(ctx, video); err != nil {
		return mapWriteErr(err, "insert video")
	}
	return nil
}

// FindByID fetches a video regardless of its publish state. Callers apply
// the visibility guard before exposing the result.
func (r *MongoVideoRepository) FindByID(ctx context.Context, id string) (models.Video, error) {
	return findByID[models.Video](ctx, r.videos, id)
}

// UpdateDetails sets the provided title and/or description, leaving empty
// fields untouched, and returns the updated document.
func (r *MongoVideoRepository) UpdateDetails(ctx context.Context, id, title, description string, updatedAt time.Time) (models.Video, error) {
	set := bson.D{{Key: "updatedAt", Value: updatedAt}}
	if title != "" {
		set = append(set, bson.E{Key: "title", Value: title})
	}
	if description != "" {
		set = append(set, bson.E{Key: "description", Value: description})
	}

	var video models.Video
	err := r.videos.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		returnUpdated(),
	).Decode(&video)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("update video: %w", err)
	}
	return video, nil
}

// SetPublished flips the publish flag and returns the updated document.
func (r *MongoVideoRepository) SetPublished(ctx context.Context, id string, published bool, updatedAt time.Time) (models.Video, error) {
	var video models.Video
	err := r.videos.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "isPublished", Value: published},
			{Key: "updatedAt", Value: updatedAt},
		}}},
		returnUpdated(),
	).Decode(&video)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("toggle video publish: %w", err)
	}
	return video, nil
}

// Delete removes a video record.
func (r *MongoVideoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.videos.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViews bumps the view counter by one.
func (r *MongoVideoRepository) IncrementViews(ctx context.Context, id string) error {
	res, err := r.videos.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "views", Value: 1}}}},
	)
	if err != nil {
		return fmt.Errorf("increment video views: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns a page of videos joined with their owner profile and like
// state, restricted to what the caller may see.
func (r *MongoVideoRepository) List(ctx context.Context, opts VideoListOptions) ([]models.VideoDetails, error) {
	filter := bson.D{}
	// The scoping, search, and visibility conditions fold into a single
	// first-stage match so the $text clause stays legal.
	if opts.Query != "" {
		filter = append(filter, pipeline.TextSearch(opts.Query))
	}
	if opts.OwnerID != "" {
		filter = append(filter, bson.E{Key: "owner", Value: opts.OwnerID})
	}
	filter = append(filter, authz.VisibilityFilter(opts.CallerID)...)

	p := pipeline.Pipeline{
		pipeline.Match(filter),
		pipeline.Join(CollectionUsers, "owner", "_id", "ownerInfo"),
		pipeline.Join(CollectionLikes, "_id", "video", "likes"),
		pipeline.Derive(bson.D{
			{Key: "ownerInfo", Value: pipeline.FirstOf("$ownerInfo")},
			{Key: "likeCount", Value: pipeline.SizeOf("$likes")},
			{Key: "isLiked", Value: pipeline.MemberOf(opts.CallerID, "$likes.likedBy")},
		}),
		projectVideoDetails(),
		opts.Sort.Stage(),
	}
	p = append(p, opts.Page.Stages()...)

	return aggregate[models.VideoDetails](ctx, r.videos, p)
}

// ChannelStats aggregates dashboard counters for the channel's videos. A
// channel with no videos still reports its subscriber count.
func (r *MongoVideoRepository) ChannelStats(ctx context.Context, ownerID string) (models.ChannelStats, error) {
	p := pipeline.Pipeline{
		pipeline.MatchField("owner", ownerID),
		pipeline.Join(CollectionLikes, "_id", "video", "likes"),
		pipeline.Join(CollectionSubscriptions, "owner", "channel", "subscribers"),
		pipeline.Group(nil, bson.D{
			{Key: "totalVideos", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "totalViews", Value: bson.D{{Key: "$sum", Value: "$views"}}},
			{Key: "totalSubscribers", Value: bson.D{{Key: "$first", Value: pipeline.SizeOf("$subscribers")}}},
			{Key: "totalLikes", Value: bson.D{{Key: "$sum", Value: pipeline.SizeOf("$likes")}}},
		}),
		pipeline.Project(bson.D{{Key: "_id", Value: 0}}),
	}

	stats, err := aggregate[models.ChannelStats](ctx, r.videos, p)
	if err != nil {
		return models.ChannelStats{}, err
	}
	if len(stats) > 0 {
		return stats[0], nil
	}

	subscribers, err := r.db.Collection(CollectionSubscriptions).CountDocuments(ctx, bson.D{{Key: "channel", Value: ownerID}})
	if err != nil {
		return models.ChannelStats{}, fmt.Errorf("count subscribers: %w", err)
	}
	return models.ChannelStats{TotalSubscribers: subscribers}, nil
}

// projectVideoDetails drops the raw likes join and the private owner
// fields from a video details pipeline.
func projectVideoDetails() pipeline.Stage {
	return pipeline.Project(bson.D{
		{Key: "likes", Value: 0},
		{Key: "ownerInfo.password", Value: 0},
		{Key: "ownerInfo.email", Value: 0},
		{Key: "ownerInfo.createdAt", Value: 0},
		{Key: "ownerInfo.updatedAt", Value: 0},
	})
}
