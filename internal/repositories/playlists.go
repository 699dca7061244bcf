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

// MongoPlaylistRepository provides MongoDB-backed persistence for playlists.
type MongoPlaylistRepository struct {
	playlists *mongo.Collection
}

// NewMongoPlaylistRepository constructs a playlist repository backed by MongoDB.
func NewMongoPlaylistRepository(db *mongo.Database) *MongoPlaylistRepository {
	return &MongoPlaylistRepository{playlists: db.Collection(CollectionPlaylists)}
}

// Create persists a new playlist record.
func (r *MongoPlaylistRepository) Create(ctx context.Context, playlist models.Playlist) error {
	if _, err := r.playlists.InsertOne(ctx, playlist); err != nil {
		return mapWriteErr(err, "insert playlist")
	}
	return nil
}

// FindByID fetches a playlist by its identifier.
func (r *MongoPlaylistRepository) FindByID(ctx context.Context, id string) (models.Playlist, error) {
	return findByID[models.Playlist](ctx, r.playlists, id)
}

// UpdateDetails sets the provided name and/or description, leaving empty
// fields untouched, and returns the updated document.
func (r *MongoPlaylistRepository) UpdateDetails(ctx context.Context, id, name, description string, updatedAt time.Time) (models.Playlist, error) {
	set := bson.D{{Key: "updatedAt", Value: updatedAt}}
	if name != "" {
		set = append(set, bson.E{Key: "name", Value: name})
	}
	if description != "" {
		set = append(set, bson.E{Key: "description", Value: description})
	}

	var playlist models.Playlist
	err := r.playlists.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		returnUpdated(),
	).Decode(&playlist)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Playlist{}, ErrNotFound
		}
		return models.Playlist{}, fmt.Errorf("update playlist: %w", err)
	}
	return playlist, nil
}

// Delete removes a playlist record.
func (r *MongoPlaylistRepository) Delete(ctx context.Context, id string) error {
	res, err := r.playlists.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddVideo appends the video reference with set semantics; adding a video
// twice keeps a single copy. The caller decides whether the video is new
// to the playlist, so a no-op add never reaches this write and updatedAt
// only moves on a real change.
func (r *MongoPlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID string, updatedAt time.Time) error {
	res, err := r.playlists.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: playlistID}},
		bson.D{
			{Key: "$addToSet", Value: bson.D{{Key: "videos", Value: videoID}}},
			{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: updatedAt}}},
		},
	)
	if err != nil {
		return fmt.Errorf("add video to playlist: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveVideo pulls the video reference.
func (r *MongoPlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID string, updatedAt time.Time) error {
	res, err := r.playlists.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: playlistID}},
		bson.D{
			{Key: "$pull", Value: bson.D{{Key: "videos", Value: videoID}}},
			{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: updatedAt}}},
		},
	)
	if err != nil {
		return fmt.Errorf("remove video from playlist: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetDetails resolves a playlist's video references to the full documents,
// keeping only videos the caller may see.
func (r *MongoPlaylistRepository) GetDetails(ctx context.Context, playlistID, callerID string) (models.PlaylistDetails, error) {
	p := playlistDetailsPipeline(pipeline.MatchField("_id", playlistID), callerID)

	details, err := aggregate[models.PlaylistDetails](ctx, r.playlists, p)
	if err != nil {
		return models.PlaylistDetails{}, err
	}
	if len(details) == 0 {
		return models.PlaylistDetails{}, ErrNotFound
	}
	return details[0], nil
}

// ListByOwner returns a page of a user's playlists with resolved, visible
// videos, newest first.
func (r *MongoPlaylistRepository) ListByOwner(ctx context.Context, ownerID, callerID string, page pipeline.Page) ([]models.PlaylistDetails, error) {
	p := playlistDetailsPipeline(pipeline.MatchField("owner", ownerID), callerID)
	p = append(p, pipeline.Sort("createdAt", false))
	p = append(p, page.Stages()...)

	return aggregate[models.PlaylistDetails](ctx, r.playlists, p)
}

// playlistDetailsPipeline joins the videos collection and filters the
// joined array down to what the caller may see. The join result is
// filtered, not matched, so hidden videos disappear from the response
// without hiding the playlist itself.
func playlistDetailsPipeline(scope pipeline.Stage, callerID string) pipeline.Pipeline {
	return pipeline.Pipeline{
		scope,
		pipeline.Join(CollectionVideos, "videos", "_id", "videoDetails"),
		pipeline.Derive(bson.D{
			{Key: "videoDetails", Value: pipeline.FilterArray(
				"$videoDetails", "video", authz.VisibilityExpr("$$video", callerID),
			)},
		}),
	}
}
