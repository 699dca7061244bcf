package handlers

import (
	"context"
	"time"

	"github.com/vidtube/backend/internal/media"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pipeline"
	"github.com/vidtube/backend/internal/repositories"
)

// UserStore captures the persistence operations required by the user handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// SessionManager issues, refreshes, and revokes authentication tokens.
type SessionManager interface {
	Issue(ctx context.Context, userID string) (models.SessionTokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Revoke(ctx context.Context, refreshToken string) error
}

// VideoStore captures persistence for video publishing and listing.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	UpdateDetails(ctx context.Context, id, title, description string, updatedAt time.Time) (models.Video, error)
	SetPublished(ctx context.Context, id string, published bool, updatedAt time.Time) (models.Video, error)
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	List(ctx context.Context, opts repositories.VideoListOptions) ([]models.VideoDetails, error)
	ChannelStats(ctx context.Context, ownerID string) (models.ChannelStats, error)
}

// CommentStore captures persistence for video comments.
type CommentStore interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	UpdateContent(ctx context.Context, id, content string, updatedAt time.Time) (models.Comment, error)
	Delete(ctx context.Context, id string) error
	ListByVideo(ctx context.Context, videoID, callerID string, page pipeline.Page) ([]models.CommentDetails, error)
}

// TweetStore captures persistence for channel tweets.
type TweetStore interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	UpdateContent(ctx context.Context, id, content string, updatedAt time.Time) (models.Tweet, error)
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string, page pipeline.Page) ([]models.Tweet, error)
}

// LikeStore captures the toggle and listing operations for likes.
type LikeStore interface {
	Toggle(ctx context.Context, like models.Like) (created bool, err error)
	ListLikedVideos(ctx context.Context, callerID string, page pipeline.Page) ([]models.VideoDetails, error)
}

// SubscriptionStore captures the toggle and listing operations for
// channel subscriptions.
type SubscriptionStore interface {
	Toggle(ctx context.Context, sub models.Subscription) (created bool, err error)
	ListSubscribers(ctx context.Context, channelID string, page pipeline.Page) ([]models.PublicUser, error)
	ListSubscribedChannels(ctx context.Context, subscriberID string, page pipeline.Page) ([]models.PublicUser, error)
}

// PlaylistStore captures persistence for playlists.
type PlaylistStore interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	UpdateDetails(ctx context.Context, id, name, description string, updatedAt time.Time) (models.Playlist, error)
	Delete(ctx context.Context, id string) error
	AddVideo(ctx context.Context, playlistID, videoID string, updatedAt time.Time) error
	RemoveVideo(ctx context.Context, playlistID, videoID string, updatedAt time.Time) error
	GetDetails(ctx context.Context, playlistID, callerID string) (models.PlaylistDetails, error)
	ListByOwner(ctx context.Context, ownerID, callerID string, page pipeline.Page) ([]models.PlaylistDetails, error)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users         UserStore
	Sessions      SessionManager
	Videos        VideoStore
	Comments      CommentStore
	Tweets        TweetStore
	Likes         LikeStore
	Subscriptions SubscriptionStore
	Playlists     PlaylistStore
	Media         media.Storage
	Prober        media.DurationProber
	LoginLimiter  RateLimiter
}
