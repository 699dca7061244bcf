package app

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/handlers"
	"github.com/vidtube/backend/internal/media"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/repositories"
	"github.com/vidtube/backend/internal/storage"
)

// buildDependencies wires together concrete implementations used by the
// HTTP handlers.
func buildDependencies(ctx context.Context, database *mongo.Database, cfg config.Config) (handlers.Dependencies, auth.TokenVerifier, error) {
	mediaStore, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
	if err != nil {
		return handlers.Dependencies{}, nil, err
	}

	sessionStore := repositories.NewMongoSessionStore(database)
	sessions := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL, sessionStore)

	deps := handlers.Dependencies{
		Users:         repositories.NewMongoUserRepository(database),
		Sessions:      sessions,
		Videos:        repositories.NewMongoVideoRepository(database),
		Comments:      repositories.NewMongoCommentRepository(database),
		Tweets:        repositories.NewMongoTweetRepository(database),
		Likes:         repositories.NewMongoLikeRepository(database),
		Subscriptions: repositories.NewMongoSubscriptionRepository(database),
		Playlists:     repositories.NewMongoPlaylistRepository(database),
		Media:         mediaStore,
		Prober:        media.NewFFProbe(cfg.FFProbePath, cfg.FFProbeTimeout),
		LoginLimiter:  middleware.NewIPRateLimiter(10, time.Minute, 5, 10*time.Minute),
	}

	return deps, sessions, nil
}
