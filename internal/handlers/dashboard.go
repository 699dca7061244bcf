package handlers

import (
	"net/http"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pipeline"
	"github.com/vidtube/backend/internal/repositories"
)

// DashboardHandler provides the channel owner dashboard endpoints.
type DashboardHandler struct {
	Videos VideoStore
}

// Stats handles GET /api/v1/dashboard/stats, returning the aggregate
// counters for the caller's channel.
func (h DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

	stats, err := h.Videos.ChannelStats(ctx, callerID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, stats, "channel stats fetched successfully")
}

// ListVideos handles GET /api/v1/dashboard/videos, listing every video
// the caller has uploaded, published or not.
func (h DashboardHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)
	query := r.URL.Query()

	opts := repositories.VideoListOptions{
		CallerID: callerID,
		OwnerID:  callerID,
		Sort:     pipeline.ParseSort(query),
		Page:     pipeline.ParsePage(query),
	}

	videos, err := h.Videos.List(ctx, opts)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if len(videos) == 0 {
		respondData(ctx, w, http.StatusOK, []models.VideoDetails{}, "no videos found")
		return
	}
	respondData(ctx, w, http.StatusOK, videos, "channel videos fetched successfully")
}
