package handlers

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/apierror"
	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/authz"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pipeline"
)

// PlaylistHandler provides the playlist endpoints.
type PlaylistHandler struct {
	Playlists PlaylistStore
	Videos    VideoStore
	Users     UserStore
	NowFunc   func() time.Time
}

// Create handles POST /api/v1/playlists.
func (h PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(ctx, w, apierror.Validation("the name of the playlist is required"))
		return
	}

	now := h.now()
	playlist := models.Playlist{
		ID:          uuid.NewString(),
		Owner:       callerID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Videos:      []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Playlists.Create(ctx, playlist); err != nil {
		respondError(ctx, w, apierror.OperationFailed("unable to create the playlist at the moment"))
		return
	}

	respondData(ctx, w, http.StatusOK, playlist, "playlist created successfully")
}

// Get handles GET /api/v1/playlists/{playlistId}. The resolved video list
// carries only the videos the caller may see.
func (h PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

	playlistID := r.PathValue("playlistId")
	if playlistID == "" {
		respondError(ctx, w, apierror.Validation("playlist id is required"))
		return
	}

	details, err := h.Playlists.GetDetails(ctx, playlistID, callerID)
	if err != nil {
		respondError(ctx, w, notFoundOr(err, "playlist not found"))
		return
	}

	respondData(ctx, w, http.StatusOK, details, "playlist fetched successfully")
}

// ListByUser handles GET /api/v1/playlists/user/{userId}.
func (h PlaylistHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

	userID := r.PathValue("userId")
	if userID == "" {
		respondError(ctx, w, apierror.Validation("user id is required"))
		return
	}

	if _, err := h.Users.FindByID(ctx, userID); err != nil {
		respondError(ctx, w, notFoundOr(err, "user not found"))
		return
	}

	playlists, err := h.Playlists.ListByOwner(ctx, userID, callerID, pipeline.ParsePage(r.URL.Query()))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if len(playlists) == 0 {
		respondData(ctx, w, http.StatusOK, []models.PlaylistDetails{}, "no playlists found")
		return
	}
	respondData(ctx, w, http.StatusOK, playlists, "playlists fetched successfully")
}

// Update handles PATCH /api/v1/playlists/{playlistId}.
func (h PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

	playlistID := r.PathValue("playlistId")
	if playlistID == "" {
		respondError(ctx, w, apierror.Validation("playlist id is required"))
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if name == "" && description == "" {
		respondError(ctx, w, apierror.Validation("one of name or description is required"))
		return
	}

	playlist, err := h.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		respondError(ctx, w, notFoundOr(err, "playlist not found"))
		return
	}
	if !authz.CanMutate(playlist.Owner, callerID) {
		respondError(ctx, w, apierror.Authorization("unauthorized request"))
		return
	}

	if (name == "" || name == playlist.Name) && (description == "" || description == playlist.Description) {
		respondData(ctx, w, http.StatusOK, playlist, "no changes detected")
		return
	}

	updated, err := h.Playlists.UpdateDetails(ctx, playlistID, name, description, h.now())
	if err != nil {
		respondError(ctx, w, notFoundOr(err, "playlist not found"))
		return
	}

	respondData(ctx, w, http.StatusOK, updated, "playlist updated successfully")
}

// Delete handles DELETE /api/v1/playlists/{playlistId}.
func (h PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

	playlistID := r.PathValue("playlistId")
	if playlistID == "" {
		respondError(ctx, w, apierror.Validation("playlist id is required"))
		return
	}

	playlist, err := h.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		respondError(ctx, w, notFoundOr(err, "playlist not found"))
		return
	}
	if !authz.CanMutate(playlist.Owner, callerID) {
		respondError(ctx, w, apierror.Authorization("unauthorized request"))
		return
	}

	if err := h.Playlists.Delete(ctx, playlistID); err != nil {
		respondError(ctx, w, notFoundOr(err, "playlist not found"))
		return
	}

	respondData(ctx, w, http.StatusOK, struct{}{}, "playlist deleted successfully")
}

// AddVideo handles PATCH /api/v1/playlists/add/{videoId}/{playlistId}.
// Adding a video already present keeps a single copy; the loaded playlist
// decides membership, so a duplicate add skips the write entirely.
func (h PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, videoID, ok := h.resolveMutation(w, r)
	if !ok {
		return
	}

	if slices.Contains(playlist.Videos, videoID) {
		respondData(ctx, w, http.StatusOK, struct{}{}, "video already in the playlist")
		return
	}

	if err := h.Playlists.AddVideo(ctx, playlist.ID, videoID, h.now()); err != nil {
		respondError(ctx, w, notFoundOr(err, "playlist not found"))
		return
	}
	respondData(ctx, w, http.StatusOK, struct{}{}, "video added to the playlist")
}

// RemoveVideo handles PATCH /api/v1/playlists/remove/{videoId}/{playlistId}.
func (h PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, videoID, ok := h.resolveMutation(w, r)
	if !ok {
		return
	}

	if !slices.Contains(playlist.Videos, videoID) {
		respondData(ctx, w, http.StatusOK, struct{}{}, "video is not in the playlist")
		return
	}

	if err := h.Playlists.RemoveVideo(ctx, playlist.ID, videoID, h.now()); err != nil {
		respondError(ctx, w, notFoundOr(err, "playlist not found"))
		return
	}
	respondData(ctx, w, http.StatusOK, struct{}{}, "video removed from the playlist")
}

// resolveMutation validates the add/remove path parameters, loads the
// playlist, and applies the ownership and video visibility checks shared
// by both mutations.
func (h PlaylistHandler) resolveMutation(w http.ResponseWriter, r *http.Request) (models.Playlist, string, bool) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

	playlistID := r.PathValue("playlistId")
	videoID := r.PathValue("videoId")
	if playlistID == "" || videoID == "" {
		respondError(ctx, w, apierror.Validation("playlist id and video id are required"))
		return models.Playlist{}, "", false
	}

	playlist, err := h.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		respondError(ctx, w, notFoundOr(err, "playlist not found"))
		return models.Playlist{}, "", false
	}
	if !authz.CanMutate(playlist.Owner, callerID) {
		respondError(ctx, w, apierror.Authorization("unauthorized request"))
		return models.Playlist{}, "", false
	}

	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		respondError(ctx, w, notFoundOr(err, "video not found"))
		return models.Playlist{}, "", false
	}
	if !authz.IsVisible(video, callerID) {
		respondError(ctx, w, apierror.NotFound("video not found"))
		return models.Playlist{}, "", false
	}

	return playlist, videoID, true
}

func (h PlaylistHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
