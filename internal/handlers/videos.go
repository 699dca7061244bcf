package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/apierror"
	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/authz"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/media"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pipeline"
	"github.com/vidtube/backend/internal/repositories"
)

const maxUploadMemory = 64 << 20

// VideoHandler provides endpoints for publishing and fetching videos.
type VideoHandler struct {
	Videos  VideoStore
	Media   media.Storage
	Prober  media.DurationProber
	NowFunc func() time.Time
}

// List handles GET /api/v1/videos.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	opts := repositories.VideoListOptions{
		CallerID: auth.CallerID(ctx),
		OwnerID:  strings.TrimSpace(query.Get("userId")),
		Query:    strings.TrimSpace(query.Get("query")),
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
	respondData(ctx, w, http.StatusOK, videos, "videos fetched successfully")
}

// Create handles POST /api/v1/videos. The request is multipart: a video
// file, a thumbnail, and the title/description fields.
func (h VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(ctx, w, apierror.Validation("a multipart form with videoFile and thumbnail is required"))
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	if title == "" || description == "" {
		respondError(ctx, w, apierror.Validation("both title and description are required"))
		return
	}

	videoFile, ok := formFile(r, "videoFile")
	if !ok {
		respondError(ctx, w, apierror.Validation("video file is missing"))
		return
	}
	thumbnail, ok := formFile(r, "thumbnail")
	if !ok {
		respondError(ctx, w, apierror.Validation("thumbnail is missing"))
		return
	}

	videoURL, duration, err := h.storeVideoFile(ctx, videoFile)
	if err != nil {
		respondError(ctx, w, apierror.System("error while uploading the video file", err))
		return
	}

	thumbnailURL, err := h.storeFile(ctx, thumbnail, "thumbnails")
	if err != nil {
		respondError(ctx, w, apierror.System("error while uploading the thumbnail", err))
		return
	}

	now := h.now()
	video := models.Video{
		ID:          uuid.NewString(),
		Owner:       callerID,
		VideoFile:   videoURL,
		Thumbnail:   thumbnailURL,
		Title:       title,
		Description: description,
		Duration:    duration,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		respondError(ctx, w, apierror.OperationFailed("error while publishing the video"))
		return
	}

	respondData(ctx, w, http.StatusOK, video, "video published successfully")
}

// Get handles GET /api/v1/videos/{videoId}. A successful fetch counts as
// a view.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

	videoID := r.PathValue("videoId")
	if videoID == "" {
		respondError(ctx, w, apierror.Validation("video id is required"))
		return
	}

	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		respondError(ctx, w, notFoundOr(err, "video not found"))
		return
	}
	if !authz.IsVisible(video, callerID) {
		respondError(ctx, w, apierror.NotFound("video not found"))
		return
	}

	if err := h.Videos.IncrementViews(ctx, videoID); err != nil {
		logging.FromContext(ctx).Warn("increment views failed", "videoId", videoID, "error", err)
	} else {
		video.Views++
	}

	respondData(ctx, w, http.StatusOK, video, "video fetched successfully")
}

// Update handles PATCH /api/v1/videos/{videoId}.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

	videoID := r.PathValue("videoId")
	if videoID == "" {
		respondError(ctx, w, apierror.Validation("video id is required"))
		return
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" && description == "" {
		respondError(ctx, w, apierror.Validation("one of title or description is required"))
		return
	}

	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		respondError(ctx, w, notFoundOr(err, "video not found"))
		return
	}
	if !authz.CanMutate(video.Owner, callerID) {
		respondError(ctx, w, apierror.Authorization("unauthorized request"))
		return
	}

	if (title == "" || title == video.Title) && (description == "" || description == video.Description) {
		respondData(ctx, w, http.StatusOK, video, "no changes detected")
		return
	}

	updated, err := h.Videos.UpdateDetails(ctx, videoID, title, description, h.now())
	if err != nil {
		respondError(ctx, w, notFoundOr(err, "video not found"))
		return
	}

	respondData(ctx, w, http.StatusOK, updated, "video updated successfully")
}

// Delete handles DELETE /api/v1/videos/{videoId}.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

	videoID := r.PathValue("videoId")
	if videoID == "" {
		respondError(ctx, w, apierror.Validation("video id is required"))
		return
	}

	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		respondError(ctx, w, notFoundOr(err, "video not found"))
		return
	}
	if !authz.CanMutate(video.Owner, callerID) {
		respondError(ctx, w, apierror.Authorization("unauthorized request"))
		return
	}

	if err := h.Videos.Delete(ctx, videoID); err != nil {
		respondError(ctx, w, notFoundOr(err, "video not found"))
		return
	}

	respondData(ctx, w, http.StatusOK, struct{}{}, "video deleted successfully")
}

// TogglePublish handles PATCH /api/v1/videos/toggle/{videoId}.
func (h VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

	videoID := r.PathValue("videoId")
	if videoID == "" {
		respondError(ctx, w, apierror.Validation("video id is required"))
		return
	}

	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		respondError(ctx, w, notFoundOr(err, "video not found"))
		return
	}
	if !authz.CanMutate(video.Owner, callerID) {
		respondError(ctx, w, apierror.Authorization("unauthorized request"))
		return
	}

	updated, err := h.Videos.SetPublished(ctx, videoID, !video.IsPublished, h.now())
	if err != nil {
		respondError(ctx, w, notFoundOr(err, "video not found"))
		return
	}

	respondData(ctx, w, http.StatusOK, updated, "video publish status toggled")
}

// storeVideoFile stages the upload locally to probe its duration, then
// pushes it to the object store.
func (h VideoHandler) storeVideoFile(ctx context.Context, fh *multipart.FileHeader) (string, float64, error) {
	ctx, span := logging.StartSpan(ctx, "store video file")
	defer span.End()

	tmpPath, cleanup, err := stageUpload(fh)
	if err != nil {
		return "", 0, err
	}
	defer cleanup()

	var duration float64
	if h.Prober != nil {
		duration, err = h.Prober.Duration(ctx, tmpPath)
		if err != nil {
			logging.FromContext(ctx).Warn("duration probe failed", "file", fh.Filename, "error", err)
			duration = 0
		}
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return "", 0, fmt.Errorf("open staged upload: %w", err)
	}
	defer f.Close()

	url, err := h.Media.Save(ctx, objectKey("videos", fh.Filename), f)
	if err != nil {
		return "", 0, err
	}
	return url, duration, nil
}

func (h VideoHandler) storeFile(ctx context.Context, fh *multipart.FileHeader, prefix string) (string, error) {
	ctx, span := logging.StartSpan(ctx, "store "+prefix)
	defer span.End()

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	return h.Media.Save(ctx, objectKey(prefix, fh.Filename), f)
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

func formFile(r *http.Request, field string) (*multipart.FileHeader, bool) {
	if r.MultipartForm == nil {
		return nil, false
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil, false
	}
	return files[0], true
}

func objectKey(prefix, filename string) string {
	return fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), filepath.Ext(filename))
}

// stageUpload copies a multipart file to a temp path so it can be read
// more than once. The returned cleanup removes the staged copy.
func stageUpload(fh *multipart.FileHeader) (string, func(), error) {
	src, err := fh.Open()
	if err != nil {
		return "", nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "vidtube-upload-*")
	if err != nil {
		return "", nil, fmt.Errorf("stage upload: %w", err)
	}

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("stage upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("stage upload: %w", err)
	}

	path := tmp.Name()
	return path, func() { os.Remove(path) }, nil
}

// notFoundOr maps the repository's missing-record sentinel to a NotFound
// API error, passing other errors through for system classification.
func notFoundOr(err error, message string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apierror.NotFound(message)
	}
	return err
}
