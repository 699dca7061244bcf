package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/apierror"
	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/authz"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pipeline"
)

// CommentHandler provides endpoints for commenting on videos.
type CommentHandler struct {
	Comments CommentStore
	Videos   VideoStore
	NowFunc  func() time.Time
}

// ListByVideo handles GET /api/v1/comments/{videoId}.
func (h CommentHandler) ListByVideo(w http.ResponseWriter, r *http.Request) {
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

	comments, err := h.Comments.ListByVideo(ctx, videoID, callerID, pipeline.ParsePage(r.URL.Query()))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if len(comments) == 0 {
		respondData(ctx, w, http.StatusOK, []models.CommentDetails{}, "no comments found")
		return
	}
	respondData(ctx, w, http.StatusOK, comments, "comments fetched successfully")
}

// Create handles POST /api/v1/comments/{videoId}.
func (h CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

	videoID := r.PathValue("videoId")
	if videoID == "" {
		respondError(ctx, w, apierror.Validation("video id is required"))
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, apierror.Validation("content is required"))
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

	now := h.now()
	comment := models.Comment{
		ID:        uuid.NewString(),
		Video:     videoID,
		Owner:     callerID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Comments.Create(ctx, comment); err != nil {
		respondError(ctx, w, apierror.OperationFailed("error while creating the comment"))
		return
	}

	respondData(ctx, w, http.StatusOK, comment, "comment created successfully")
}

// Update handles PATCH /api/v1/comments/{commentId}. Updating to the
// identical content is a no-op that leaves updatedAt untouched.
func (h CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

	commentID := r.PathValue("commentId")
	if commentID == "" {
		respondError(ctx, w, apierror.Validation("comment id is required"))
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, apierror.Validation("content is required"))
		return
	}

	comment, err := h.Comments.FindByID(ctx, commentID)
	if err != nil {
		respondError(ctx, w, notFoundOr(err, "comment not found"))
		return
	}
	if !authz.CanMutate(comment.Owner, callerID) {
		respondError(ctx, w, apierror.Authorization("unauthorized request"))
		return
	}

	if comment.Content == content {
		respondData(ctx, w, http.StatusOK, comment, "no changes detected")
		return
	}

	updated, err := h.Comments.UpdateContent(ctx, commentID, content, h.now())
	if err != nil {
		respondError(ctx, w, notFoundOr(err, "comment not found"))
		return
	}

	respondData(ctx, w, http.StatusOK, updated, "comment updated successfully")
}

// Delete handles DELETE /api/v1/comments/{commentId}.
func (h CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

	commentID := r.PathValue("commentId")
	if commentID == "" {
		respondError(ctx, w, apierror.Validation("comment id is required"))
		return
	}

	comment, err := h.Comments.FindByID(ctx, commentID)
	if err != nil {
		respondError(ctx, w, notFoundOr(err, "comment not found"))
		return
	}
	if !authz.CanMutate(comment.Owner, callerID) {
		respondError(ctx, w, apierror.Authorization("unauthorized request"))
		return
	}

	if err := h.Comments.Delete(ctx, commentID); err != nil {
		respondError(ctx, w, notFoundOr(err, "comment not found"))
		return
	}

	respondData(ctx, w, http.StatusOK, struct{}{}, "comment deleted successfully")
}

func (h CommentHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
