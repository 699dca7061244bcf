package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/apierror"
	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/authz"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pipeline"
)

// LikeHandler provides the like toggle endpoints. A like either exists or
// it does not; toggling flips between those states.
type LikeHandler struct {
	Likes    LikeStore
	Videos   VideoStore
	Comments CommentStore
	Tweets   TweetStore
	NowFunc  func() time.Time
}

// ToggleVideo handles POST /api/v1/likes/toggle/v/{videoId}.
func (h LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
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

	h.toggle(w, r, models.Like{
		ID:        uuid.NewString(),
		LikedBy:   callerID,
		Video:     videoID,
		CreatedAt: h.now(),
	}, "video liked successfully", "video disliked")
}

// ToggleComment handles POST /api/v1/likes/toggle/c/{commentId}.
func (h LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

	commentID := r.PathValue("commentId")
	if commentID == "" {
		respondError(ctx, w, apierror.Validation("comment id is required"))
		return
	}

	if _, err := h.Comments.FindByID(ctx, commentID); err != nil {
		respondError(ctx, w, notFoundOr(err, "comment not found"))
		return
	}

	h.toggle(w, r, models.Like{
		ID:        uuid.NewString(),
		LikedBy:   callerID,
		Comment:   commentID,
		CreatedAt: h.now(),
	}, "comment liked successfully", "comment disliked")
}

// ToggleTweet handles POST /api/v1/likes/toggle/t/{tweetId}.
func (h LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

	tweetID := r.PathValue("tweetId")
	if tweetID == "" {
		respondError(ctx, w, apierror.Validation("tweet id is required"))
		return
	}

	if _, err := h.Tweets.FindByID(ctx, tweetID); err != nil {
		respondError(ctx, w, notFoundOr(err, "tweet not found"))
		return
	}

	h.toggle(w, r, models.Like{
		ID:        uuid.NewString(),
		LikedBy:   callerID,
		Tweet:     tweetID,
		CreatedAt: h.now(),
	}, "tweet liked successfully", "tweet disliked")
}

// ListLikedVideos handles GET /api/v1/likes/videos.
func (h LikeHandler) ListLikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

	videos, err := h.Likes.ListLikedVideos(ctx, callerID, pipeline.ParsePage(r.URL.Query()))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if len(videos) == 0 {
		respondData(ctx, w, http.StatusOK, []models.VideoDetails{}, "no liked videos found")
		return
	}
	respondData(ctx, w, http.StatusOK, videos, "liked videos fetched successfully")
}

func (h LikeHandler) toggle(w http.ResponseWriter, r *http.Request, like models.Like, likedMsg, unlikedMsg string) {
	ctx := r.Context()

	created, err := h.Likes.Toggle(ctx, like)
	if err != nil {
		respondError(ctx, w, apierror.System("unable to toggle the like at the moment", err))
		return
	}

	if created {
		respondData(ctx, w, http.StatusOK, like, likedMsg)
		return
	}
	respondData(ctx, w, http.StatusOK, struct{}{}, unlikedMsg)
}

func (h LikeHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
