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

// TweetHandler provides endpoints for channel tweets.
type TweetHandler struct {
	Tweets  TweetStore
	Users   UserStore
	NowFunc func() time.Time
}

// Create handles POST /api/v1/tweets.
func (h TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

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

	now := h.now()
	tweet := models.Tweet{
		ID:        uuid.NewString(),
		Owner:     callerID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Tweets.Create(ctx, tweet); err != nil {
		respondError(ctx, w, apierror.OperationFailed("error while creating the tweet"))
		return
	}

	respondData(ctx, w, http.StatusOK, tweet, "tweet created successfully")
}

// ListByUser handles GET /api/v1/tweets/user/{userId}.
func (h TweetHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.PathValue("userId")
	if userID == "" {
		respondError(ctx, w, apierror.Validation("user id is required"))
		return
	}

	if _, err := h.Users.FindByID(ctx, userID); err != nil {
		respondError(ctx, w, notFoundOr(err, "user not found"))
		return
	}

	tweets, err := h.Tweets.ListByOwner(ctx, userID, pipeline.ParsePage(r.URL.Query()))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if len(tweets) == 0 {
		respondData(ctx, w, http.StatusOK, []models.Tweet{}, "no tweets found")
		return
	}
	respondData(ctx, w, http.StatusOK, tweets, "tweets fetched successfully")
}

// Update handles PATCH /api/v1/tweets/{tweetId}. Updating to the
// identical content is a no-op that leaves updatedAt untouched.
func (h TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

	tweetID := r.PathValue("tweetId")
	if tweetID == "" {
		respondError(ctx, w, apierror.Validation("tweet id is required"))
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

	tweet, err := h.Tweets.FindByID(ctx, tweetID)
	if err != nil {
		respondError(ctx, w, notFoundOr(err, "tweet not found"))
		return
	}
	if !authz.CanMutate(tweet.Owner, callerID) {
		respondError(ctx, w, apierror.Authorization("unauthorized request"))
		return
	}

	if tweet.Content == content {
		respondData(ctx, w, http.StatusOK, tweet, "no changes detected")
		return
	}

	updated, err := h.Tweets.UpdateContent(ctx, tweetID, content, h.now())
	if err != nil {
		respondError(ctx, w, notFoundOr(err, "tweet not found"))
		return
	}

	respondData(ctx, w, http.StatusOK, updated, "tweet updated successfully")
}

// Delete handles DELETE /api/v1/tweets/{tweetId}.
func (h TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

	tweetID := r.PathValue("tweetId")
	if tweetID == "" {
		respondError(ctx, w, apierror.Validation("tweet id is required"))
		return
	}

	tweet, err := h.Tweets.FindByID(ctx, tweetID)
	if err != nil {
		respondError(ctx, w, notFoundOr(err, "tweet not found"))
		return
	}
	if !authz.CanMutate(tweet.Owner, callerID) {
		respondError(ctx, w, apierror.Authorization("unauthorized request"))
		return
	}

	if err := h.Tweets.Delete(ctx, tweetID); err != nil {
		respondError(ctx, w, notFoundOr(err, "tweet not found"))
		return
	}

	respondData(ctx, w, http.StatusOK, struct{}{}, "tweet deleted successfully")
}

func (h TweetHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
