package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/apierror"
	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/pipeline"
)

// SubscriptionHandler provides the channel subscription endpoints.
type SubscriptionHandler struct {
	Subscriptions SubscriptionStore
	Users         UserStore
	NowFunc       func() time.Time
}

// Toggle handles POST /api/v1/subscriptions/c/{channelId}.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

	channelID := r.PathValue("channelId")
	if channelID == "" {
		respondError(ctx, w, apierror.Validation("channel id is required"))
		return
	}
	if channelID == callerID {
		respondError(ctx, w, apierror.Validation("cannot subscribe to your own channel"))
		return
	}

	if _, err := h.Users.FindByID(ctx, channelID); err != nil {
		respondError(ctx, w, notFoundOr(err, "channel not found"))
		return
	}

	sub := models.Subscription{
		ID:         uuid.NewString(),
		Subscriber: callerID,
		Channel:    channelID,
		CreatedAt:  h.now(),
	}

	created, err := h.Subscriptions.Toggle(ctx, sub)
	if err != nil {
		respondError(ctx, w, apierror.System("unable to toggle the subscription at the moment", err))
		return
	}

	if created {
		respondData(ctx, w, http.StatusOK, sub, "channel subscribed successfully")
		return
	}
	respondData(ctx, w, http.StatusOK, struct{}{}, "channel unsubscribed successfully")
}

// ListSubscribers handles GET /api/v1/subscriptions/c/{channelId}. A
// missing channel is a not-found failure; a channel without subscribers
// is an empty success.
func (h SubscriptionHandler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channelID := r.PathValue("channelId")
	if channelID == "" {
		respondError(ctx, w, apierror.Validation("channel id is required"))
		return
	}

	if _, err := h.Users.FindByID(ctx, channelID); err != nil {
		respondError(ctx, w, notFoundOr(err, "channel not found"))
		return
	}

	subscribers, err := h.Subscriptions.ListSubscribers(ctx, channelID, pipeline.ParsePage(r.URL.Query()))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if len(subscribers) == 0 {
		respondData(ctx, w, http.StatusOK, []models.PublicUser{}, "no subscribers")
		return
	}
	respondData(ctx, w, http.StatusOK, subscribers, "subscribers fetched successfully")
}

// ListSubscribedChannels handles GET /api/v1/subscriptions/u, listing the
// channels the caller subscribes to.
func (h SubscriptionHandler) ListSubscribedChannels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

	channels, err := h.Subscriptions.ListSubscribedChannels(ctx, callerID, pipeline.ParsePage(r.URL.Query()))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if len(channels) == 0 {
		respondData(ctx, w, http.StatusOK, []models.PublicUser{}, "no subscribed channels")
		return
	}
	respondData(ctx, w, http.StatusOK, channels, "subscribed channels fetched successfully")
}

func (h SubscriptionHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
