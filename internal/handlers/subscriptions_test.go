package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vidtube/backend/internal/models"
)

func TestSubscriptionHandlerToggleSubscribes(t *testing.T) {
	subs := &subscriptionStoreStub{created: true}
	users := &userStoreStub{users: map[string]models.User{
		"chan-1": {ID: "chan-1", Username: "creator"},
	}}
	handler := SubscriptionHandler{Subscriptions: subs, Users: users}

	req := authedRequest(http.MethodPost, "/api/v1/subscriptions/c/chan-1", "viewer-1", nil)
	req.SetPathValue("channelId", "chan-1")
	rec := httptest.NewRecorder()

	handler.Toggle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Message != "channel subscribed successfully" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if subs.toggled.Subscriber != "viewer-1" || subs.toggled.Channel != "chan-1" {
		t.Fatalf("unexpected subscription: %+v", subs.toggled)
	}
}

func TestSubscriptionHandlerToggleUnsubscribes(t *testing.T) {
	subs := &subscriptionStoreStub{created: false}
	users := &userStoreStub{users: map[string]models.User{
		"chan-1": {ID: "chan-1"},
	}}
	handler := SubscriptionHandler{Subscriptions: subs, Users: users}

	req := authedRequest(http.MethodPost, "/api/v1/subscriptions/c/chan-1", "viewer-1", nil)
	req.SetPathValue("channelId", "chan-1")
	rec := httptest.NewRecorder()

	handler.Toggle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Message != "channel unsubscribed successfully" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestSubscriptionHandlerToggleOwnChannel(t *testing.T) {
	handler := SubscriptionHandler{Subscriptions: &subscriptionStoreStub{}, Users: &userStoreStub{}}

	req := authedRequest(http.MethodPost, "/api/v1/subscriptions/c/viewer-1", "viewer-1", nil)
	req.SetPathValue("channelId", "viewer-1")
	rec := httptest.NewRecorder()

	handler.Toggle(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestSubscriptionHandlerToggleMissingChannel(t *testing.T) {
	handler := SubscriptionHandler{Subscriptions: &subscriptionStoreStub{}, Users: &userStoreStub{}}

	req := authedRequest(http.MethodPost, "/api/v1/subscriptions/c/ghost", "viewer-1", nil)
	req.SetPathValue("channelId", "ghost")
	rec := httptest.NewRecorder()

	handler.Toggle(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestSubscriptionHandlerListSubscribersEmpty(t *testing.T) {
	users := &userStoreStub{users: map[string]models.User{
		"chan-1": {ID: "chan-1"},
	}}
	handler := SubscriptionHandler{Subscriptions: &subscriptionStoreStub{}, Users: users}

	req := authedRequest(http.MethodGet, "/api/v1/subscriptions/c/chan-1", "viewer-1", nil)
	req.SetPathValue("channelId", "chan-1")
	rec := httptest.NewRecorder()

	handler.ListSubscribers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Message != "no subscribers" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestSubscriptionHandlerListSubscribedChannels(t *testing.T) {
	subs := &subscriptionStoreStub{channels: []models.PublicUser{
		{ID: "chan-1", Username: "creator"},
	}}
	handler := SubscriptionHandler{Subscriptions: subs, Users: &userStoreStub{}}

	req := authedRequest(http.MethodGet, "/api/v1/subscriptions/u", "viewer-1", nil)
	rec := httptest.NewRecorder()

	handler.ListSubscribedChannels(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Message != "subscribed channels fetched successfully" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}
