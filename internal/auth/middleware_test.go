package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type verifierStub struct {
	userID string
	err    error
	token  string
}

func (v *verifierStub) Verify(accessToken string) (string, error) {
	v.token = accessToken
	return v.userID, v.err
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	handler := RequireAuth(&verifierStub{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestRequireAuthRejectsInvalidToken(t *testing.T) {
	verifier := &verifierStub{err: errors.New("bad signature")}
	handler := RequireAuth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if verifier.token != "bogus" {
		t.Fatalf("expected verifier to see the bearer token, got %q", verifier.token)
	}
}

func TestRequireAuthStoresCallerID(t *testing.T) {
	verifier := &verifierStub{userID: "user-1"}
	var seen string
	handler := RequireAuth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CallerID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil)
	req.Header.Set("Authorization", "Bearer valid")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if seen != "user-1" {
		t.Fatalf("expected caller user-1 got %q", seen)
	}
}

func TestRequireAuthReadsAccessTokenCookie(t *testing.T) {
	verifier := &verifierStub{userID: "user-1"}
	handler := RequireAuth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "cookie-token"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if verifier.token != "cookie-token" {
		t.Fatalf("expected cookie token, got %q", verifier.token)
	}
}
