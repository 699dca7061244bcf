package handlers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/models"
)

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(key string) bool { return false }

func registrationForm(t *testing.T, fields map[string]string, withAvatar bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if withAvatar {
		part, err := writer.CreateFormFile("avatar", "avatar.png")
		if err != nil {
			t.Fatalf("create avatar part: %v", err)
		}
		if _, err := part.Write([]byte("fake image bytes")); err != nil {
			t.Fatalf("write avatar: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestUserHandlerRegisterSuccess(t *testing.T) {
	users := &userStoreStub{}
	media := &mediaStoreStub{}
	handler := UserHandler{Users: users, Media: media, NowFunc: func() time.Time {
		return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	}}

	body, contentType := registrationForm(t, map[string]string{
		"fullName": "Ada Lovelace",
		"email":    "ada@example.com",
		"username": "ada",
		"password": "correct horse battery",
	}, true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if users.created.ID == "" {
		t.Fatal("expected user id to be set")
	}
	if users.created.Username != "ada" || users.created.Email != "ada@example.com" {
		t.Fatalf("unexpected user: %+v", users.created)
	}
	if users.created.Password == "correct horse battery" {
		t.Fatal("password must be hashed before storage")
	}
	if len(media.saved) != 1 {
		t.Fatalf("expected one avatar upload got %d", len(media.saved))
	}
}

func TestUserHandlerRegisterValidation(t *testing.T) {
	handler := UserHandler{Users: &userStoreStub{}, Media: &mediaStoreStub{}}

	cases := []struct {
		name       string
		fields     map[string]string
		withAvatar bool
	}{
		{"missingFields", map[string]string{"email": "a@b.com"}, true},
		{"invalidEmail", map[string]string{"fullName": "A", "email": "not-an-email", "username": "a", "password": "longenough"}, true},
		{"shortPassword", map[string]string{"fullName": "A", "email": "a@b.com", "username": "a", "password": "short"}, true},
		{"missingAvatar", map[string]string{"fullName": "A", "email": "a@b.com", "username": "a", "password": "longenough"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, contentType := registrationForm(t, tc.fields, tc.withAvatar)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			handler.Register(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", rec.Code)
			}
		})
	}
}

func TestUserHandlerRegisterDuplicateIdentity(t *testing.T) {
	users := &userStoreStub{users: map[string]models.User{
		"existing": {ID: "existing", Username: "ada", Email: "ada@example.com"},
	}}
	handler := UserHandler{Users: users, Media: &mediaStoreStub{}}

	body, contentType := registrationForm(t, map[string]string{
		"fullName": "Ada Lovelace",
		"email":    "ada@example.com",
		"username": "ada2",
		"password": "longenough",
	}, true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestUserHandlerLoginSuccess(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	users := &userStoreStub{users: map[string]models.User{
		"user-1": {ID: "user-1", Username: "ada", Email: "ada@example.com", Password: string(hashed)},
	}}
	sessions := &sessionManagerStub{tokens: models.SessionTokens{
		AccessToken:  "access",
		RefreshToken: "refresh",
	}}
	handler := UserHandler{Users: users, Sessions: sessions}

	body := bytes.NewBufferString(`{"email":"ada@example.com","password":"hunter2hunter2"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", body)
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if sessions.issuedFor != "user-1" {
		t.Fatalf("expected session issued for user-1 got %q", sessions.issuedFor)
	}

	cookies := rec.Result().Cookies()
	names := map[string]bool{}
	for _, c := range cookies {
		names[c.Name] = true
		if !c.HttpOnly {
			t.Fatalf("cookie %s must be http-only", c.Name)
		}
	}
	if !names["accessToken"] || !names["refreshToken"] {
		t.Fatalf("expected both session cookies, got %v", names)
	}
}

func TestUserHandlerLoginByUsername(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	users := &userStoreStub{users: map[string]models.User{
		"user-1": {ID: "user-1", Username: "ada", Password: string(hashed)},
	}}
	sessions := &sessionManagerStub{}
	handler := UserHandler{Users: users, Sessions: sessions}

	body := bytes.NewBufferString(`{"username":"ada","password":"hunter2hunter2"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", body)
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestUserHandlerLoginWrongPassword(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("the-real-one"), bcrypt.MinCost)
	users := &userStoreStub{users: map[string]models.User{
		"user-1": {ID: "user-1", Email: "ada@example.com", Password: string(hashed)},
	}}
	handler := UserHandler{Users: users, Sessions: &sessionManagerStub{}}

	body := bytes.NewBufferString(`{"email":"ada@example.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", body)
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestUserHandlerLoginUnknownUser(t *testing.T) {
	handler := UserHandler{Users: &userStoreStub{}, Sessions: &sessionManagerStub{}}

	body := bytes.NewBufferString(`{"email":"ghost@example.com","password":"whatever"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", body)
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestUserHandlerLoginRateLimited(t *testing.T) {
	handler := UserHandler{Users: &userStoreStub{}, Sessions: &sessionManagerStub{}, LoginLimiter: denyAllLimiter{}}

	body := bytes.NewBufferString(`{"email":"ada@example.com","password":"hunter2hunter2"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", body)
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestUserHandlerRefreshFromCookie(t *testing.T) {
	sessions := &sessionManagerStub{tokens: models.SessionTokens{AccessToken: "new-access", RefreshToken: "new-refresh"}}
	handler := UserHandler{Sessions: sessions}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "old-refresh"})
	rec := httptest.NewRecorder()

	handler.Refresh(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if sessions.refreshed != "old-refresh" {
		t.Fatalf("expected refresh of old-refresh got %q", sessions.refreshed)
	}
}

func TestUserHandlerRefreshInvalidToken(t *testing.T) {
	sessions := &sessionManagerStub{refreshErr: auth.ErrSessionNotFound}
	handler := UserHandler{Sessions: sessions}

	body := bytes.NewBufferString(`{"refreshToken":"stale"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh", body)
	rec := httptest.NewRecorder()

	handler.Refresh(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestUserHandlerRefreshMissingToken(t *testing.T) {
	handler := UserHandler{Sessions: &sessionManagerStub{}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()

	handler.Refresh(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestUserHandlerLogoutRevokesSession(t *testing.T) {
	sessions := &sessionManagerStub{}
	handler := UserHandler{Sessions: sessions}

	req := authedRequest(http.MethodPost, "/api/v1/users/logout", "user-1", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "active-refresh"})
	rec := httptest.NewRecorder()

	handler.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if sessions.revoked != "active-refresh" {
		t.Fatalf("expected revoke of active-refresh got %q", sessions.revoked)
	}

	for _, c := range rec.Result().Cookies() {
		if c.MaxAge != -1 {
			t.Fatalf("cookie %s should be expired on logout", c.Name)
		}
	}
}

func TestUserHandlerLogoutStoreFailure(t *testing.T) {
	sessions := &sessionManagerStub{revokeErr: errors.New("store unavailable")}
	handler := UserHandler{Sessions: sessions}

	req := authedRequest(http.MethodPost, "/api/v1/users/logout", "user-1", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "active-refresh"})
	rec := httptest.NewRecorder()

	handler.Logout(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("a failed logout must not clear the session cookies")
	}
}

func TestUserHandlerMe(t *testing.T) {
	users := &userStoreStub{users: map[string]models.User{
		"user-1": {ID: "user-1", Username: "ada", Email: "ada@example.com", Password: "hash"},
	}}
	handler := UserHandler{Users: users}

	req := authedRequest(http.MethodGet, "/api/v1/users/me", "user-1", nil)
	rec := httptest.NewRecorder()

	handler.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected data shape: %T", resp.Data)
	}
	if data["username"] != "ada" {
		t.Fatalf("unexpected user payload: %v", data)
	}
	if _, leaked := data["password"]; leaked {
		t.Fatal("password must never appear in responses")
	}
}
