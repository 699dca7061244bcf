package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vidtube/backend/internal/apierror"
	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/media"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

const refreshCookieName = "refreshToken"

// UserHandler implements account registration and session endpoints.
type UserHandler struct {
	Users        UserStore
	Sessions     SessionManager
	Media        media.Storage
	LoginLimiter RateLimiter
	NowFunc      func() time.Time
}

// Register handles POST /api/v1/users/register. The request is multipart
// so an avatar image can travel with the account fields.
func (h UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(ctx, w, apierror.Validation("a multipart form is required"))
		return
	}

	fullName := strings.TrimSpace(r.FormValue("fullName"))
	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	username := strings.TrimSpace(strings.ToLower(r.FormValue("username")))
	password := r.FormValue("password")

	if fullName == "" || email == "" || username == "" || password == "" {
		respondError(ctx, w, apierror.Validation("fullName, email, username and password are all required"))
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		respondError(ctx, w, apierror.Validation("invalid email address"))
		return
	}
	if len(password) < 8 {
		respondError(ctx, w, apierror.Validation("password must be at least 8 characters"))
		return
	}

	avatar, ok := formFile(r, "avatar")
	if !ok {
		respondError(ctx, w, apierror.Validation("avatar is missing"))
		return
	}

	if taken, err := h.identityTaken(ctx, email, username); err != nil {
		respondError(ctx, w, err)
		return
	} else if taken {
		respondError(ctx, w, apierror.Validation("user with email or username already exists"))
		return
	}

	avatarURL, err := h.storeAvatar(ctx, avatar)
	if err != nil {
		respondError(ctx, w, apierror.System("error while uploading the avatar", err))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		respondError(ctx, w, apierror.System("failed to secure password", err))
		return
	}

	now := h.now()
	user := models.User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		FullName:  fullName,
		Avatar:    avatarURL,
		Password:  string(hashed),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, apierror.Validation("user with email or username already exists"))
			return
		}
		respondError(ctx, w, apierror.OperationFailed("failed to create the account"))
		return
	}

	respondData(ctx, w, http.StatusCreated, user.Public(), "user registered successfully")
}

// Login handles POST /api/v1/users/login. Callers may identify themselves
// by email or username.
func (h UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.LoginLimiter, r, "login") {
		logger.Warn("login rate limited", "ip", clientIP(r))
		respondError(ctx, w, apierror.Validation("too many login attempts, try again later"))
		return
	}

	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	username := strings.TrimSpace(strings.ToLower(req.Username))
	if (email == "" && username == "") || req.Password == "" {
		respondError(ctx, w, apierror.Validation("email or username, and password are required"))
		return
	}

	user, err := h.findAccount(ctx, email, username)
	if err != nil {
		respondError(ctx, w, notFoundOr(err, "user not found"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.Warn("login password mismatch", "userId", user.ID)
		respondError(ctx, w, apierror.Authorization("invalid credentials"))
		return
	}

	tokens, err := h.Sessions.Issue(ctx, user.ID)
	if err != nil {
		respondError(ctx, w, apierror.System("failed to create session", err))
		return
	}

	setSessionCookies(w, tokens)
	respondData(ctx, w, http.StatusOK, loginResponse{User: user.Public(), Tokens: tokens}, "user logged in successfully")
}

// Refresh handles POST /api/v1/users/refresh. The refresh token is read
// from the cookie first, the body second, and the used token is always
// rotated.
func (h UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := refreshTokenFrom(r)
	if token == "" {
		respondError(ctx, w, apierror.Validation("refresh token is required"))
		return
	}

	tokens, err := h.Sessions.Refresh(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) || errors.Is(err, auth.ErrRefreshTokenExpired) {
			respondError(ctx, w, apierror.Authorization("invalid refresh token"))
			return
		}
		respondError(ctx, w, apierror.System("unable to refresh session", err))
		return
	}

	setSessionCookies(w, tokens)
	respondData(ctx, w, http.StatusOK, tokens, "access token refreshed successfully")
}

// Logout handles POST /api/v1/users/logout. Revoking an already revoked
// token is still a successful logout.
func (h UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if token := refreshTokenFrom(r); token != "" {
		if err := h.Sessions.Revoke(ctx, token); err != nil {
			respondError(ctx, w, apierror.System("unable to log out", err))
			return
		}
	}

	clearSessionCookies(w)
	respondData(ctx, w, http.StatusOK, struct{}{}, "user logged out successfully")
}

// Me handles GET /api/v1/users/me.
func (h UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := auth.CallerID(ctx)

	user, err := h.Users.FindByID(ctx, callerID)
	if err != nil {
		respondError(ctx, w, notFoundOr(err, "user not found"))
		return
	}

	respondData(ctx, w, http.StatusOK, user.Public(), "current user fetched successfully")
}

// identityTaken reports whether the email or username already belongs to
// an account. Store failures other than a clean miss are surfaced.
func (h UserHandler) identityTaken(ctx context.Context, email, username string) (bool, error) {
	if _, err := h.Users.FindByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return false, apierror.System("unable to verify existing accounts", err)
	}

	if _, err := h.Users.FindByUsername(ctx, username); err == nil {
		return true, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return false, apierror.System("unable to verify existing accounts", err)
	}

	return false, nil
}

func (h UserHandler) findAccount(ctx context.Context, email, username string) (models.User, error) {
	if email != "" {
		return h.Users.FindByEmail(ctx, email)
	}
	return h.Users.FindByUsername(ctx, username)
}

func (h UserHandler) storeAvatar(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	return h.Media.Save(ctx, objectKey("avatars", fh.Filename), f)
}

func (h UserHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

type loginResponse struct {
	User   models.PublicUser    `json:"user"`
	Tokens models.SessionTokens `json:"tokens"`
}

func refreshTokenFrom(r *http.Request) string {
	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := decodeJSON(r, &req); err != nil {
		return ""
	}
	return strings.TrimSpace(req.RefreshToken)
}

func setSessionCookies(w http.ResponseWriter, tokens models.SessionTokens) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    tokens.AccessToken,
		Path:     "/",
		Expires:  tokens.AccessExpiresAt,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    tokens.RefreshToken,
		Path:     "/",
		Expires:  tokens.RefreshExpiresAt,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{"accessToken", refreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
