package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type ctxKey string

const callerIDKey ctxKey = "callerID"

// WithCallerID stores the authenticated user's identifier on the context.
func WithCallerID(ctx context.Context, callerID string) context.Context {
	if callerID == "" {
		return ctx
	}
	return context.WithValue(ctx, callerIDKey, callerID)
}

// CallerID returns the authenticated user's identifier, or empty when the
// request never passed the auth middleware.
func CallerID(ctx context.Context) string {
	if id, ok := ctx.Value(callerIDKey).(string); ok {
		return id
	}
	return ""
}

// TokenVerifier validates an access token and resolves the user it belongs to.
type TokenVerifier interface {
	Verify(accessToken string) (string, error)
}

// RequireAuth rejects requests lacking a valid bearer token before the
// controller runs, and stores the verified caller id on the context.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				rejectUnauthenticated(w, "authentication required")
				return
			}

			callerID, err := verifier.Verify(token)
			if err != nil {
				rejectUnauthenticated(w, "invalid or expired access token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCallerID(r.Context(), callerID)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	if cookie, err := r.Cookie("accessToken"); err == nil {
		return cookie.Value
	}
	return ""
}

func rejectUnauthenticated(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"statusCode": http.StatusBadRequest,
		"message":    message,
		"success":    false,
		"errors":     []string{},
	})
}
