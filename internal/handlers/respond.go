package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vidtube/backend/internal/apierror"
	"github.com/vidtube/backend/internal/logging"
)

// Response is the uniform success envelope every endpoint returns.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorResponse is the uniform failure envelope. Errors never leak raw
// store errors or stack traces.
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// respondData writes the success envelope. An empty collection is a
// success, carried with its own message.
func respondData(ctx context.Context, w http.ResponseWriter, status int, data any, message string) {
	writeJSON(ctx, w, status, Response{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

// respondError classifies err and writes the failure envelope. Anything
// that is not an apierror becomes an opaque system failure.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	apiErr := apierror.From(err)
	status := apiErr.Status()

	logger := logging.FromContext(ctx)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err, "status", status)
	} else {
		logger.Warn("request rejected", "message", apiErr.Message, "status", status)
	}

	writeJSON(ctx, w, status, ErrorResponse{
		StatusCode: status,
		Message:    apiErr.Message,
		Success:    false,
		Errors:     []string{},
	})
}

// decodeJSON parses the request body, reporting malformed payloads as
// validation failures.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierror.Validation("invalid request body")
	}
	return nil
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
	}
}
