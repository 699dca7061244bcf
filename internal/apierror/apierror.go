package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a request failure into the small taxonomy every
// controller maps onto the error envelope.
type Kind int

const (
	// KindValidation covers missing or malformed input.
	KindValidation Kind = iota
	// KindAuthorization covers callers acting on resources they do not own.
	KindAuthorization
	// KindNotFound covers referenced entities that are absent or not visible.
	KindNotFound
	// KindOperationFailed covers store writes that returned no result.
	KindOperationFailed
	// KindSystem covers store connectivity and other unexpected failures.
	KindSystem
)

// Error is a classified request failure carrying a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Status maps the error kind onto its HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindAuthorization:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Validation constructs a 400 input-validation failure.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Authorization constructs a 400 ownership failure.
func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// NotFound constructs a 404 missing-or-invisible-resource failure.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// OperationFailed constructs a 500 failure for writes that produced no result.
func OperationFailed(message string) *Error {
	return &Error{Kind: KindOperationFailed, Message: message}
}

// System wraps an unexpected store failure into a 500 error.
func System(message string, cause error) *Error {
	return &Error{Kind: KindSystem, Message: message, cause: cause}
}

// From returns err as an *Error, wrapping unclassified errors as system
// failures so no store-native error shape ever reaches a response.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return System("something went wrong", err)
}
