package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewValidationError carries the full field-to-violations mapping; the
// pipeline always aggregates every failure before building one of these.
func NewValidationError(fields map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", "validation failed", http.StatusUnprocessableEntity,
		map[string]any{"fields": fields})
}

// NewRateLimitError signals a rejected attempt together with how long the
// caller must wait before retrying and the quota state that produced the
// rejection. The details feed both the response body and the Retry-After
// and X-RateLimit-* headers.
func NewRateLimitError(retryAfter time.Duration, limit, remaining, windowSeconds int, resetAt time.Time) error {
	seconds := int(retryAfter.Round(time.Second).Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return NewDomainError("RATE_LIMIT_EXCEEDED",
		"too many registration attempts, please try again later",
		http.StatusTooManyRequests,
		map[string]any{
			"retry_after_seconds": seconds,
			"max_requests":        limit,
			"remaining":           remaining,
			"window_seconds":      windowSeconds,
			"reset_at":            resetAt.Unix(),
		})
}

// NewDuplicateError reports a uniqueness conflict on a named field as a
// validation-shaped failure rather than a server fault.
func NewDuplicateError(field string) error {
	return NewDomainError("DUPLICATE_FIELD",
		fmt.Sprintf("an account with this %s already exists", humanField(field)),
		http.StatusConflict,
		map[string]any{"field": field})
}

// NewDependencyFailure wraps an unreachable collaborator (persistence,
// transport) as a server-side fault distinct from validation errors.
func NewDependencyFailure(dependency string, err error) error {
	return &DomainError{
		Code:       "DEPENDENCY_FAILURE",
		Message:    fmt.Sprintf("%s unavailable", dependency),
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewBadRequest(message string) error {
	return NewDomainError("BAD_REQUEST", message, http.StatusBadRequest, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &DomainError{
			Code:       "NOT_FOUND",
			Message:    "resource not found",
			HTTPStatus: http.StatusNotFound,
			Err:        err,
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func humanField(field string) string {
	switch field {
	case "phone_number":
		return "phone number"
	case "license_number":
		return "license number"
	default:
		return field
	}
}
