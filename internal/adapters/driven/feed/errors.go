package feed

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/custodia-labs/leadcache/internal/core/domain"
)

// StatusError is a non-2xx response from the list API.
type StatusError struct {
	// Code is the HTTP status code.
	Code int
	// Body is a truncated copy of the response body, for diagnostics.
	Body string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("list api: status %d: %s", e.Code, e.Body)
}

// wrapStatus converts an HTTP status into the matching domain error,
// keeping the StatusError in the chain for diagnostics.
func wrapStatus(code int, body string) error {
	statusErr := &StatusError{Code: code, Body: body}
	switch code {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", domain.ErrAuthExpired, statusErr)
	case http.StatusGone:
		return fmt.Errorf("%w: %w", domain.ErrCursorExpired, statusErr)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, statusErr)
	default:
		return statusErr
	}
}

// IsCursorExpired returns true if the error indicates a stale cursor
// (410 Gone or the domain sentinel).
func IsCursorExpired(err error) bool {
	if errors.Is(err, domain.ErrCursorExpired) {
		return true
	}
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusGone
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, domain.ErrRateLimited) {
		return true
	}
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusTooManyRequests
}

// isRetryable reports whether a request may be retried by the transport.
// Only server-side failures are: client errors, including the cursor
// expiry signal, must surface immediately.
func isRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= http.StatusInternalServerError
	}
	// Network-level failures carry no status; retry those.
	return !errors.Is(err, domain.ErrAuthExpired) &&
		!errors.Is(err, domain.ErrCursorExpired) &&
		!errors.Is(err, domain.ErrRateLimited)
}
