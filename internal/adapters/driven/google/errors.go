package google

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// IsUnauthorized returns true if the error indicates an invalid API key.
func IsUnauthorized(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, domain.ErrRateLimited) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests
	}
	return false
}

// Message returns the error message Google put in the response body, or "".
func Message(err error) string {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Message
	}
	return ""
}

// WrapError tags err with category (one of the domain service-unavailable
// errors) and, for rate limiting, domain.ErrRateLimited.
func WrapError(service string, category, err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("%w: %s: %w", category, service, err)
	}

	switch {
	case IsRateLimited(err):
		return fmt.Errorf("%w: %s: %w", category, service, domain.ErrRateLimited)
	case IsUnauthorized(err):
		return fmt.Errorf("%w: %s: API key rejected (status %d)", category, service, gerr.Code)
	default:
		msg := gerr.Message
		if msg == "" {
			msg = http.StatusText(gerr.Code)
		}
		return fmt.Errorf("%w: %s: %s (status %d)", category, service, msg, gerr.Code)
	}
}
