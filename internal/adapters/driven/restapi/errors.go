package restapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// StatusError is a non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("status %d", e.Code)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Code)
}

// errorMessage pulls the human-readable reason out of an error body.
// OpenAI and Anthropic send {"error":{"message":...}}, Ollama sends
// {"error":"..."}. Anything else yields "".
func errorMessage(raw []byte) string {
	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(raw, &envelope) != nil {
		return ""
	}

	var s string
	if json.Unmarshal(envelope.Error, &s) == nil && s != "" {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(envelope.Error, &obj) == nil && obj.Message != "" {
		return obj.Message
	}
	return envelope.Message
}

// Wrap tags err with category, one of the domain service-unavailable
// errors, and names the provider. Status 429 also matches
// domain.ErrRateLimited.
func Wrap(provider string, category, err error) error {
	if err == nil {
		return nil
	}

	var se *StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("%w: %s: %w", category, provider, err)
	}

	msg := se.Message
	if msg == "" {
		msg = http.StatusText(se.Code)
	}
	switch se.Code {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s: %w", category, provider, domain.ErrRateLimited)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s: API key rejected: %s (status %d)", category, provider, msg, se.Code)
	default:
		return fmt.Errorf("%w: %s: %s (status %d)", category, provider, msg, se.Code)
	}
}
