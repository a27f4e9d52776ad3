package domain

import (
	"errors"
	"fmt"
)

// Error categories. Every error surfaced by the core wraps exactly one of these,
// so callers can decide how to present a failure with errors.Is.
var (
	// ErrExternalService indicates an embedding, generation or identity service
	// was unreachable, timed out, or returned a malformed payload.
	ErrExternalService = errors.New("external service error")

	// ErrExtraction indicates uploaded file content could not be turned into text.
	ErrExtraction = errors.New("extraction error")

	// ErrValidation indicates a request was rejected at the boundary.
	ErrValidation = errors.New("validation error")

	// ErrDimensionMismatch indicates a stored vector's length differs from the query vector's.
	// It is only ever logged; ranking excludes the candidate.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// Domain errors represent business logic failures.
var (
	// ErrNotFound indicates a requested entity does not exist for the requesting user.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = fmt.Errorf("%w: invalid input", ErrValidation)

	// ErrNotImplemented indicates functionality is not available in this configuration.
	ErrNotImplemented = errors.New("not implemented")

	// ErrEmptyMessage indicates a chat message was empty after trimming.
	ErrEmptyMessage = fmt.Errorf("%w: empty message", ErrValidation)

	// ErrEmptyQuery indicates a retrieval query was empty after trimming.
	ErrEmptyQuery = fmt.Errorf("%w: empty query", ErrValidation)

	// ErrInvalidMode indicates an unknown chat mode.
	ErrInvalidMode = fmt.Errorf("%w: invalid chat mode", ErrValidation)

	// ErrUnsupportedFileType indicates an upload whose extension has no extractor.
	ErrUnsupportedFileType = fmt.Errorf("%w: unsupported file type (use PDF, DOCX, TXT, MD or HTML)", ErrValidation)

	// ErrEmptyExtraction indicates no text could be extracted from an upload.
	// Ingestion aborts before any document is created.
	ErrEmptyExtraction = fmt.Errorf("%w: could not extract text from the file", ErrExtraction)

	// Authentication Errors.

	// ErrAuthRequired indicates the operation needs a logged-in user.
	ErrAuthRequired = fmt.Errorf("%w: authentication required", ErrValidation)

	// ErrAuthInvalid indicates the identity provider rejected the credentials.
	ErrAuthInvalid = errors.New("authentication invalid")

	// Service Errors.

	// ErrEmbeddingUnavailable indicates the embedding service is not configured or unreachable.
	ErrEmbeddingUnavailable = fmt.Errorf("%w: embedding service unavailable", ErrExternalService)

	// ErrGenerationUnavailable indicates the generation service is not configured or unreachable.
	ErrGenerationUnavailable = fmt.Errorf("%w: generation service unavailable", ErrExternalService)

	// ErrIdentityUnavailable indicates the identity provider could not be reached.
	ErrIdentityUnavailable = fmt.Errorf("%w: identity provider unavailable", ErrExternalService)

	// ErrEmptyEmbedding indicates the embedding service answered without any values.
	ErrEmptyEmbedding = fmt.Errorf("%w: empty embedding", ErrExternalService)

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// AuthError carries the identity provider's reason for rejecting credentials,
// e.g. EMAIL_EXISTS or INVALID_PASSWORD.
type AuthError struct {
	Reason string
}

// Error implements error.
func (e *AuthError) Error() string {
	if e.Reason == "" {
		return ErrAuthInvalid.Error()
	}
	return ErrAuthInvalid.Error() + ": " + e.Reason
}

// Unwrap lets errors.Is match ErrAuthInvalid.
func (e *AuthError) Unwrap() error {
	return ErrAuthInvalid
}
