// Package common defines shared constants and sentinel errors used across
// the Centrinote server and CLI. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// ErrNotConfigured marks a feature whose credentials (SDK key/secret,
	// API credentials, storage) are absent. It is never retried.
	ErrNotConfigured = errors.New("not configured")

	// ErrRemoteAPI wraps failures of the external video-conferencing API.
	ErrRemoteAPI = errors.New("remote api error")

	// ErrPersistence wraps failures to write or delete local records.
	ErrPersistence = errors.New("persistence error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
