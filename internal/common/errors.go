// Package common defines shared constants and sentinel errors used across
// the Quill client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Transport-level errors.
	ErrUnavailable       = errors.New("server unavailable")
	ErrNotFound          = errors.New("not found")
	ErrMalformedResponse = errors.New("malformed response")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
)
