package ai

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrEmptyResponse is returned when the inference service produces no
	// usable output for a call.
	ErrEmptyResponse = errors.New("empty response from inference service")
)
