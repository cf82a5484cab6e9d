package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidPriority is returned when a priority is not one of
	// low, medium or high.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidStatus is returned when a status is not one of
	// pending or completed.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrUnauthorized is returned when an operation is not permitted
	// for the calling identity.
	ErrUnauthorized = errors.New("unauthorized operation")
)
