package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Entity-specific errors wrap it.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is nil or malformed.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required text is empty.
	ErrEmptyContent = errors.New("content cannot be empty")
)
