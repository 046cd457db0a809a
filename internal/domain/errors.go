package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidRating is returned when a review rating is not one of
	// the recognized values (again, review, easy).
	ErrInvalidRating = errors.New("invalid review rating")

	// ErrEmptyText is returned when required text input is empty after
	// normalization.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrTextTooLong is returned when text input exceeds the allowed length.
	ErrTextTooLong = errors.New("text exceeds maximum length")
)
