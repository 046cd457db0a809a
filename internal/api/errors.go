package api

import (
	"errors"
	"net/http"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/generation"
	"github.com/fluentdeck/fluentdeck-api/internal/service"
	"github.com/fluentdeck/fluentdeck-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients. Ownership violations are mapped exactly
// like absence, so the status code never reveals a foreign resource.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors (including foreign-owner accesses)
	case errors.Is(err, service.ErrDeckNotFound),
		errors.Is(err, service.ErrCardNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrDeckNameTaken):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyText),
		errors.Is(err, domain.ErrTextTooLong),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Upstream generation failures
	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity
	case errors.Is(err, generation.ErrTransientFailure):
		return http.StatusServiceUnavailable
	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrGenerationFailed):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal
// details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrDeckNotFound):
		return "Deck not found"

	case errors.Is(err, service.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, service.ErrDeckNameTaken):
		return "A deck with this name already exists"

	case errors.Is(err, service.ErrInvalidRating):
		return "Rating must be one of: again, review, easy"

	case errors.Is(err, domain.ErrEmptyText):
		return "Text cannot be empty"

	case errors.Is(err, domain.ErrTextTooLong):
		return "Text exceeds the maximum length"

	case errors.Is(err, domain.ErrDeckNameEmpty):
		return "Deck name cannot be empty"

	case errors.Is(err, domain.ErrValidation):
		return "Invalid input"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, generation.ErrContentBlocked):
		return "The text was rejected by content filters"

	case errors.Is(err, generation.ErrTransientFailure):
		return "Card generation is temporarily unavailable, try again later"

	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrGenerationFailed):
		return "Card generation failed"

	default:
		return "An unexpected error occurred"
	}
}
