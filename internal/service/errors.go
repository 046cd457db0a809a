package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service
// implementations. Callers check for them with errors.Is(); the API layer
// maps them to HTTP status codes.
//
// Ownership rule: a resource owned by another user is reported with the
// same not-found sentinel as a missing one, so responses never reveal
// whether a foreign resource exists.
var (
	// ErrDeckNotFound indicates that the deck does not exist or is owned
	// by another user.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrCardNotFound indicates that the training card does not exist or
	// is owned by another user.
	ErrCardNotFound = errors.New("card not found")

	// ErrDeckNameTaken indicates the user already has a deck whose name
	// slugifies to the same value.
	ErrDeckNameTaken = errors.New("a deck with this name already exists")

	// ErrInvalidRating indicates a review rating outside again|review|easy.
	ErrInvalidRating = errors.New("invalid review rating")
)

// ServiceError wraps errors from the service layer with the failed
// operation and a human-readable message, so consumers can differentiate
// failures with errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "add_word", "submit_review")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
