package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in
	// the store. Ownership violations surface as ErrNotFound as well, so
	// a caller cannot distinguish "absent" from "owned by someone else".
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an insert collides with a unique
	// constraint. For the card catalog this is the normal outcome of
	// losing an insert race and is resolved by re-reading, not an error
	// surfaced to callers.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrCardNotFound indicates that the requested card does not exist.
	ErrCardNotFound = fmt.Errorf("%w: card", ErrNotFound)

	// ErrDeckNotFound indicates that the requested deck does not exist or
	// is not owned by the caller.
	ErrDeckNotFound = fmt.Errorf("%w: deck", ErrNotFound)

	// ErrUserCardNotFound indicates that the requested user card link does
	// not exist or is not owned by the caller.
	ErrUserCardNotFound = fmt.Errorf("%w: user card", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrDeckSlugExists indicates that the owner already has a deck with
	// the same slug.
	ErrDeckSlugExists = fmt.Errorf("%w: deck slug", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
