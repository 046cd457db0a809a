package store

import (
	"context"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
)

// UserStore is the persistence interface for learner profiles.
// Version: 1.0
type UserStore interface {
	// Upsert creates the user row if absent, otherwise refreshes the
	// profile fields reported by the chat platform. The ID comes from the
	// platform and is trusted by the time it reaches the store.
	Upsert(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their platform ID.
	// Returns ErrNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
