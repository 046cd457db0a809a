package store

import (
	"context"
	"time"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
)

// DeckSummary is the listing projection for a deck: its metadata plus the
// total number of linked cards and how many of them are currently due.
type DeckSummary struct {
	Deck      *domain.Deck
	CardCount int
	DueCount  int
}

// DeckStore is the persistence interface for user-owned decks.
//
// Every accessor takes the owner's user ID and only ever sees that
// owner's rows; a deck owned by someone else is indistinguishable from a
// deck that does not exist.
// Version: 1.0
type DeckStore interface {
	// Create saves a new deck and assigns its ID.
	// Returns ErrDeckSlugExists if the owner already has a deck with the
	// same slug.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetForOwner retrieves a deck by ID, scoped to the owner.
	// Returns ErrDeckNotFound if absent or owned by another user.
	GetForOwner(ctx context.Context, ownerUserID, deckID int64) (*domain.Deck, error)

	// GetBySlug retrieves an owner's deck by slug.
	// Returns ErrDeckNotFound if the owner has no such deck.
	GetBySlug(ctx context.Context, ownerUserID int64, slug string) (*domain.Deck, error)

	// ListSummaries returns all of the owner's decks with card and due
	// counts computed relative to now, ordered by creation time.
	ListSummaries(ctx context.Context, ownerUserID int64, now time.Time) ([]*DeckSummary, error)

	// Update persists name, slug, and description changes.
	// Returns ErrDeckNotFound if absent or owned by another user, and
	// ErrDeckSlugExists if the new slug collides with another deck of the
	// same owner.
	Update(ctx context.Context, deck *domain.Deck) error

	// Delete removes a deck. The schema's ON DELETE CASCADE removes the
	// deck's user card links; shared card rows are never touched.
	// Returns ErrDeckNotFound if absent or owned by another user.
	Delete(ctx context.Context, ownerUserID, deckID int64) error
}
