package store

import (
	"context"
	"time"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
)

// StudyCard joins a user card link with its shared card and deck name,
// the shape needed to present one flashcard to a learner.
type StudyCard struct {
	Link     *domain.UserCardLink
	Card     *domain.Card
	DeckName string
}

// UserCardStore is the persistence interface for user card links, the
// per-user review state rows. Like DeckStore, every accessor is scoped to
// the owner and reports foreign rows as absent.
// Version: 1.0
type UserCardStore interface {
	// Create saves a new link and assigns its ID. The schema enforces a
	// unique constraint over (owner_user_id, deck_id, card_id); Create
	// returns ErrDuplicate when the link already exists so that callers
	// can reuse it instead of duplicating.
	Create(ctx context.Context, link *domain.UserCardLink) error

	// GetByDeckCard retrieves the link for a (deck, card) pair, scoped to
	// the owner. Returns ErrUserCardNotFound if absent.
	GetByDeckCard(ctx context.Context, ownerUserID, deckID, cardID int64) (*domain.UserCardLink, error)

	// GetStudyCard retrieves one link joined with its card and deck name,
	// scoped to the owner. Returns ErrUserCardNotFound if absent.
	GetStudyCard(ctx context.Context, ownerUserID, linkID int64) (*StudyCard, error)

	// ListByDeck returns all links in a deck joined with their cards,
	// scoped to the owner, ordered by link ID.
	ListByDeck(ctx context.Context, ownerUserID, deckID int64) ([]*StudyCard, error)

	// NextDue returns the owner's link with the earliest next_review_at
	// not after now, ties broken by lowest link ID. A non-nil deckID
	// restricts the search to one deck. Returns ErrUserCardNotFound when
	// nothing is due; the selection itself never mutates state.
	NextDue(ctx context.Context, ownerUserID int64, deckID *int64, now time.Time) (*StudyCard, error)

	// UpdateReview persists the scheduler's output in a single atomic
	// row write keyed by link ID and owner. Returns ErrUserCardNotFound
	// if the link is absent or owned by another user. Concurrent reviews
	// of the same link serialize on the row; the loser's write lands
	// last-write-wins, which is acceptable for one human double-submitting.
	UpdateReview(ctx context.Context, link *domain.UserCardLink) error

	// Delete removes a link from a deck, scoped to the owner. The shared
	// card row is left intact. Returns ErrUserCardNotFound if absent.
	Delete(ctx context.Context, ownerUserID, deckID, linkID int64) error
}
