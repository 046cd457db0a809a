package store

import (
	"context"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
)

// CardStore is the persistence interface for the shared card catalog.
// Version: 1.0
type CardStore interface {
	// Create saves a new card and assigns its ID. The catalog enforces a
	// unique constraint over (normalized_source, target_language); on a
	// collision Create returns ErrDuplicate and the caller is expected to
	// re-read the winning row via GetByNormalizedKey. Two concurrent
	// creations of the same word therefore resolve to exactly one row
	// without any application-level lock.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Card, error)

	// GetByNormalizedKey retrieves the card for a normalized source text
	// and target language, the catalog's dedup key.
	// Returns ErrCardNotFound if no card exists for the key.
	GetByNormalizedKey(ctx context.Context, normalizedSource, targetLanguage string) (*domain.Card, error)
}
