package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/platform/logger"
	"github.com/fluentdeck/fluentdeck-api/internal/store"
)

// PostgresDeckStore implements the store.DeckStore interface using a
// PostgreSQL database as the storage backend. Every query is scoped by
// owner_user_id, so rows of other owners surface as not found.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the
// DeckStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, a default logger will be used.
func NewPostgresDeckStore(db store.DBTX, log *slog.Logger) *PostgresDeckStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: log.With(slog.String("component", "deck_store")),
	}
}

// Ensure PostgresDeckStore implements store.DeckStore interface
var _ store.DeckStore = (*PostgresDeckStore)(nil)

const deckColumns = `id, owner_user_id, name, slug, description, created_at`

// Create implements store.DeckStore.Create.
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("owner_user_id", deck.OwnerUserID))
		return err
	}

	query := `
		INSERT INTO decks (owner_user_id, name, slug, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		deck.OwnerUserID,
		deck.Name,
		deck.Slug,
		deck.Description,
		deck.CreatedAt,
	).Scan(&deck.ID)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("deck slug already exists",
				slog.Int64("owner_user_id", deck.OwnerUserID),
				slog.String("slug", deck.Slug))
			return store.ErrDeckSlugExists
		}

		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.Int64("owner_user_id", deck.OwnerUserID))
		return MapError(err)
	}

	log.Info("deck created",
		slog.Int64("deck_id", deck.ID),
		slog.Int64("owner_user_id", deck.OwnerUserID),
		slog.String("slug", deck.Slug))
	return nil
}

// GetForOwner implements store.DeckStore.GetForOwner.
func (s *PostgresDeckStore) GetForOwner(ctx context.Context, ownerUserID, deckID int64) (*domain.Deck, error) {
	query := `SELECT ` + deckColumns + ` FROM decks WHERE owner_user_id = $1 AND id = $2`
	deck, err := scanDeck(s.db.QueryRowContext(ctx, query, ownerUserID, deckID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDeckNotFound
		}
		return nil, MapError(err)
	}
	return deck, nil
}

// GetBySlug implements store.DeckStore.GetBySlug.
func (s *PostgresDeckStore) GetBySlug(ctx context.Context, ownerUserID int64, slug string) (*domain.Deck, error) {
	query := `SELECT ` + deckColumns + ` FROM decks WHERE owner_user_id = $1 AND slug = $2`
	deck, err := scanDeck(s.db.QueryRowContext(ctx, query, ownerUserID, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDeckNotFound
		}
		return nil, MapError(err)
	}
	return deck, nil
}

// ListSummaries implements store.DeckStore.ListSummaries. Card and due
// counts come from correlated aggregates over user_cards, so an empty
// deck still lists with zero counts.
func (s *PostgresDeckStore) ListSummaries(ctx context.Context, ownerUserID int64, now time.Time) ([]*store.DeckSummary, error) {
	query, args, err := sq.Select(
		"d.id", "d.owner_user_id", "d.name", "d.slug", "d.description", "d.created_at",
		"COUNT(uc.id) AS card_count",
	).
		Column(sq.Expr("COUNT(uc.id) FILTER (WHERE uc.next_review_at <= ?) AS due_count", now)).
		From("decks d").
		LeftJoin("user_cards uc ON uc.deck_id = d.id").
		Where(sq.Eq{"d.owner_user_id": ownerUserID}).
		GroupBy("d.id").
		OrderBy("d.created_at", "d.id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []*store.DeckSummary
	for rows.Next() {
		var deck domain.Deck
		var description sql.NullString
		var summary store.DeckSummary

		err := rows.Scan(
			&deck.ID,
			&deck.OwnerUserID,
			&deck.Name,
			&deck.Slug,
			&description,
			&deck.CreatedAt,
			&summary.CardCount,
			&summary.DueCount,
		)
		if err != nil {
			return nil, MapError(err)
		}
		if description.Valid {
			deck.Description = &description.String
		}
		summary.Deck = &deck
		summaries = append(summaries, &summary)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return summaries, nil
}

// Update implements store.DeckStore.Update.
func (s *PostgresDeckStore) Update(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deck.ID))
		return err
	}

	query := `
		UPDATE decks
		SET name = $1, slug = $2, description = $3
		WHERE owner_user_id = $4 AND id = $5
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		deck.Name,
		deck.Slug,
		deck.Description,
		deck.OwnerUserID,
		deck.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrDeckSlugExists
		}
		log.Error("failed to update deck",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deck.ID))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "deck"); err != nil {
		return store.ErrDeckNotFound
	}

	log.Info("deck updated", slog.Int64("deck_id", deck.ID))
	return nil
}

// Delete implements store.DeckStore.Delete. The user_cards rows of the
// deck go with it via ON DELETE CASCADE; shared cards stay.
func (s *PostgresDeckStore) Delete(ctx context.Context, ownerUserID, deckID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM decks WHERE owner_user_id = $1 AND id = $2`,
		ownerUserID,
		deckID,
	)
	if err != nil {
		log.Error("failed to delete deck",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "deck"); err != nil {
		return store.ErrDeckNotFound
	}

	log.Info("deck deleted",
		slog.Int64("deck_id", deckID),
		slog.Int64("owner_user_id", ownerUserID))
	return nil
}


func scanDeck(row rowScanner) (*domain.Deck, error) {
	var deck domain.Deck
	var description sql.NullString

	err := row.Scan(
		&deck.ID,
		&deck.OwnerUserID,
		&deck.Name,
		&deck.Slug,
		&description,
		&deck.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		deck.Description = &description.String
	}

	return &deck, nil
}
