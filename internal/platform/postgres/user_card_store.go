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

// PostgresUserCardStore implements the store.UserCardStore interface using
// a PostgreSQL database as the storage backend. Every query is scoped by
// owner_user_id, so rows of other owners surface as not found.
type PostgresUserCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserCardStore creates a new PostgreSQL implementation of the
// UserCardStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, a default logger will be used.
func NewPostgresUserCardStore(db store.DBTX, log *slog.Logger) *PostgresUserCardStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &PostgresUserCardStore{
		db:     db,
		logger: log.With(slog.String("component", "user_card_store")),
	}
}

// Ensure PostgresUserCardStore implements store.UserCardStore interface
var _ store.UserCardStore = (*PostgresUserCardStore)(nil)

// studyCardColumns is the joined select list for one link with its card
// and deck name. The alias prefixes match the joins built below.
const studyCardColumns = `
	uc.id, uc.owner_user_id, uc.deck_id, uc.card_id, uc.last_rating,
	uc.interval_minutes, uc.review_count, uc.next_review_at,
	uc.last_reviewed_at, uc.created_at, uc.updated_at,
	c.id, c.source_text, c.normalized_source, c.target_text,
	c.example_sentence, c.example_translation, c.part_of_speech,
	c.source_language, c.target_language, c.created_at,
	d.name`

// Create implements store.UserCardStore.Create. The
// (owner_user_id, deck_id, card_id) unique constraint keeps a card from
// being linked into the same deck twice.
func (s *PostgresUserCardStore) Create(ctx context.Context, link *domain.UserCardLink) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := link.Validate(); err != nil {
		log.Warn("user card validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("owner_user_id", link.OwnerUserID))
		return err
	}

	query := `
		INSERT INTO user_cards (owner_user_id, deck_id, card_id, last_rating,
			interval_minutes, review_count, next_review_at, last_reviewed_at,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		link.OwnerUserID,
		link.DeckID,
		link.CardID,
		ratingValue(link.LastRating),
		link.IntervalMinutes,
		link.ReviewCount,
		link.NextReviewAt,
		link.LastReviewedAt,
		link.CreatedAt,
		link.UpdatedAt,
	).Scan(&link.ID)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("card already linked to deck",
				slog.Int64("deck_id", link.DeckID),
				slog.Int64("card_id", link.CardID))
			return MapError(err)
		}

		log.Error("failed to create user card link",
			slog.String("error", err.Error()),
			slog.Int64("owner_user_id", link.OwnerUserID))
		return MapError(err)
	}

	log.Info("user card link created",
		slog.Int64("link_id", link.ID),
		slog.Int64("deck_id", link.DeckID),
		slog.Int64("card_id", link.CardID))
	return nil
}

// GetByDeckCard implements store.UserCardStore.GetByDeckCard.
func (s *PostgresUserCardStore) GetByDeckCard(ctx context.Context, ownerUserID, deckID, cardID int64) (*domain.UserCardLink, error) {
	query := `
		SELECT id, owner_user_id, deck_id, card_id, last_rating,
			interval_minutes, review_count, next_review_at, last_reviewed_at,
			created_at, updated_at
		FROM user_cards
		WHERE owner_user_id = $1 AND deck_id = $2 AND card_id = $3
	`
	link, err := scanUserCardLink(s.db.QueryRowContext(ctx, query, ownerUserID, deckID, cardID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserCardNotFound
		}
		return nil, MapError(err)
	}
	return link, nil
}

// GetStudyCard implements store.UserCardStore.GetStudyCard.
func (s *PostgresUserCardStore) GetStudyCard(ctx context.Context, ownerUserID, linkID int64) (*store.StudyCard, error) {
	query := `
		SELECT ` + studyCardColumns + `
		FROM user_cards uc
		JOIN cards c ON c.id = uc.card_id
		JOIN decks d ON d.id = uc.deck_id
		WHERE uc.owner_user_id = $1 AND uc.id = $2
	`
	card, err := scanStudyCard(s.db.QueryRowContext(ctx, query, ownerUserID, linkID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserCardNotFound
		}
		return nil, MapError(err)
	}
	return card, nil
}

// ListByDeck implements store.UserCardStore.ListByDeck.
func (s *PostgresUserCardStore) ListByDeck(ctx context.Context, ownerUserID, deckID int64) ([]*store.StudyCard, error) {
	query := `
		SELECT ` + studyCardColumns + `
		FROM user_cards uc
		JOIN cards c ON c.id = uc.card_id
		JOIN decks d ON d.id = uc.deck_id
		WHERE uc.owner_user_id = $1 AND uc.deck_id = $2
		ORDER BY uc.id
	`
	rows, err := s.db.QueryContext(ctx, query, ownerUserID, deckID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var cards []*store.StudyCard
	for rows.Next() {
		card, err := scanStudyCard(rows)
		if err != nil {
			return nil, MapError(err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return cards, nil
}

// NextDue implements store.UserCardStore.NextDue. The ordering makes the
// selection deterministic: earliest next_review_at first, lowest link ID
// on ties. Squirrel builds the statement because the deck filter is
// optional.
func (s *PostgresUserCardStore) NextDue(ctx context.Context, ownerUserID int64, deckID *int64, now time.Time) (*store.StudyCard, error) {
	builder := sq.Select(
		"uc.id", "uc.owner_user_id", "uc.deck_id", "uc.card_id", "uc.last_rating",
		"uc.interval_minutes", "uc.review_count", "uc.next_review_at",
		"uc.last_reviewed_at", "uc.created_at", "uc.updated_at",
		"c.id", "c.source_text", "c.normalized_source", "c.target_text",
		"c.example_sentence", "c.example_translation", "c.part_of_speech",
		"c.source_language", "c.target_language", "c.created_at",
		"d.name",
	).
		From("user_cards uc").
		Join("cards c ON c.id = uc.card_id").
		Join("decks d ON d.id = uc.deck_id").
		Where(sq.Eq{"uc.owner_user_id": ownerUserID}).
		Where(sq.LtOrEq{"uc.next_review_at": now}).
		OrderBy("uc.next_review_at", "uc.id").
		Limit(1).
		PlaceholderFormat(sq.Dollar)

	if deckID != nil {
		builder = builder.Where(sq.Eq{"uc.deck_id": *deckID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	card, err := scanStudyCard(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserCardNotFound
		}
		return nil, MapError(err)
	}
	return card, nil
}

// UpdateReview implements store.UserCardStore.UpdateReview. A single
// UPDATE keyed by link ID and owner persists the scheduler output; zero
// affected rows means the link is absent or foreign.
func (s *PostgresUserCardStore) UpdateReview(ctx context.Context, link *domain.UserCardLink) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := link.Validate(); err != nil {
		log.Warn("user card validation failed during review update",
			slog.String("error", err.Error()),
			slog.Int64("link_id", link.ID))
		return err
	}

	query := `
		UPDATE user_cards
		SET last_rating = $1, interval_minutes = $2, review_count = $3,
			next_review_at = $4, last_reviewed_at = $5, updated_at = $6
		WHERE owner_user_id = $7 AND id = $8
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		ratingValue(link.LastRating),
		link.IntervalMinutes,
		link.ReviewCount,
		link.NextReviewAt,
		link.LastReviewedAt,
		link.UpdatedAt,
		link.OwnerUserID,
		link.ID,
	)
	if err != nil {
		log.Error("failed to update review state",
			slog.String("error", err.Error()),
			slog.Int64("link_id", link.ID))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "user card"); err != nil {
		return store.ErrUserCardNotFound
	}

	log.Info("review state updated",
		slog.Int64("link_id", link.ID),
		slog.Int("interval_minutes", link.IntervalMinutes),
		slog.Int("review_count", link.ReviewCount))
	return nil
}

// Delete implements store.UserCardStore.Delete.
func (s *PostgresUserCardStore) Delete(ctx context.Context, ownerUserID, deckID, linkID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM user_cards WHERE owner_user_id = $1 AND deck_id = $2 AND id = $3`,
		ownerUserID,
		deckID,
		linkID,
	)
	if err != nil {
		log.Error("failed to delete user card link",
			slog.String("error", err.Error()),
			slog.Int64("link_id", linkID))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "user card"); err != nil {
		return store.ErrUserCardNotFound
	}

	log.Info("user card link deleted",
		slog.Int64("link_id", linkID),
		slog.Int64("deck_id", deckID))
	return nil
}


// ratingValue converts an optional rating to its nullable column value.
func ratingValue(r *domain.Rating) sql.NullString {
	if r == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*r), Valid: true}
}

func scanUserCardLink(row rowScanner) (*domain.UserCardLink, error) {
	var link domain.UserCardLink
	var lastRating sql.NullString
	var lastReviewedAt sql.NullTime

	err := row.Scan(
		&link.ID,
		&link.OwnerUserID,
		&link.DeckID,
		&link.CardID,
		&lastRating,
		&link.IntervalMinutes,
		&link.ReviewCount,
		&link.NextReviewAt,
		&lastReviewedAt,
		&link.CreatedAt,
		&link.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastRating.Valid {
		rating := domain.Rating(lastRating.String)
		link.LastRating = &rating
	}
	if lastReviewedAt.Valid {
		t := lastReviewedAt.Time
		link.LastReviewedAt = &t
	}

	return &link, nil
}

func scanStudyCard(row rowScanner) (*store.StudyCard, error) {
	var link domain.UserCardLink
	var card domain.Card
	var lastRating sql.NullString
	var lastReviewedAt sql.NullTime
	var partOfSpeech sql.NullString
	var deckName string

	err := row.Scan(
		&link.ID,
		&link.OwnerUserID,
		&link.DeckID,
		&link.CardID,
		&lastRating,
		&link.IntervalMinutes,
		&link.ReviewCount,
		&link.NextReviewAt,
		&lastReviewedAt,
		&link.CreatedAt,
		&link.UpdatedAt,
		&card.ID,
		&card.SourceText,
		&card.NormalizedSource,
		&card.TargetText,
		&card.ExampleSentence,
		&card.ExampleTranslation,
		&partOfSpeech,
		&card.SourceLanguage,
		&card.TargetLanguage,
		&card.CreatedAt,
		&deckName,
	)
	if err != nil {
		return nil, err
	}

	if lastRating.Valid {
		rating := domain.Rating(lastRating.String)
		link.LastRating = &rating
	}
	if lastReviewedAt.Valid {
		t := lastReviewedAt.Time
		link.LastReviewedAt = &t
	}
	if partOfSpeech.Valid {
		card.PartOfSpeech = &partOfSpeech.String
	}

	return &store.StudyCard{
		Link:     &link,
		Card:     &card,
		DeckName: deckName,
	}, nil
}
