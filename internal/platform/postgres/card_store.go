package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/platform/logger"
	"github.com/fluentdeck/fluentdeck-api/internal/store"
)

// PostgresCardStore implements the store.CardStore interface using a PostgreSQL
// database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore
// interface. It accepts a database connection or transaction managed by
// the caller. If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, log *slog.Logger) *PostgresCardStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: log.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// cardColumns is the select list shared by every card query.
const cardColumns = `id, source_text, normalized_source, target_text,
	example_sentence, example_translation, part_of_speech,
	source_language, target_language, created_at`

// Create implements store.CardStore.Create.
// The cards_normalized_source_target_language_key unique index is the
// dedup mechanism: a lost insert race surfaces as store.ErrDuplicate and
// the caller re-reads the winning row.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("normalized_source", card.NormalizedSource))
		return err
	}

	query := `
		INSERT INTO cards (source_text, normalized_source, target_text,
			example_sentence, example_translation, part_of_speech,
			source_language, target_language, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		card.SourceText,
		card.NormalizedSource,
		card.TargetText,
		card.ExampleSentence,
		card.ExampleTranslation,
		card.PartOfSpeech,
		card.SourceLanguage,
		card.TargetLanguage,
		card.CreatedAt,
	).Scan(&card.ID)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("lost card insert race",
				slog.String("normalized_source", card.NormalizedSource),
				slog.String("target_language", card.TargetLanguage))
			return MapError(err)
		}

		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("normalized_source", card.NormalizedSource))
		return MapError(err)
	}

	log.Info("card created",
		slog.Int64("card_id", card.ID),
		slog.String("normalized_source", card.NormalizedSource),
		slog.String("target_language", card.TargetLanguage))
	return nil
}

// GetByID implements store.CardStore.GetByID.
func (s *PostgresCardStore) GetByID(ctx context.Context, id int64) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`
	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		return nil, MapError(err)
	}
	return card, nil
}

// GetByNormalizedKey implements store.CardStore.GetByNormalizedKey.
func (s *PostgresCardStore) GetByNormalizedKey(
	ctx context.Context,
	normalizedSource, targetLanguage string,
) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + `
		FROM cards
		WHERE normalized_source = $1 AND target_language = $2`
	card, err := scanCard(s.db.QueryRowContext(ctx, query, normalizedSource, targetLanguage))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		return nil, MapError(err)
	}
	return card, nil
}


// rowScanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanCard reads one card row, converting nullable columns.
func scanCard(row rowScanner) (*domain.Card, error) {
	var card domain.Card
	var partOfSpeech sql.NullString

	err := row.Scan(
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
	)
	if err != nil {
		return nil, err
	}

	if partOfSpeech.Valid {
		card.PartOfSpeech = &partOfSpeech.String
	}

	return &card, nil
}
