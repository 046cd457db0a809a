package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/platform/logger"
	"github.com/fluentdeck/fluentdeck-api/internal/store"
)

// DeckUpdate carries the optional fields of a deck update. Nil means
// leave the field unchanged.
type DeckUpdate struct {
	Name        *string
	Description *string
}

// DeckService provides deck management operations. Every operation is
// scoped to the calling owner; decks of other users are reported as
// ErrDeckNotFound.
type DeckService interface {
	// CreateDeck creates a new deck for the owner.
	// Returns ErrDeckNameTaken if the owner already has a deck whose name
	// slugifies to the same value.
	CreateDeck(ctx context.Context, ownerUserID int64, name string, description *string) (*domain.Deck, error)

	// GetDeck retrieves one of the owner's decks.
	GetDeck(ctx context.Context, ownerUserID, deckID int64) (*domain.Deck, error)

	// ListDecks returns the owner's decks with card and due counts.
	ListDecks(ctx context.Context, ownerUserID int64) ([]*store.DeckSummary, error)

	// UpdateDeck applies a partial update to one of the owner's decks.
	UpdateDeck(ctx context.Context, ownerUserID, deckID int64, update DeckUpdate) (*domain.Deck, error)

	// DeleteDeck removes one of the owner's decks along with its card
	// links. Shared catalog cards are never touched.
	DeleteDeck(ctx context.Context, ownerUserID, deckID int64) error

	// EnsureDefaultDeck returns the owner's default deck, creating it on
	// first use. Words added without an explicit deck land here.
	EnsureDefaultDeck(ctx context.Context, ownerUserID int64) (*domain.Deck, error)
}

type deckServiceImpl struct {
	deckStore store.DeckStore
	logger    *slog.Logger
	nowFn     func() time.Time
}

// NewDeckService creates a new DeckService. A nil nowFn defaults to
// time.Now; tests inject a fixed clock.
func NewDeckService(deckStore store.DeckStore, log *slog.Logger, nowFn func() time.Time) DeckService {
	if deckStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("deckStore cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	if nowFn == nil {
		nowFn = time.Now
	}

	return &deckServiceImpl{
		deckStore: deckStore,
		logger:    log.With(slog.String("component", "deck_service")),
		nowFn:     nowFn,
	}
}

var _ DeckService = (*deckServiceImpl)(nil)

// CreateDeck implements DeckService.CreateDeck.
func (s *deckServiceImpl) CreateDeck(ctx context.Context, ownerUserID int64, name string, description *string) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := domain.NewDeck(ownerUserID, name, description)
	if err != nil {
		return nil, err
	}

	if err := s.deckStore.Create(ctx, deck); err != nil {
		if errors.Is(err, store.ErrDeckSlugExists) {
			return nil, ErrDeckNameTaken
		}
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.Int64("owner_user_id", ownerUserID))
		return nil, NewServiceError("create_deck", "failed to save deck", err)
	}

	return deck, nil
}

// GetDeck implements DeckService.GetDeck.
func (s *deckServiceImpl) GetDeck(ctx context.Context, ownerUserID, deckID int64) (*domain.Deck, error) {
	deck, err := s.deckStore.GetForOwner(ctx, ownerUserID, deckID)
	if err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, NewServiceError("get_deck", "failed to load deck", err)
	}
	return deck, nil
}

// ListDecks implements DeckService.ListDecks.
func (s *deckServiceImpl) ListDecks(ctx context.Context, ownerUserID int64) ([]*store.DeckSummary, error) {
	summaries, err := s.deckStore.ListSummaries(ctx, ownerUserID, s.nowFn().UTC())
	if err != nil {
		return nil, NewServiceError("list_decks", "failed to list decks", err)
	}
	return summaries, nil
}

// UpdateDeck implements DeckService.UpdateDeck. The deck is loaded
// owner-scoped first, so a foreign deck surfaces as not found before any
// write is attempted.
func (s *deckServiceImpl) UpdateDeck(ctx context.Context, ownerUserID, deckID int64, update DeckUpdate) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.GetDeck(ctx, ownerUserID, deckID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		if err := deck.Rename(*update.Name); err != nil {
			return nil, err
		}
	}
	if update.Description != nil {
		deck.Description = update.Description
	}

	if err := s.deckStore.Update(ctx, deck); err != nil {
		switch {
		case errors.Is(err, store.ErrDeckSlugExists):
			return nil, ErrDeckNameTaken
		case errors.Is(err, store.ErrDeckNotFound):
			return nil, ErrDeckNotFound
		}
		log.Error("failed to update deck",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return nil, NewServiceError("update_deck", "failed to save deck", err)
	}

	return deck, nil
}

// DeleteDeck implements DeckService.DeleteDeck.
func (s *deckServiceImpl) DeleteDeck(ctx context.Context, ownerUserID, deckID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.deckStore.Delete(ctx, ownerUserID, deckID); err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return ErrDeckNotFound
		}
		log.Error("failed to delete deck",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return NewServiceError("delete_deck", "failed to delete deck", err)
	}

	log.Info("deck deleted",
		slog.Int64("deck_id", deckID),
		slog.Int64("owner_user_id", ownerUserID))
	return nil
}

// EnsureDefaultDeck implements DeckService.EnsureDefaultDeck. Creation
// races resolve on the owner+slug unique constraint: the loser re-reads
// the winning row.
func (s *deckServiceImpl) EnsureDefaultDeck(ctx context.Context, ownerUserID int64) (*domain.Deck, error) {
	slug := domain.Slugify(domain.DefaultDeckName)

	deck, err := s.deckStore.GetBySlug(ctx, ownerUserID, slug)
	if err == nil {
		return deck, nil
	}
	if !errors.Is(err, store.ErrDeckNotFound) {
		return nil, NewServiceError("ensure_default_deck", "failed to load default deck", err)
	}

	deck, err = s.CreateDeck(ctx, ownerUserID, domain.DefaultDeckName, nil)
	if err == nil {
		return deck, nil
	}
	if errors.Is(err, ErrDeckNameTaken) {
		return s.deckStore.GetBySlug(ctx, ownerUserID, slug)
	}
	return nil, err
}
