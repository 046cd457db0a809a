package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/domain/srs"
	"github.com/fluentdeck/fluentdeck-api/internal/generation"
	"github.com/fluentdeck/fluentdeck-api/internal/platform/logger"
	"github.com/fluentdeck/fluentdeck-api/internal/store"
)

// AddWordResult reports what one AddWord call did: the catalog card the
// word resolved to, the link placed in the deck, and whether either row
// was newly created or reused.
type AddWordResult struct {
	Card        *domain.Card
	Link        *domain.UserCardLink
	Deck        *domain.Deck
	CardCreated bool
	LinkCreated bool
}

// AddWordOutcome is one entry of a batch AddWords call. Err is set when
// that word failed; the rest of the batch is unaffected.
type AddWordOutcome struct {
	SourceText string
	Result     *AddWordResult
	Err        error
}

// CardService runs the word-to-flashcard pipeline: normalize the input,
// reuse the shared catalog when the word is already known, otherwise
// generate content and insert it, then link the card into the caller's
// deck with a fresh review state.
type CardService interface {
	// AddWord adds one word to a deck. A nil deckID targets the owner's
	// default deck, which is created on first use. Adding a word that is
	// already linked to the deck reuses the existing link and never
	// resets its review state.
	AddWord(ctx context.Context, ownerUserID int64, deckID *int64, sourceText string) (*AddWordResult, error)

	// AddWords adds a batch of words to a deck. Words are processed in
	// order and independently; one failed word does not abort the rest.
	AddWords(ctx context.Context, ownerUserID int64, deckID *int64, sourceTexts []string) ([]AddWordOutcome, error)
}

type cardServiceImpl struct {
	cardStore      store.CardStore
	userCardStore  store.UserCardStore
	deckService    DeckService
	generator      generation.Generator
	scheduler      srs.Service
	sourceLanguage string
	targetLanguage string
	logger         *slog.Logger
	nowFn          func() time.Time
}

// NewCardService creates a new CardService. The source and target
// languages are fixed per deployment and flow into every generation
// request. A nil nowFn defaults to time.Now.
func NewCardService(
	cardStore store.CardStore,
	userCardStore store.UserCardStore,
	deckService DeckService,
	generator generation.Generator,
	scheduler srs.Service,
	sourceLanguage, targetLanguage string,
	log *slog.Logger,
	nowFn func() time.Time,
) CardService {
	if cardStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardStore cannot be nil")
	}
	if userCardStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("userCardStore cannot be nil")
	}
	if deckService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("deckService cannot be nil")
	}
	if generator == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("generator cannot be nil")
	}
	if scheduler == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("scheduler cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	if nowFn == nil {
		nowFn = time.Now
	}

	return &cardServiceImpl{
		cardStore:      cardStore,
		userCardStore:  userCardStore,
		deckService:    deckService,
		generator:      generator,
		scheduler:      scheduler,
		sourceLanguage: sourceLanguage,
		targetLanguage: targetLanguage,
		logger:         log.With(slog.String("component", "card_service")),
		nowFn:          nowFn,
	}
}

var _ CardService = (*cardServiceImpl)(nil)

// AddWord implements CardService.AddWord.
func (s *cardServiceImpl) AddWord(ctx context.Context, ownerUserID int64, deckID *int64, sourceText string) (*AddWordResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sourceText = strings.TrimSpace(sourceText)
	normalized := domain.NormalizeText(sourceText)
	if normalized == "" {
		return nil, domain.ErrEmptyText
	}
	if len([]rune(sourceText)) > domain.MaxSourceTextLength {
		return nil, domain.ErrTextTooLong
	}

	deck, err := s.resolveDeck(ctx, ownerUserID, deckID)
	if err != nil {
		return nil, err
	}

	card, cardCreated, err := s.resolveCard(ctx, sourceText, normalized)
	if err != nil {
		return nil, err
	}

	link, linkCreated, err := s.linkCard(ctx, ownerUserID, deck.ID, card.ID)
	if err != nil {
		return nil, err
	}

	log.Info("word added",
		slog.Int64("owner_user_id", ownerUserID),
		slog.Int64("deck_id", deck.ID),
		slog.Int64("card_id", card.ID),
		slog.Bool("card_created", cardCreated),
		slog.Bool("link_created", linkCreated))

	return &AddWordResult{
		Card:        card,
		Link:        link,
		Deck:        deck,
		CardCreated: cardCreated,
		LinkCreated: linkCreated,
	}, nil
}

// AddWords implements CardService.AddWords.
func (s *cardServiceImpl) AddWords(ctx context.Context, ownerUserID int64, deckID *int64, sourceTexts []string) ([]AddWordOutcome, error) {
	// Resolve the deck once so a missing deck fails the whole batch
	// instead of repeating per word.
	deck, err := s.resolveDeck(ctx, ownerUserID, deckID)
	if err != nil {
		return nil, err
	}

	outcomes := make([]AddWordOutcome, 0, len(sourceTexts))
	for _, text := range sourceTexts {
		result, err := s.AddWord(ctx, ownerUserID, &deck.ID, text)
		outcomes = append(outcomes, AddWordOutcome{
			SourceText: strings.TrimSpace(text),
			Result:     result,
			Err:        err,
		})
	}
	return outcomes, nil
}

func (s *cardServiceImpl) resolveDeck(ctx context.Context, ownerUserID int64, deckID *int64) (*domain.Deck, error) {
	if deckID == nil {
		return s.deckService.EnsureDefaultDeck(ctx, ownerUserID)
	}
	return s.deckService.GetDeck(ctx, ownerUserID, *deckID)
}

// resolveCard returns the catalog card for the normalized key, generating
// and inserting it on a miss. Two concurrent calls for a new word both
// generate, but the unique constraint lets exactly one insert win; the
// loser discards its own content and re-reads the winner's row.
func (s *cardServiceImpl) resolveCard(ctx context.Context, sourceText, normalized string) (*domain.Card, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cardStore.GetByNormalizedKey(ctx, normalized, s.targetLanguage)
	if err == nil {
		return card, false, nil
	}
	if !errors.Is(err, store.ErrCardNotFound) {
		return nil, false, NewServiceError("add_word", "failed to look up card", err)
	}

	content, err := s.generator.GenerateCard(ctx, sourceText, s.sourceLanguage, s.targetLanguage)
	if err != nil {
		log.Warn("card generation failed",
			slog.String("error", err.Error()),
			slog.String("normalized_source", normalized))
		return nil, false, err
	}

	// The catalog key derives from the learner's input, not from the
	// model's echo of it, so the stored row always matches the lookup.
	card, err = domain.NewCard(
		sourceText,
		content.TargetText,
		content.ExampleSentence,
		content.ExampleTranslation,
		optionalString(content.PartOfSpeech),
		s.sourceLanguage,
		s.targetLanguage,
	)
	if err != nil {
		return nil, false, err
	}

	err = s.cardStore.Create(ctx, card)
	if err == nil {
		return card, true, nil
	}
	if errors.Is(err, store.ErrDuplicate) {
		winner, readErr := s.cardStore.GetByNormalizedKey(ctx, normalized, s.targetLanguage)
		if readErr != nil {
			return nil, false, NewServiceError("add_word", "failed to re-read card after insert race", readErr)
		}
		return winner, false, nil
	}
	return nil, false, NewServiceError("add_word", "failed to save card", err)
}

// linkCard places the card in the deck with a fresh, immediately due
// review state. An existing link is reused untouched.
func (s *cardServiceImpl) linkCard(ctx context.Context, ownerUserID, deckID, cardID int64) (*domain.UserCardLink, bool, error) {
	now := s.nowFn().UTC()

	link, err := domain.NewUserCardLink(ownerUserID, deckID, cardID, s.scheduler.BaselineIntervalMinutes(), now)
	if err != nil {
		return nil, false, err
	}

	err = s.userCardStore.Create(ctx, link)
	if err == nil {
		return link, true, nil
	}
	if errors.Is(err, store.ErrDuplicate) {
		existing, readErr := s.userCardStore.GetByDeckCard(ctx, ownerUserID, deckID, cardID)
		if readErr != nil {
			return nil, false, NewServiceError("add_word", "failed to re-read existing link", readErr)
		}
		return existing, false, nil
	}
	return nil, false, NewServiceError("add_word", "failed to save link", err)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
