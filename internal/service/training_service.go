package service

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/domain/srs"
	"github.com/fluentdeck/fluentdeck-api/internal/platform/logger"
	"github.com/fluentdeck/fluentdeck-api/internal/store"
)

// PromptSide names which side of a flashcard is shown first during a
// review. It is cosmetic: the choice never influences which card is
// selected or how it is rescheduled.
type PromptSide string

const (
	PromptSideSource PromptSide = "source"
	PromptSideTarget PromptSide = "target"
)

// TrainingCard is one flashcard ready to present: the link with its
// review state, the shared card content, the deck it came from, and the
// randomly chosen prompt side.
type TrainingCard struct {
	Link       *domain.UserCardLink
	Card       *domain.Card
	DeckName   string
	PromptSide PromptSide
}

// TrainingService runs review sessions: it picks the next due card,
// fetches single cards, applies review ratings through the scheduler, and
// removes cards from decks. Every operation is owner-scoped; foreign rows
// surface as ErrCardNotFound.
type TrainingService interface {
	// NextDue returns the card to review next: among the owner's links
	// with next_review_at not after now, the earliest next_review_at
	// wins and ties break on the lowest link ID. A non-nil deckID limits
	// the session to one deck (which must exist and be owned, otherwise
	// ErrDeckNotFound). When nothing is due the result is (nil, nil).
	// Selection is read-only.
	NextDue(ctx context.Context, ownerUserID int64, deckID *int64) (*TrainingCard, error)

	// GetCard fetches one training card by link ID.
	GetCard(ctx context.Context, ownerUserID, linkID int64) (*TrainingCard, error)

	// SubmitReview applies a rating to a link and persists the
	// rescheduled state. The returned card carries the updated link.
	SubmitReview(ctx context.Context, ownerUserID, linkID int64, rating domain.Rating) (*TrainingCard, error)

	// ListDeckCards returns all cards linked into one of the owner's
	// decks with their review state, ordered by link ID.
	ListDeckCards(ctx context.Context, ownerUserID, deckID int64) ([]*TrainingCard, error)

	// RemoveCard unlinks a card from a deck. The shared catalog card
	// stays for every other deck that references it.
	RemoveCard(ctx context.Context, ownerUserID, deckID, linkID int64) error
}

type trainingServiceImpl struct {
	userCardStore store.UserCardStore
	deckService   DeckService
	scheduler     srs.Service
	logger        *slog.Logger
	nowFn         func() time.Time

	// rng picks the cosmetic prompt side. rand.Rand is not safe for
	// concurrent use, so calls serialize on rngMu.
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewTrainingService creates a new TrainingService. A nil nowFn defaults
// to time.Now and a nil rng to a time-seeded source; tests inject fixed
// ones.
func NewTrainingService(
	userCardStore store.UserCardStore,
	deckService DeckService,
	scheduler srs.Service,
	log *slog.Logger,
	nowFn func() time.Time,
	rng *rand.Rand,
) TrainingService {
	if userCardStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("userCardStore cannot be nil")
	}
	if deckService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("deckService cannot be nil")
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
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &trainingServiceImpl{
		userCardStore: userCardStore,
		deckService:   deckService,
		scheduler:     scheduler,
		logger:        log.With(slog.String("component", "training_service")),
		nowFn:         nowFn,
		rng:           rng,
	}
}

var _ TrainingService = (*trainingServiceImpl)(nil)

// NextDue implements TrainingService.NextDue.
func (s *trainingServiceImpl) NextDue(ctx context.Context, ownerUserID int64, deckID *int64) (*TrainingCard, error) {
	if deckID != nil {
		if _, err := s.deckService.GetDeck(ctx, ownerUserID, *deckID); err != nil {
			return nil, err
		}
	}

	studyCard, err := s.userCardStore.NextDue(ctx, ownerUserID, deckID, s.nowFn().UTC())
	if err != nil {
		if errors.Is(err, store.ErrUserCardNotFound) {
			return nil, nil
		}
		return nil, NewServiceError("next_due", "failed to select due card", err)
	}

	return s.toTrainingCard(studyCard), nil
}

// GetCard implements TrainingService.GetCard.
func (s *trainingServiceImpl) GetCard(ctx context.Context, ownerUserID, linkID int64) (*TrainingCard, error) {
	studyCard, err := s.userCardStore.GetStudyCard(ctx, ownerUserID, linkID)
	if err != nil {
		if errors.Is(err, store.ErrUserCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, NewServiceError("get_card", "failed to load card", err)
	}
	return s.toTrainingCard(studyCard), nil
}

// SubmitReview implements TrainingService.SubmitReview.
func (s *trainingServiceImpl) SubmitReview(ctx context.Context, ownerUserID, linkID int64, rating domain.Rating) (*TrainingCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !rating.IsValid() {
		return nil, ErrInvalidRating
	}

	studyCard, err := s.userCardStore.GetStudyCard(ctx, ownerUserID, linkID)
	if err != nil {
		if errors.Is(err, store.ErrUserCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, NewServiceError("submit_review", "failed to load card", err)
	}

	updated, err := s.scheduler.NextState(studyCard.Link, rating, s.nowFn().UTC())
	if err != nil {
		return nil, NewServiceError("submit_review", "failed to reschedule card", err)
	}

	if err := s.userCardStore.UpdateReview(ctx, updated); err != nil {
		if errors.Is(err, store.ErrUserCardNotFound) {
			return nil, ErrCardNotFound
		}
		log.Error("failed to persist review",
			slog.String("error", err.Error()),
			slog.Int64("link_id", linkID))
		return nil, NewServiceError("submit_review", "failed to save review", err)
	}

	log.Info("review submitted",
		slog.Int64("link_id", linkID),
		slog.String("rating", string(rating)),
		slog.Int("interval_minutes", updated.IntervalMinutes),
		slog.Time("next_review_at", updated.NextReviewAt))

	return &TrainingCard{
		Link:       updated,
		Card:       studyCard.Card,
		DeckName:   studyCard.DeckName,
		PromptSide: s.pickPromptSide(),
	}, nil
}

// ListDeckCards implements TrainingService.ListDeckCards.
func (s *trainingServiceImpl) ListDeckCards(ctx context.Context, ownerUserID, deckID int64) ([]*TrainingCard, error) {
	// Scope check first so an empty foreign deck is not mistaken for an
	// empty owned one.
	if _, err := s.deckService.GetDeck(ctx, ownerUserID, deckID); err != nil {
		return nil, err
	}

	studyCards, err := s.userCardStore.ListByDeck(ctx, ownerUserID, deckID)
	if err != nil {
		return nil, NewServiceError("list_deck_cards", "failed to list cards", err)
	}

	cards := make([]*TrainingCard, 0, len(studyCards))
	for _, sc := range studyCards {
		cards = append(cards, s.toTrainingCard(sc))
	}
	return cards, nil
}

// RemoveCard implements TrainingService.RemoveCard.
func (s *trainingServiceImpl) RemoveCard(ctx context.Context, ownerUserID, deckID, linkID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.userCardStore.Delete(ctx, ownerUserID, deckID, linkID); err != nil {
		if errors.Is(err, store.ErrUserCardNotFound) {
			return ErrCardNotFound
		}
		return NewServiceError("remove_card", "failed to remove card", err)
	}

	log.Info("card removed from deck",
		slog.Int64("link_id", linkID),
		slog.Int64("deck_id", deckID))
	return nil
}

func (s *trainingServiceImpl) toTrainingCard(sc *store.StudyCard) *TrainingCard {
	return &TrainingCard{
		Link:       sc.Link,
		Card:       sc.Card,
		DeckName:   sc.DeckName,
		PromptSide: s.pickPromptSide(),
	}
}

func (s *trainingServiceImpl) pickPromptSide() PromptSide {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	if s.rng.Intn(2) == 0 {
		return PromptSideSource
	}
	return PromptSideTarget
}
