package api

import (
	"context"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/service"
	"github.com/fluentdeck/fluentdeck-api/internal/store"
)

// Function-field stubs for the service interfaces. Tests set only the
// fields a handler is expected to call; hitting an unset field panics,
// which surfaces unexpected calls immediately.

type stubDeckService struct {
	createFn        func(ctx context.Context, ownerUserID int64, name string, description *string) (*domain.Deck, error)
	getFn           func(ctx context.Context, ownerUserID, deckID int64) (*domain.Deck, error)
	listFn          func(ctx context.Context, ownerUserID int64) ([]*store.DeckSummary, error)
	updateFn        func(ctx context.Context, ownerUserID, deckID int64, update service.DeckUpdate) (*domain.Deck, error)
	deleteFn        func(ctx context.Context, ownerUserID, deckID int64) error
	ensureDefaultFn func(ctx context.Context, ownerUserID int64) (*domain.Deck, error)
}

func (s *stubDeckService) CreateDeck(ctx context.Context, ownerUserID int64, name string, description *string) (*domain.Deck, error) {
	return s.createFn(ctx, ownerUserID, name, description)
}

func (s *stubDeckService) GetDeck(ctx context.Context, ownerUserID, deckID int64) (*domain.Deck, error) {
	return s.getFn(ctx, ownerUserID, deckID)
}

func (s *stubDeckService) ListDecks(ctx context.Context, ownerUserID int64) ([]*store.DeckSummary, error) {
	return s.listFn(ctx, ownerUserID)
}

func (s *stubDeckService) UpdateDeck(ctx context.Context, ownerUserID, deckID int64, update service.DeckUpdate) (*domain.Deck, error) {
	return s.updateFn(ctx, ownerUserID, deckID, update)
}

func (s *stubDeckService) DeleteDeck(ctx context.Context, ownerUserID, deckID int64) error {
	return s.deleteFn(ctx, ownerUserID, deckID)
}

func (s *stubDeckService) EnsureDefaultDeck(ctx context.Context, ownerUserID int64) (*domain.Deck, error) {
	return s.ensureDefaultFn(ctx, ownerUserID)
}

type stubCardService struct {
	addWordFn  func(ctx context.Context, ownerUserID int64, deckID *int64, sourceText string) (*service.AddWordResult, error)
	addWordsFn func(ctx context.Context, ownerUserID int64, deckID *int64, sourceTexts []string) ([]service.AddWordOutcome, error)
}

func (s *stubCardService) AddWord(ctx context.Context, ownerUserID int64, deckID *int64, sourceText string) (*service.AddWordResult, error) {
	return s.addWordFn(ctx, ownerUserID, deckID, sourceText)
}

func (s *stubCardService) AddWords(ctx context.Context, ownerUserID int64, deckID *int64, sourceTexts []string) ([]service.AddWordOutcome, error) {
	return s.addWordsFn(ctx, ownerUserID, deckID, sourceTexts)
}

type stubTrainingService struct {
	nextDueFn      func(ctx context.Context, ownerUserID int64, deckID *int64) (*service.TrainingCard, error)
	getCardFn      func(ctx context.Context, ownerUserID, linkID int64) (*service.TrainingCard, error)
	submitReviewFn func(ctx context.Context, ownerUserID, linkID int64, rating domain.Rating) (*service.TrainingCard, error)
	listFn         func(ctx context.Context, ownerUserID, deckID int64) ([]*service.TrainingCard, error)
	removeFn       func(ctx context.Context, ownerUserID, deckID, linkID int64) error
}

func (s *stubTrainingService) NextDue(ctx context.Context, ownerUserID int64, deckID *int64) (*service.TrainingCard, error) {
	return s.nextDueFn(ctx, ownerUserID, deckID)
}

func (s *stubTrainingService) GetCard(ctx context.Context, ownerUserID, linkID int64) (*service.TrainingCard, error) {
	return s.getCardFn(ctx, ownerUserID, linkID)
}

func (s *stubTrainingService) SubmitReview(ctx context.Context, ownerUserID, linkID int64, rating domain.Rating) (*service.TrainingCard, error) {
	return s.submitReviewFn(ctx, ownerUserID, linkID, rating)
}

func (s *stubTrainingService) ListDeckCards(ctx context.Context, ownerUserID, deckID int64) ([]*service.TrainingCard, error) {
	return s.listFn(ctx, ownerUserID, deckID)
}

func (s *stubTrainingService) RemoveCard(ctx context.Context, ownerUserID, deckID, linkID int64) error {
	return s.removeFn(ctx, ownerUserID, deckID, linkID)
}
