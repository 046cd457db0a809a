package api

import (
	"time"

	"github.com/samber/lo"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/service"
	"github.com/fluentdeck/fluentdeck-api/internal/store"
)

// Request models. Validation tags are enforced with
// go-playground/validator before any service call.

// CreateDeckRequest is the body of POST /decks.
type CreateDeckRequest struct {
	Name        string  `json:"name" validate:"required,max=80"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// UpdateDeckRequest is the body of PATCH /decks/{id}. Absent fields are
// left unchanged.
type UpdateDeckRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=80"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// AddWordsRequest is the body of POST /decks/{id}/cards.
type AddWordsRequest struct {
	Words []string `json:"words" validate:"required,min=1,max=50,dive,required,max=120"`
}

// SubmitReviewRequest is the body of POST /training/cards/{linkID}/review.
type SubmitReviewRequest struct {
	Rating string `json:"rating" validate:"required,oneof=again review easy"`
}

// Response models.

// DeckResponse represents one deck.
type DeckResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DeckSummaryResponse is a deck with its card and due counts.
type DeckSummaryResponse struct {
	DeckResponse
	CardCount int `json:"card_count"`
	DueCount  int `json:"due_count"`
}

// CardResponse represents the shared catalog content of a card.
type CardResponse struct {
	ID                 int64   `json:"id"`
	SourceText         string  `json:"source_text"`
	TargetText         string  `json:"target_text"`
	ExampleSentence    string  `json:"example_sentence"`
	ExampleTranslation string  `json:"example_translation"`
	PartOfSpeech       *string `json:"part_of_speech,omitempty"`
	SourceLanguage     string  `json:"source_language"`
	TargetLanguage     string  `json:"target_language"`
}

// ReviewStateResponse is the per-user scheduling state of a linked card.
type ReviewStateResponse struct {
	LastRating      *string    `json:"last_rating,omitempty"`
	IntervalMinutes int        `json:"interval_minutes"`
	ReviewCount     int        `json:"review_count"`
	NextReviewAt    time.Time  `json:"next_review_at"`
	LastReviewedAt  *time.Time `json:"last_reviewed_at,omitempty"`
}

// TrainingCardResponse is one flashcard: link identity, deck, content,
// scheduling state, and the side to prompt with.
type TrainingCardResponse struct {
	LinkID      int64               `json:"link_id"`
	DeckID      int64               `json:"deck_id"`
	DeckName    string              `json:"deck_name"`
	PromptSide  string              `json:"prompt_side"`
	Card        CardResponse        `json:"card"`
	ReviewState ReviewStateResponse `json:"review_state"`
}

// AddWordOutcomeResponse reports what happened to one word of a batch.
type AddWordOutcomeResponse struct {
	SourceText  string        `json:"source_text"`
	CardCreated bool          `json:"card_created"`
	LinkCreated bool          `json:"link_created"`
	LinkID      *int64        `json:"link_id,omitempty"`
	Card        *CardResponse `json:"card,omitempty"`
	Error       *string       `json:"error,omitempty"`
}

// AddWordsResponse is the body returned by POST /decks/{id}/cards.
type AddWordsResponse struct {
	DeckID   int64                    `json:"deck_id"`
	Outcomes []AddWordOutcomeResponse `json:"outcomes"`
}

func deckToResponse(deck *domain.Deck) DeckResponse {
	return DeckResponse{
		ID:          deck.ID,
		Name:        deck.Name,
		Slug:        deck.Slug,
		Description: deck.Description,
		CreatedAt:   deck.CreatedAt,
	}
}

func deckSummariesToResponse(summaries []*store.DeckSummary) []DeckSummaryResponse {
	return lo.Map(summaries, func(s *store.DeckSummary, _ int) DeckSummaryResponse {
		return DeckSummaryResponse{
			DeckResponse: deckToResponse(s.Deck),
			CardCount:    s.CardCount,
			DueCount:     s.DueCount,
		}
	})
}

func cardToResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:                 card.ID,
		SourceText:         card.SourceText,
		TargetText:         card.TargetText,
		ExampleSentence:    card.ExampleSentence,
		ExampleTranslation: card.ExampleTranslation,
		PartOfSpeech:       card.PartOfSpeech,
		SourceLanguage:     card.SourceLanguage,
		TargetLanguage:     card.TargetLanguage,
	}
}

func reviewStateToResponse(link *domain.UserCardLink) ReviewStateResponse {
	var lastRating *string
	if link.LastRating != nil {
		rating := string(*link.LastRating)
		lastRating = &rating
	}
	return ReviewStateResponse{
		LastRating:      lastRating,
		IntervalMinutes: link.IntervalMinutes,
		ReviewCount:     link.ReviewCount,
		NextReviewAt:    link.NextReviewAt,
		LastReviewedAt:  link.LastReviewedAt,
	}
}

func trainingCardToResponse(card *service.TrainingCard) TrainingCardResponse {
	return TrainingCardResponse{
		LinkID:      card.Link.ID,
		DeckID:      card.Link.DeckID,
		DeckName:    card.DeckName,
		PromptSide:  string(card.PromptSide),
		Card:        cardToResponse(card.Card),
		ReviewState: reviewStateToResponse(card.Link),
	}
}

func trainingCardsToResponse(cards []*service.TrainingCard) []TrainingCardResponse {
	return lo.Map(cards, func(c *service.TrainingCard, _ int) TrainingCardResponse {
		return trainingCardToResponse(c)
	})
}

func addWordOutcomesToResponse(outcomes []service.AddWordOutcome) []AddWordOutcomeResponse {
	return lo.Map(outcomes, func(o service.AddWordOutcome, _ int) AddWordOutcomeResponse {
		resp := AddWordOutcomeResponse{SourceText: o.SourceText}
		if o.Err != nil {
			msg := GetSafeErrorMessage(o.Err)
			resp.Error = &msg
			return resp
		}
		resp.CardCreated = o.Result.CardCreated
		resp.LinkCreated = o.Result.LinkCreated
		resp.LinkID = &o.Result.Link.ID
		card := cardToResponse(o.Result.Card)
		resp.Card = &card
		return resp
	})
}
