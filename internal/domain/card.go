package domain

import (
	"fmt"
	"time"
)

// Card-specific validation errors. Each wraps ErrValidation so callers
// can treat any of them as invalid input.
var (
	// ErrCardSourceEmpty is returned when a card's source text is empty.
	ErrCardSourceEmpty = fmt.Errorf("%w: card source text cannot be empty", ErrValidation)

	// ErrCardTargetEmpty is returned when a card's translation is empty.
	ErrCardTargetEmpty = fmt.Errorf("%w: card target text cannot be empty", ErrValidation)

	// ErrCardExampleEmpty is returned when a card's example sentence or
	// its translation is empty.
	ErrCardExampleEmpty = fmt.Errorf("%w: card example sentence and translation cannot be empty", ErrValidation)

	// ErrCardLanguageEmpty is returned when a card is missing its source
	// or target language code.
	ErrCardLanguageEmpty = fmt.Errorf("%w: card language codes cannot be empty", ErrValidation)
)

// MaxSourceTextLength bounds the source text accepted for card generation.
// Longer input is rejected before any generator call is made.
const MaxSourceTextLength = 120

// Card is a shared, deduplicated vocabulary flashcard. At most one Card
// exists per (NormalizedSource, TargetLanguage) pair; many users may link
// the same Card into their decks. Cards are immutable after creation and
// are never deleted while any UserCardLink references them.
type Card struct {
	ID                 int64     `json:"id"`
	SourceText         string    `json:"source_text"`
	NormalizedSource   string    `json:"-"`
	TargetText         string    `json:"target_text"`
	ExampleSentence    string    `json:"example_sentence"`
	ExampleTranslation string    `json:"example_translation"`
	PartOfSpeech       *string   `json:"part_of_speech,omitempty"`
	SourceLanguage     string    `json:"source_language"`
	TargetLanguage     string    `json:"target_language"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewCard creates a Card from generator output, deriving the normalized
// catalog key from the source text. The ID is assigned by the store on
// insert. Returns an error if validation fails.
func NewCard(
	sourceText, targetText, exampleSentence, exampleTranslation string,
	partOfSpeech *string,
	sourceLanguage, targetLanguage string,
) (*Card, error) {
	card := &Card{
		SourceText:         sourceText,
		NormalizedSource:   NormalizeText(sourceText),
		TargetText:         targetText,
		ExampleSentence:    exampleSentence,
		ExampleTranslation: exampleTranslation,
		PartOfSpeech:       partOfSpeech,
		SourceLanguage:     sourceLanguage,
		TargetLanguage:     targetLanguage,
		CreatedAt:          time.Now().UTC(),
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.SourceText == "" || c.NormalizedSource == "" {
		return ErrCardSourceEmpty
	}

	if len(c.SourceText) > MaxSourceTextLength*4 {
		// NormalizedSource is bounded by the input; the *4 allows for
		// multi-byte runes counted against the rune-based input limit.
		return fmt.Errorf("%w: source text", ErrTextTooLong)
	}

	if c.TargetText == "" {
		return ErrCardTargetEmpty
	}

	if c.ExampleSentence == "" || c.ExampleTranslation == "" {
		return ErrCardExampleEmpty
	}

	if c.SourceLanguage == "" || c.TargetLanguage == "" {
		return ErrCardLanguageEmpty
	}

	return nil
}
