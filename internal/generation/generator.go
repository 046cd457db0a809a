// Package generation defines the boundary between the card pipeline and
// the external language-model service that turns a word into a
// translation with example usage. Implementations live under
// internal/platform; the pipeline only sees this interface.
package generation

import "context"

// CardContent is the validated payload returned by a generator. The
// generator's raw response is untrusted; implementations must check the
// required fields before returning one of these.
type CardContent struct {
	SourceText         string
	TargetText         string
	ExampleSentence    string
	ExampleTranslation string
	PartOfSpeech       string // optional, empty when the model omits it
}

// Generator produces flashcard content for a single word or phrase.
type Generator interface {
	// GenerateCard generates translation and example content for the
	// given source text. The call honors the context deadline; transient
	// upstream failures are retried within the implementation's bounded
	// retry budget, malformed responses are not.
	//
	// Returns:
	//   - ErrTransientFailure when retries are exhausted or the call timed out
	//   - ErrInvalidResponse when the model returned unusable content
	//   - ErrContentBlocked when safety filters rejected the input
	GenerateCard(ctx context.Context, sourceText, sourceLanguage, targetLanguage string) (*CardContent, error)
}
