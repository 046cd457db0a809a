package generation

import "errors"

// Common errors returned by generator implementations.
var (
	// ErrGenerationFailed is returned when card generation fails for a
	// reason not covered by a more specific error.
	ErrGenerationFailed = errors.New("failed to generate card content")

	// ErrInvalidResponse is returned when the model response cannot be
	// parsed or is missing required fields. Never retried.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model blocks the request due
	// to safety filters. Never retried.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary upstream errors after
	// the retry budget is exhausted, including timeouts.
	ErrTransientFailure = errors.New("transient error during card generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
