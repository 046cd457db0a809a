// Package srs implements the spaced-repetition scheduling policy. The
// policy is a pure, total function of (current review state, rating, now);
// it never touches storage or the wall clock on its own.
package srs

import (
	"errors"
	"fmt"
)

// Parameter validation errors
var (
	ErrInvalidBaseline = errors.New("baseline interval must be at least 1 minute")
	ErrInvalidFactor   = errors.New("easy factor must exceed review factor, and both must exceed 1")
	ErrInvalidMax      = errors.New("max interval must be at least the baseline interval")
)

// Params defines the configurable constants of the scheduling policy.
// The growth invariant EasyFactor > ReviewFactor > 1 guarantees that an
// "easy" rating never schedules a card sooner than a "review" rating.
type Params struct {
	// BaselineIntervalMinutes is the interval assigned to new links and
	// restored on an "again" rating.
	BaselineIntervalMinutes int

	// ReviewFactor multiplies the interval on a "review" rating.
	ReviewFactor float64

	// EasyFactor multiplies the interval on an "easy" rating.
	EasyFactor float64

	// MaxIntervalMinutes caps interval growth.
	MaxIntervalMinutes int
}

// NewDefaultParams returns the default scheduling constants: a 10 minute
// baseline, doubling on "review", tripling on "easy", capped at 90 days.
func NewDefaultParams() *Params {
	return &Params{
		BaselineIntervalMinutes: 10,
		ReviewFactor:            2.0,
		EasyFactor:              3.0,
		MaxIntervalMinutes:      90 * 24 * 60,
	}
}

// Validate checks the parameter invariants.
func (p *Params) Validate() error {
	if p.BaselineIntervalMinutes < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidBaseline, p.BaselineIntervalMinutes)
	}

	if p.ReviewFactor <= 1 || p.EasyFactor <= p.ReviewFactor {
		return fmt.Errorf("%w: review=%v easy=%v", ErrInvalidFactor, p.ReviewFactor, p.EasyFactor)
	}

	if p.MaxIntervalMinutes < p.BaselineIntervalMinutes {
		return fmt.Errorf("%w: max=%d baseline=%d",
			ErrInvalidMax, p.MaxIntervalMinutes, p.BaselineIntervalMinutes)
	}

	return nil
}
