package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
)

// Common errors
var (
	ErrNilLink       = errors.New("user card link cannot be nil")
	ErrInvalidRating = errors.New("invalid review rating")
)

// Service computes the next review state for a user card link.
type Service interface {
	// NextState computes the state of a link after the learner reports a
	// rating at time now. It follows immutability principles by returning
	// a new instance rather than modifying the input.
	NextState(
		link *domain.UserCardLink,
		rating domain.Rating,
		now time.Time,
	) (*domain.UserCardLink, error)

	// BaselineIntervalMinutes exposes the interval assigned to new links
	// so that link creation and rescheduling stay consistent.
	BaselineIntervalMinutes() int
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a scheduling service with default parameters.
func NewDefaultService() Service {
	svc, err := NewServiceWithParams(NewDefaultParams())
	if err != nil {
		// Default params are constants validated by tests; reaching this
		// indicates a programming error.
		panic(fmt.Sprintf("srs: default params invalid: %v", err))
	}
	return svc
}

// NewServiceWithParams creates a scheduling service with custom parameters.
// Returns an error if the parameters violate the policy invariants.
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, errors.New("params cannot be nil")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{params: params}, nil
}

// NextState implements the Service interface.
func (s *defaultService) NextState(
	link *domain.UserCardLink,
	rating domain.Rating,
	now time.Time,
) (*domain.UserCardLink, error) {
	if link == nil {
		return nil, ErrNilLink
	}

	if !rating.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRating, rating)
	}

	next := nextState(link, rating, now, s.params)
	return next, nil
}

// BaselineIntervalMinutes implements the Service interface.
func (s *defaultService) BaselineIntervalMinutes() int {
	return s.params.BaselineIntervalMinutes
}

// nextState applies one rating to the link's review state.
//
// Transition rules:
//   - again:  interval resets to the baseline, review count resets to 0
//   - review: interval = max(baseline, interval * ReviewFactor), count++
//   - easy:   interval = min(cap, interval * EasyFactor), count++
//
// On every rating the next review time becomes now + interval, the last
// reviewed time becomes now, and the last rating is recorded.
func nextState(
	link *domain.UserCardLink,
	rating domain.Rating,
	now time.Time,
	params *Params,
) *domain.UserCardLink {
	next := *link

	switch rating {
	case domain.RatingAgain:
		next.IntervalMinutes = params.BaselineIntervalMinutes
		next.ReviewCount = 0
	case domain.RatingReview:
		grown := int(float64(link.IntervalMinutes) * params.ReviewFactor)
		if grown < params.BaselineIntervalMinutes {
			grown = params.BaselineIntervalMinutes
		}
		next.IntervalMinutes = grown
		next.ReviewCount = link.ReviewCount + 1
	case domain.RatingEasy:
		grown := int(float64(link.IntervalMinutes) * params.EasyFactor)
		if grown > params.MaxIntervalMinutes {
			grown = params.MaxIntervalMinutes
		}
		next.IntervalMinutes = grown
		next.ReviewCount = link.ReviewCount + 1
	}

	reviewed := now
	next.LastRating = &rating
	next.LastReviewedAt = &reviewed
	next.NextReviewAt = now.Add(time.Duration(next.IntervalMinutes) * time.Minute)
	next.UpdatedAt = now

	return &next
}
