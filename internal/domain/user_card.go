package domain

import (
	"fmt"
	"time"
)

// Rating is the outcome a learner reports after reviewing a card.
type Rating string

// Possible rating values, in increasing order of recall confidence.
const (
	RatingAgain  Rating = "again"
	RatingReview Rating = "review"
	RatingEasy   Rating = "easy"
)

// IsValid reports whether the rating is one of the recognized values.
func (r Rating) IsValid() bool {
	switch r {
	case RatingAgain, RatingReview, RatingEasy:
		return true
	default:
		return false
	}
}

// ParseRating converts a raw string into a Rating.
// Returns ErrInvalidRating for unrecognized values.
func ParseRating(raw string) (Rating, error) {
	r := Rating(raw)
	if !r.IsValid() {
		return "", ErrInvalidRating
	}
	return r, nil
}

// UserCardLink validation errors, each wrapping ErrValidation.
var (
	ErrLinkOwnerEmpty      = fmt.Errorf("%w: user card link owner cannot be empty", ErrValidation)
	ErrLinkDeckEmpty       = fmt.Errorf("%w: user card link deck cannot be empty", ErrValidation)
	ErrLinkCardEmpty       = fmt.Errorf("%w: user card link card cannot be empty", ErrValidation)
	ErrNegativeInterval    = fmt.Errorf("%w: interval must be greater than or equal to 0", ErrValidation)
	ErrNegativeReviewCount = fmt.Errorf("%w: review count must be greater than or equal to 0", ErrValidation)
)

// UserCardLink binds one shared Card into one of a user's decks and holds
// the review state the scheduler operates on. The triple
// (OwnerUserID, DeckID, CardID) is unique: a user cannot link the same
// card twice into the same deck. Only the review scheduler mutates the
// interval fields.
type UserCardLink struct {
	ID              int64      `json:"id"`
	OwnerUserID     int64      `json:"owner_user_id"`
	DeckID          int64      `json:"deck_id"`
	CardID          int64      `json:"card_id"`
	LastRating      *Rating    `json:"last_rating,omitempty"`
	IntervalMinutes int        `json:"interval_minutes"`
	ReviewCount     int        `json:"review_count"`
	NextReviewAt    time.Time  `json:"next_review_at"`
	LastReviewedAt  *time.Time `json:"last_reviewed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewUserCardLink creates a link that is immediately due: the interval is
// the provided baseline, the review count is zero, and the next review is
// now. The ID is assigned by the store on insert.
func NewUserCardLink(
	ownerUserID, deckID, cardID int64,
	baselineIntervalMinutes int,
	now time.Time,
) (*UserCardLink, error) {
	link := &UserCardLink{
		OwnerUserID:     ownerUserID,
		DeckID:          deckID,
		CardID:          cardID,
		LastRating:      nil,
		IntervalMinutes: baselineIntervalMinutes,
		ReviewCount:     0,
		NextReviewAt:    now,
		LastReviewedAt:  nil,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := link.Validate(); err != nil {
		return nil, err
	}

	return link, nil
}

// Validate checks if the UserCardLink has valid data.
func (l *UserCardLink) Validate() error {
	if l.OwnerUserID == 0 {
		return ErrLinkOwnerEmpty
	}

	if l.DeckID == 0 {
		return ErrLinkDeckEmpty
	}

	if l.CardID == 0 {
		return ErrLinkCardEmpty
	}

	if l.IntervalMinutes < 0 {
		return ErrNegativeInterval
	}

	if l.ReviewCount < 0 {
		return ErrNegativeReviewCount
	}

	if l.LastRating != nil && !l.LastRating.IsValid() {
		return ErrInvalidRating
	}

	return nil
}
