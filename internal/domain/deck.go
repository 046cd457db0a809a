package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Deck-specific validation errors. Each wraps ErrValidation so callers
// can treat any of them as invalid input.
var (
	// ErrDeckNameEmpty is returned when a deck name is empty after trimming.
	ErrDeckNameEmpty = fmt.Errorf("%w: deck name cannot be empty", ErrValidation)

	// ErrDeckOwnerEmpty is returned when a deck has no owner.
	ErrDeckOwnerEmpty = fmt.Errorf("%w: deck owner cannot be empty", ErrValidation)
)

// MaxDeckNameLength bounds user-supplied deck names.
const MaxDeckNameLength = 80

// DefaultDeckName is the name of the deck created on demand when a user
// adds a word without choosing a deck.
const DefaultDeckName = "My Words"

// Deck is a named, user-owned grouping of cards. The slug is unique per
// owner and derived from the name. Deleting a deck removes its
// UserCardLinks but never the shared Card rows they reference.
type Deck struct {
	ID          int64     `json:"id"`
	OwnerUserID int64     `json:"owner_user_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewDeck creates a Deck owned by the given user, deriving the slug from
// the name. The ID is assigned by the store on insert.
func NewDeck(ownerUserID int64, name string, description *string) (*Deck, error) {
	deck := &Deck{
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(name),
		Slug:        Slugify(name),
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
func (d *Deck) Validate() error {
	if d.OwnerUserID == 0 {
		return ErrDeckOwnerEmpty
	}

	if d.Name == "" || d.Slug == "" {
		return ErrDeckNameEmpty
	}

	if len([]rune(d.Name)) > MaxDeckNameLength {
		return ErrTextTooLong
	}

	return nil
}

// Rename updates the deck name and rederives the slug.
func (d *Deck) Rename(name string) error {
	trimmed := strings.TrimSpace(name)
	slug := Slugify(name)
	if trimmed == "" || slug == "" {
		return ErrDeckNameEmpty
	}
	if len([]rune(trimmed)) > MaxDeckNameLength {
		return ErrTextTooLong
	}

	d.Name = trimmed
	d.Slug = slug
	return nil
}

// Slugify converts a deck name into its URL-safe slug: lower-cased with
// letter/digit runs joined by single hyphens. Non-alphanumeric runes act
// as separators.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
