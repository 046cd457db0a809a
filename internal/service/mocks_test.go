package service

import (
	"context"
	"sort"
	"time"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/generation"
	"github.com/fluentdeck/fluentdeck-api/internal/store"
)

// In-memory fakes for the store and generator interfaces. They implement
// the same error contracts as the postgres implementations so the
// services under test cannot tell the difference.

type fakeCardStore struct {
	nextID int64
	byID   map[int64]*domain.Card
	byKey  map[string]*domain.Card

	// createErr, when set, fails the next Create call once. Used to
	// simulate losing an insert race.
	createErr error

	// raceWinner, when set, makes the next Create call lose an insert
	// race: the winner's row lands in the catalog and Create returns
	// ErrDuplicate, exactly as the unique index behaves under
	// concurrency.
	raceWinner *domain.Card
}

func newFakeCardStore() *fakeCardStore {
	return &fakeCardStore{
		nextID: 1,
		byID:   make(map[int64]*domain.Card),
		byKey:  make(map[string]*domain.Card),
	}
}

func cardKey(normalizedSource, targetLanguage string) string {
	return normalizedSource + "|" + targetLanguage
}

func (f *fakeCardStore) Create(ctx context.Context, card *domain.Card) error {
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return err
	}
	if f.raceWinner != nil {
		winner := f.raceWinner
		f.raceWinner = nil
		f.seed(winner)
		return store.ErrDuplicate
	}
	key := cardKey(card.NormalizedSource, card.TargetLanguage)
	if _, ok := f.byKey[key]; ok {
		return store.ErrDuplicate
	}
	card.ID = f.nextID
	f.nextID++
	copied := *card
	f.byID[card.ID] = &copied
	f.byKey[key] = &copied
	return nil
}

func (f *fakeCardStore) GetByID(ctx context.Context, id int64) (*domain.Card, error) {
	card, ok := f.byID[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	copied := *card
	return &copied, nil
}

func (f *fakeCardStore) GetByNormalizedKey(ctx context.Context, normalizedSource, targetLanguage string) (*domain.Card, error) {
	card, ok := f.byKey[cardKey(normalizedSource, targetLanguage)]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	copied := *card
	return &copied, nil
}


// seed inserts a card directly, bypassing Create's race simulation.
func (f *fakeCardStore) seed(card *domain.Card) *domain.Card {
	card.ID = f.nextID
	f.nextID++
	copied := *card
	f.byID[card.ID] = &copied
	f.byKey[cardKey(card.NormalizedSource, card.TargetLanguage)] = &copied
	return &copied
}

type fakeDeckStore struct {
	nextID int64
	decks  map[int64]*domain.Deck
}

func newFakeDeckStore() *fakeDeckStore {
	return &fakeDeckStore{nextID: 1, decks: make(map[int64]*domain.Deck)}
}

func (f *fakeDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	for _, d := range f.decks {
		if d.OwnerUserID == deck.OwnerUserID && d.Slug == deck.Slug {
			return store.ErrDeckSlugExists
		}
	}
	deck.ID = f.nextID
	f.nextID++
	copied := *deck
	f.decks[deck.ID] = &copied
	return nil
}

func (f *fakeDeckStore) GetForOwner(ctx context.Context, ownerUserID, deckID int64) (*domain.Deck, error) {
	deck, ok := f.decks[deckID]
	if !ok || deck.OwnerUserID != ownerUserID {
		return nil, store.ErrDeckNotFound
	}
	copied := *deck
	return &copied, nil
}

func (f *fakeDeckStore) GetBySlug(ctx context.Context, ownerUserID int64, slug string) (*domain.Deck, error) {
	for _, d := range f.decks {
		if d.OwnerUserID == ownerUserID && d.Slug == slug {
			copied := *d
			return &copied, nil
		}
	}
	return nil, store.ErrDeckNotFound
}

func (f *fakeDeckStore) ListSummaries(ctx context.Context, ownerUserID int64, now time.Time) ([]*store.DeckSummary, error) {
	var out []*store.DeckSummary
	for _, d := range f.decks {
		if d.OwnerUserID != ownerUserID {
			continue
		}
		copied := *d
		out = append(out, &store.DeckSummary{Deck: &copied})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Deck.ID < out[j].Deck.ID })
	return out, nil
}

func (f *fakeDeckStore) Update(ctx context.Context, deck *domain.Deck) error {
	existing, ok := f.decks[deck.ID]
	if !ok || existing.OwnerUserID != deck.OwnerUserID {
		return store.ErrDeckNotFound
	}
	for _, d := range f.decks {
		if d.ID != deck.ID && d.OwnerUserID == deck.OwnerUserID && d.Slug == deck.Slug {
			return store.ErrDeckSlugExists
		}
	}
	copied := *deck
	f.decks[deck.ID] = &copied
	return nil
}

func (f *fakeDeckStore) Delete(ctx context.Context, ownerUserID, deckID int64) error {
	deck, ok := f.decks[deckID]
	if !ok || deck.OwnerUserID != ownerUserID {
		return store.ErrDeckNotFound
	}
	delete(f.decks, deckID)
	return nil
}


type fakeUserCardStore struct {
	nextID int64
	links  map[int64]*domain.UserCardLink

	cards *fakeCardStore
	decks *fakeDeckStore
}

func newFakeUserCardStore(cards *fakeCardStore, decks *fakeDeckStore) *fakeUserCardStore {
	return &fakeUserCardStore{
		nextID: 1,
		links:  make(map[int64]*domain.UserCardLink),
		cards:  cards,
		decks:  decks,
	}
}

func (f *fakeUserCardStore) Create(ctx context.Context, link *domain.UserCardLink) error {
	for _, l := range f.links {
		if l.OwnerUserID == link.OwnerUserID && l.DeckID == link.DeckID && l.CardID == link.CardID {
			return store.ErrDuplicate
		}
	}
	link.ID = f.nextID
	f.nextID++
	copied := *link
	f.links[link.ID] = &copied
	return nil
}

func (f *fakeUserCardStore) GetByDeckCard(ctx context.Context, ownerUserID, deckID, cardID int64) (*domain.UserCardLink, error) {
	for _, l := range f.links {
		if l.OwnerUserID == ownerUserID && l.DeckID == deckID && l.CardID == cardID {
			copied := *l
			return &copied, nil
		}
	}
	return nil, store.ErrUserCardNotFound
}

func (f *fakeUserCardStore) GetStudyCard(ctx context.Context, ownerUserID, linkID int64) (*store.StudyCard, error) {
	link, ok := f.links[linkID]
	if !ok || link.OwnerUserID != ownerUserID {
		return nil, store.ErrUserCardNotFound
	}
	return f.join(link)
}

func (f *fakeUserCardStore) ListByDeck(ctx context.Context, ownerUserID, deckID int64) ([]*store.StudyCard, error) {
	var links []*domain.UserCardLink
	for _, l := range f.links {
		if l.OwnerUserID == ownerUserID && l.DeckID == deckID {
			links = append(links, l)
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].ID < links[j].ID })

	out := make([]*store.StudyCard, 0, len(links))
	for _, l := range links {
		sc, err := f.join(l)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

func (f *fakeUserCardStore) NextDue(ctx context.Context, ownerUserID int64, deckID *int64, now time.Time) (*store.StudyCard, error) {
	var due []*domain.UserCardLink
	for _, l := range f.links {
		if l.OwnerUserID != ownerUserID {
			continue
		}
		if deckID != nil && l.DeckID != *deckID {
			continue
		}
		if l.NextReviewAt.After(now) {
			continue
		}
		due = append(due, l)
	}
	if len(due) == 0 {
		return nil, store.ErrUserCardNotFound
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].NextReviewAt.Equal(due[j].NextReviewAt) {
			return due[i].NextReviewAt.Before(due[j].NextReviewAt)
		}
		return due[i].ID < due[j].ID
	})
	return f.join(due[0])
}

func (f *fakeUserCardStore) UpdateReview(ctx context.Context, link *domain.UserCardLink) error {
	existing, ok := f.links[link.ID]
	if !ok || existing.OwnerUserID != link.OwnerUserID {
		return store.ErrUserCardNotFound
	}
	copied := *link
	f.links[link.ID] = &copied
	return nil
}

func (f *fakeUserCardStore) Delete(ctx context.Context, ownerUserID, deckID, linkID int64) error {
	link, ok := f.links[linkID]
	if !ok || link.OwnerUserID != ownerUserID || link.DeckID != deckID {
		return store.ErrUserCardNotFound
	}
	delete(f.links, linkID)
	return nil
}


func (f *fakeUserCardStore) join(link *domain.UserCardLink) (*store.StudyCard, error) {
	card, ok := f.cards.byID[link.CardID]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	deckName := ""
	if deck, ok := f.decks.decks[link.DeckID]; ok {
		deckName = deck.Name
	}
	linkCopy := *link
	cardCopy := *card
	return &store.StudyCard{Link: &linkCopy, Card: &cardCopy, DeckName: deckName}, nil
}

type fakeUserStore struct {
	users map[int64]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*domain.User)}
}

func (f *fakeUserStore) Upsert(ctx context.Context, user *domain.User) error {
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *user
	return &copied, nil
}


type fakeGenerator struct {
	calls   int
	lastReq string
	content *generation.CardContent
	err     error
}

func (f *fakeGenerator) GenerateCard(ctx context.Context, sourceText, sourceLanguage, targetLanguage string) (*generation.CardContent, error) {
	f.calls++
	f.lastReq = sourceText
	if f.err != nil {
		return nil, f.err
	}
	if f.content != nil {
		copied := *f.content
		return &copied, nil
	}
	return &generation.CardContent{
		SourceText:         sourceText,
		TargetText:         "перевод",
		ExampleSentence:    "An example with " + sourceText + ".",
		ExampleTranslation: "Пример предложения.",
		PartOfSpeech:       "noun",
	}, nil
}
