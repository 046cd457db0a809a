package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluentdeck/fluentdeck-api/internal/api/shared"
	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/service"
	"github.com/fluentdeck/fluentdeck-api/internal/store"
)

const testUserID int64 = 7

func authedRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	return req.WithContext(shared.WithUserID(req.Context(), testUserID))
}

func anonymousRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

func testDeck() *domain.Deck {
	return &domain.Deck{
		ID:          1,
		OwnerUserID: testUserID,
		Name:        "Travel",
		Slug:        "travel",
		CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func deckRouter(deckSvc service.DeckService, cardSvc service.CardService, trainSvc service.TrainingService) chi.Router {
	r := chi.NewRouter()
	NewDeckHandler(deckSvc, cardSvc, trainSvc, nil).RegisterRoutes(r)
	return r
}

func TestCreateDeckHandler(t *testing.T) {
	deckSvc := &stubDeckService{
		createFn: func(ctx context.Context, owner int64, name string, description *string) (*domain.Deck, error) {
			assert.Equal(t, testUserID, owner)
			assert.Equal(t, "Travel", name)
			return testDeck(), nil
		},
	}
	router := deckRouter(deckSvc, &stubCardService{}, &stubTrainingService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/decks", CreateDeckRequest{Name: "Travel"}))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp DeckResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "travel", resp.Slug)
}

func TestCreateDeckHandler_WhitespaceOnlyNameRejected(t *testing.T) {
	// A whitespace-only name survives the request validator's required
	// tag and must still come back as a client error, not a 500.
	deckSvc := &stubDeckService{
		createFn: func(ctx context.Context, owner int64, name string, description *string) (*domain.Deck, error) {
			return domain.NewDeck(owner, name, description)
		},
	}
	router := deckRouter(deckSvc, &stubCardService{}, &stubTrainingService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/decks", CreateDeckRequest{Name: "   "}))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp shared.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Deck name cannot be empty", resp.Error)
}

func TestCreateDeckHandler_ValidationFailures(t *testing.T) {
	router := deckRouter(&stubDeckService{}, &stubCardService{}, &stubTrainingService{})

	t.Run("missing_name", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/decks", CreateDeckRequest{}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed_body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/decks", bytes.NewBufferString("{"))
		req = req.WithContext(shared.WithUserID(req.Context(), testUserID))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, anonymousRequest(http.MethodPost, "/decks"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestCreateDeckHandler_NameConflict(t *testing.T) {
	deckSvc := &stubDeckService{
		createFn: func(ctx context.Context, owner int64, name string, description *string) (*domain.Deck, error) {
			return nil, service.ErrDeckNameTaken
		},
	}
	router := deckRouter(deckSvc, &stubCardService{}, &stubTrainingService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/decks", CreateDeckRequest{Name: "Travel"}))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListDecksHandler(t *testing.T) {
	deckSvc := &stubDeckService{
		listFn: func(ctx context.Context, owner int64) ([]*store.DeckSummary, error) {
			return []*store.DeckSummary{
				{Deck: testDeck(), CardCount: 5, DueCount: 2},
			}, nil
		},
	}
	router := deckRouter(deckSvc, &stubCardService{}, &stubTrainingService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/decks", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []DeckSummaryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, 5, resp[0].CardCount)
	assert.Equal(t, 2, resp[0].DueCount)
}

func TestGetDeckHandler_NotFound(t *testing.T) {
	deckSvc := &stubDeckService{
		getFn: func(ctx context.Context, owner, deckID int64) (*domain.Deck, error) {
			return nil, service.ErrDeckNotFound
		},
	}
	router := deckRouter(deckSvc, &stubCardService{}, &stubTrainingService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/decks/99", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp shared.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Deck not found", resp.Error)
}

func TestGetDeckHandler_InvalidID(t *testing.T) {
	router := deckRouter(&stubDeckService{}, &stubCardService{}, &stubTrainingService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/decks/not-a-number", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateDeckHandler(t *testing.T) {
	newName := "Business"
	deckSvc := &stubDeckService{
		updateFn: func(ctx context.Context, owner, deckID int64, update service.DeckUpdate) (*domain.Deck, error) {
			require.NotNil(t, update.Name)
			assert.Equal(t, "Business", *update.Name)
			assert.Nil(t, update.Description)
			deck := testDeck()
			deck.Name = *update.Name
			deck.Slug = "business"
			return deck, nil
		},
	}
	router := deckRouter(deckSvc, &stubCardService{}, &stubTrainingService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, http.MethodPatch, "/decks/1", UpdateDeckRequest{Name: &newName}))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DeckResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Business", resp.Name)
}

func TestDeleteDeckHandler(t *testing.T) {
	deleted := false
	deckSvc := &stubDeckService{
		deleteFn: func(ctx context.Context, owner, deckID int64) error {
			assert.Equal(t, int64(1), deckID)
			deleted = true
			return nil
		},
	}
	router := deckRouter(deckSvc, &stubCardService{}, &stubTrainingService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, http.MethodDelete, "/decks/1", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, deleted)
}

func TestAddWordsHandler(t *testing.T) {
	card := &domain.Card{
		ID:                 3,
		SourceText:         "apple",
		NormalizedSource:   "apple",
		TargetText:         "яблоко",
		ExampleSentence:    "Eat an apple.",
		ExampleTranslation: "Съешь яблоко.",
		SourceLanguage:     "en",
		TargetLanguage:     "ru",
	}
	link := &domain.UserCardLink{ID: 11, OwnerUserID: testUserID, DeckID: 1, CardID: 3, IntervalMinutes: 10}

	cardSvc := &stubCardService{
		addWordsFn: func(ctx context.Context, owner int64, deckID *int64, words []string) ([]service.AddWordOutcome, error) {
			require.NotNil(t, deckID)
			assert.Equal(t, int64(1), *deckID)
			return []service.AddWordOutcome{
				{
					SourceText: "apple",
					Result:     &service.AddWordResult{Card: card, Link: link, CardCreated: true, LinkCreated: true},
				},
				{SourceText: "unübersetzbar", Err: domain.ErrTextTooLong},
			}, nil
		},
	}
	router := deckRouter(&stubDeckService{}, cardSvc, &stubTrainingService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/decks/1/cards", AddWordsRequest{Words: []string{"apple", "unübersetzbar"}}))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AddWordsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Outcomes, 2)
	assert.True(t, resp.Outcomes[0].CardCreated)
	require.NotNil(t, resp.Outcomes[0].LinkID)
	assert.Equal(t, int64(11), *resp.Outcomes[0].LinkID)
	assert.Nil(t, resp.Outcomes[0].Error)
	require.NotNil(t, resp.Outcomes[1].Error)
	assert.Equal(t, "Text exceeds the maximum length", *resp.Outcomes[1].Error)
}

func TestAddWordsHandler_BlankEntriesRejected(t *testing.T) {
	router := deckRouter(&stubDeckService{}, &stubCardService{}, &stubTrainingService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/decks/1/cards", AddWordsRequest{Words: []string{"apple", ""}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/decks/1/cards", AddWordsRequest{Words: []string{}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListDeckCardsHandler(t *testing.T) {
	trainSvc := &stubTrainingService{
		listFn: func(ctx context.Context, owner, deckID int64) ([]*service.TrainingCard, error) {
			return []*service.TrainingCard{
				{
					Link:       &domain.UserCardLink{ID: 11, DeckID: deckID, CardID: 3, IntervalMinutes: 10, NextReviewAt: time.Now()},
					Card:       &domain.Card{ID: 3, SourceText: "apple", TargetText: "яблоко"},
					DeckName:   "Travel",
					PromptSide: service.PromptSideSource,
				},
			}, nil
		},
	}
	router := deckRouter(&stubDeckService{}, &stubCardService{}, trainSvc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/decks/1/cards", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []TrainingCardResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, int64(11), resp[0].LinkID)
	assert.Equal(t, "Travel", resp[0].DeckName)
}

func TestRemoveCardHandler_NotFound(t *testing.T) {
	trainSvc := &stubTrainingService{
		removeFn: func(ctx context.Context, owner, deckID, linkID int64) error {
			return service.ErrCardNotFound
		},
	}
	router := deckRouter(&stubDeckService{}, &stubCardService{}, trainSvc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, http.MethodDelete, "/decks/1/cards/99", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
