package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fluentdeck/fluentdeck-api/internal/api/shared"
	"github.com/fluentdeck/fluentdeck-api/internal/platform/logger"
	"github.com/fluentdeck/fluentdeck-api/internal/service"
)

// DeckHandler handles deck management and deck card requests.
type DeckHandler struct {
	deckService     service.DeckService
	cardService     service.CardService
	trainingService service.TrainingService
	logger          *slog.Logger
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(
	deckService service.DeckService,
	cardService service.CardService,
	trainingService service.TrainingService,
	log *slog.Logger,
) *DeckHandler {
	if deckService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("deckService cannot be nil")
	}
	if cardService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardService cannot be nil")
	}
	if trainingService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("trainingService cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &DeckHandler{
		deckService:     deckService,
		cardService:     cardService,
		trainingService: trainingService,
		logger:          log.With(slog.String("component", "deck_handler")),
	}
}

// RegisterRoutes mounts the deck routes on the given router. The router
// must already run behind the auth middleware.
func (h *DeckHandler) RegisterRoutes(r chi.Router) {
	r.Get("/decks", h.ListDecks)
	r.Post("/decks", h.CreateDeck)
	r.Get("/decks/{id}", h.GetDeck)
	r.Patch("/decks/{id}", h.UpdateDeck)
	r.Delete("/decks/{id}", h.DeleteDeck)
	r.Get("/decks/{id}/cards", h.ListDeckCards)
	r.Post("/decks/{id}/cards", h.AddWords)
	r.Delete("/decks/{id}/cards/{linkID}", h.RemoveCard)
}

// ListDecks handles GET /decks requests. It returns the caller's decks
// with card and due counts.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found")
		return
	}

	summaries, err := h.deckService.ListDecks(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deckSummariesToResponse(summaries))
}

// CreateDeck handles POST /decks requests.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found")
		return
	}

	var req CreateDeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck name")
		return
	}

	deck, err := h.deckService.CreateDeck(r.Context(), userID, req.Name, req.Description)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("deck created via API",
		slog.Int64("deck_id", deck.ID),
		slog.Int64("user_id", userID))
	shared.RespondWithJSON(w, r, http.StatusCreated, deckToResponse(deck))
}

// GetDeck handles GET /decks/{id} requests.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found")
		return
	}

	deckID, err := pathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID")
		return
	}

	deck, err := h.deckService.GetDeck(r.Context(), userID, deckID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deckToResponse(deck))
}

// UpdateDeck handles PATCH /decks/{id} requests.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found")
		return
	}

	deckID, err := pathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID")
		return
	}

	var req UpdateDeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck update")
		return
	}

	deck, err := h.deckService.UpdateDeck(r.Context(), userID, deckID, service.DeckUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deckToResponse(deck))
}

// DeleteDeck handles DELETE /decks/{id} requests.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found")
		return
	}

	deckID, err := pathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID")
		return
	}

	if err := h.deckService.DeleteDeck(r.Context(), userID, deckID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListDeckCards handles GET /decks/{id}/cards requests.
func (h *DeckHandler) ListDeckCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found")
		return
	}

	deckID, err := pathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID")
		return
	}

	cards, err := h.trainingService.ListDeckCards(r.Context(), userID, deckID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, trainingCardsToResponse(cards))
}

// AddWords handles POST /decks/{id}/cards requests. The batch reports a
// per-word outcome; a failed word never aborts the rest.
func (h *DeckHandler) AddWords(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found")
		return
	}

	deckID, err := pathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID")
		return
	}

	var req AddWordsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Words must be 1-50 non-empty entries")
		return
	}

	outcomes, err := h.cardService.AddWords(r.Context(), userID, &deckID, req.Words)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("words added via API",
		slog.Int64("deck_id", deckID),
		slog.Int("word_count", len(req.Words)))
	shared.RespondWithJSON(w, r, http.StatusOK, AddWordsResponse{
		DeckID:   deckID,
		Outcomes: addWordOutcomesToResponse(outcomes),
	})
}

// RemoveCard handles DELETE /decks/{id}/cards/{linkID} requests.
func (h *DeckHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found")
		return
	}

	deckID, err := pathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID")
		return
	}
	linkID, err := pathID(r, "linkID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID")
		return
	}

	if err := h.trainingService.RemoveCard(r.Context(), userID, deckID, linkID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathID parses a positive int64 route parameter.
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
