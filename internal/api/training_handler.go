package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fluentdeck/fluentdeck-api/internal/api/shared"
	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/platform/logger"
	"github.com/fluentdeck/fluentdeck-api/internal/service"
)

// TrainingHandler handles review session requests.
type TrainingHandler struct {
	trainingService service.TrainingService
	logger          *slog.Logger
}

// NewTrainingHandler creates a new TrainingHandler.
func NewTrainingHandler(trainingService service.TrainingService, log *slog.Logger) *TrainingHandler {
	if trainingService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("trainingService cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &TrainingHandler{
		trainingService: trainingService,
		logger:          log.With(slog.String("component", "training_handler")),
	}
}

// RegisterRoutes mounts the training routes on the given router. The
// router must already run behind the auth middleware.
func (h *TrainingHandler) RegisterRoutes(r chi.Router) {
	r.Get("/training/next", h.NextCard)
	r.Get("/training/cards/{linkID}", h.GetCard)
	r.Post("/training/cards/{linkID}/review", h.SubmitReview)
}

// NextCard handles GET /training/next requests. An optional deck_id query
// parameter limits the session to one deck. When nothing is due the
// response is 204 No Content.
func (h *TrainingHandler) NextCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found")
		return
	}

	var deckID *int64
	if raw := r.URL.Query().Get("deck_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck_id")
			return
		}
		deckID = &id
	}

	card, err := h.trainingService.NextDue(r.Context(), userID, deckID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if card == nil {
		log.Debug("no cards due", slog.Int64("user_id", userID))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, trainingCardToResponse(card))
}

// GetCard handles GET /training/cards/{linkID} requests.
func (h *TrainingHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found")
		return
	}

	linkID, err := strconv.ParseInt(chi.URLParam(r, "linkID"), 10, 64)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID")
		return
	}

	card, err := h.trainingService.GetCard(r.Context(), userID, linkID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, trainingCardToResponse(card))
}

// SubmitReview handles POST /training/cards/{linkID}/review requests. The
// rating reschedules the card and the response carries the updated state.
func (h *TrainingHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found")
		return
	}

	linkID, err := strconv.ParseInt(chi.URLParam(r, "linkID"), 10, 64)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID")
		return
	}

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Rating must be one of: again, review, easy")
		return
	}

	rating, err := domain.ParseRating(req.Rating)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Rating must be one of: again, review, easy")
		return
	}

	card, err := h.trainingService.SubmitReview(r.Context(), userID, linkID, rating)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("review submitted via API",
		slog.Int64("link_id", linkID),
		slog.String("rating", string(rating)),
		slog.Int64("user_id", userID))
	shared.RespondWithJSON(w, r, http.StatusOK, trainingCardToResponse(card))
}
