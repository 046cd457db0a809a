package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fluentdeck/fluentdeck-api/internal/api"
	apimiddleware "github.com/fluentdeck/fluentdeck-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	authMiddleware := apimiddleware.NewAuthMiddleware(
		app.config.Auth.JWTSecret,
		app.userService,
		app.logger,
	)
	deckHandler := api.NewDeckHandler(
		app.deckService,
		app.cardService,
		app.trainingService,
		app.logger,
	)
	trainingHandler := api.NewTrainingHandler(app.trainingService, app.logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			deckHandler.RegisterRoutes(r)
			trainingHandler.RegisterRoutes(r)
		})
	})

	r.Get("/healthz", app.handleHealthCheck)

	return r
}

// handleHealthCheck reports liveness, including database reachability so
// the orchestrator can restart a server with a dead pool.
func (app *application) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := app.db.PingContext(r.Context()); err != nil {
		app.logger.Error("Health check database ping failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		app.logger.Error("Failed to write health check response", "error", err)
	}
}
