package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/fluentdeck/fluentdeck-api/internal/config"
	"github.com/fluentdeck/fluentdeck-api/internal/domain/srs"
	"github.com/fluentdeck/fluentdeck-api/internal/generation"
	"github.com/fluentdeck/fluentdeck-api/internal/platform/gemini"
	"github.com/fluentdeck/fluentdeck-api/internal/platform/postgres"
	"github.com/fluentdeck/fluentdeck-api/internal/service"
	"github.com/fluentdeck/fluentdeck-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore     store.UserStore
	cardStore     store.CardStore
	deckStore     store.DeckStore
	userCardStore store.UserCardStore

	// Service interfaces
	generator       generation.Generator
	scheduler       srs.Service
	userService     service.UserService
	deckService     service.DeckService
	cardService     service.CardService
	trainingService service.TrainingService
}

// newApplication creates a new application instance with all dependencies
// initialized. The configuration, logger and database connection must be
// established before calling it.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.cardStore = postgres.NewPostgresCardStore(db, logger)
	app.deckStore = postgres.NewPostgresDeckStore(db, logger)
	app.userCardStore = postgres.NewPostgresUserCardStore(db, logger)

	var err error
	app.generator, err = gemini.NewGenerator(
		ctx,
		logger.With(slog.String("component", "llm_generator")),
		cfg.LLM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized", "model", cfg.LLM.ModelName)

	app.scheduler, err = srs.NewServiceWithParams(&srs.Params{
		BaselineIntervalMinutes: cfg.SRS.BaselineIntervalMinutes,
		ReviewFactor:            cfg.SRS.ReviewFactor,
		EasyFactor:              cfg.SRS.EasyFactor,
		MaxIntervalMinutes:      cfg.SRS.MaxIntervalMinutes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create SRS scheduler: %w", err)
	}

	app.userService = service.NewUserService(app.userStore, logger)
	app.deckService = service.NewDeckService(app.deckStore, logger, nil)
	app.cardService = service.NewCardService(
		app.cardStore,
		app.userCardStore,
		app.deckService,
		app.generator,
		app.scheduler,
		cfg.LLM.SourceLanguage,
		cfg.LLM.TargetLanguage,
		logger,
		nil,
	)
	app.trainingService = service.NewTrainingService(
		app.userCardStore,
		app.deckService,
		app.scheduler,
		logger,
		nil,
		nil,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
