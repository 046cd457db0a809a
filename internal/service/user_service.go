package service

import (
	"context"
	"log/slog"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/platform/logger"
	"github.com/fluentdeck/fluentdeck-api/internal/store"
)

// UserProfile carries the profile fields reported by the chat platform
// alongside the authenticated user ID.
type UserProfile struct {
	Username  *string
	FirstName *string
	LastName  *string
}

// UserService provides user-related operations.
type UserService interface {
	// EnsureUser records or refreshes the authenticated user's profile.
	// The ID comes from the verified token, so the operation is an upsert
	// rather than a registration flow.
	EnsureUser(ctx context.Context, userID int64, profile UserProfile) (*domain.User, error)

	// GetUser retrieves a user by ID.
	// Returns store.ErrNotFound if the user does not exist.
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
}

type userServiceImpl struct {
	userStore store.UserStore
	logger    *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userStore store.UserStore, log *slog.Logger) UserService {
	if userStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("userStore cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &userServiceImpl{
		userStore: userStore,
		logger:    log.With(slog.String("component", "user_service")),
	}
}

var _ UserService = (*userServiceImpl)(nil)

// EnsureUser implements UserService.EnsureUser.
func (s *userServiceImpl) EnsureUser(ctx context.Context, userID int64, profile UserProfile) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(userID, profile.Username, profile.FirstName, profile.LastName)
	if err != nil {
		return nil, err
	}

	if err := s.userStore.Upsert(ctx, user); err != nil {
		log.Error("failed to ensure user",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, NewServiceError("ensure_user", "failed to save user", err)
	}

	return user, nil
}

// GetUser implements UserService.GetUser.
func (s *userServiceImpl) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	return s.userStore.GetByID(ctx, userID)
}
