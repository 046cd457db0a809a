package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fluentdeck/fluentdeck-api/internal/api/shared"
	"github.com/fluentdeck/fluentdeck-api/internal/service"
)

// Claims is the payload of the gateway-minted access token. The gateway
// authenticates the learner against the chat platform and forwards the
// platform user ID plus profile fields; this service trusts the signature,
// not the caller.
type Claims struct {
	UserID    int64   `json:"user_id"`
	Username  *string `json:"username,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	secret      []byte
	userService service.UserService
	logger      *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given
// dependencies.
func NewAuthMiddleware(secret string, userService service.UserService, log *slog.Logger) *AuthMiddleware {
	if secret == "" {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("secret cannot be empty")
	}
	if userService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("userService cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &AuthMiddleware{
		secret:      []byte(secret),
		userService: userService,
		logger:      log.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate validates JWT tokens from the Authorization header, keeps
// the user's profile row fresh, and adds the user ID to the request
// context for authorized requests.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.parseToken(parts[1])
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			default:
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			}
			return
		}

		ctx := shared.WithUserID(r.Context(), claims.UserID)

		// Keep the profile row current so deck and link FKs always hold.
		_, err = m.userService.EnsureUser(ctx, claims.UserID, service.UserProfile{
			Username:  claims.Username,
			FirstName: claims.FirstName,
			LastName:  claims.LastName,
		})
		if err != nil {
			m.logger.Error("failed to ensure user profile",
				slog.String("error", err.Error()),
				slog.Int64("user_id", claims.UserID))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) parseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// GetUserID extracts the authenticated user ID from the request context.
// Returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (int64, bool) {
	return shared.GetUserID(r.Context())
}
