package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmate-api/internal/api/shared"
	"github.com/phrazzld/taskmate-api/internal/platform/logger"
	"github.com/phrazzld/taskmate-api/internal/service/auth"
)

// AuthMiddleware authenticates bearer tokens for protected routes.
type AuthMiddleware struct {
	provider auth.AuthProvider
}

// NewAuthMiddleware creates a new AuthMiddleware with the given provider.
func NewAuthMiddleware(provider auth.AuthProvider) *AuthMiddleware {
	return &AuthMiddleware{provider: provider}
}

// Authenticate resolves the Authorization header to an owner and stores it
// in the request context. Requests that fail authentication get a 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.provider.Authenticate(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, authFailureMessage(err), err,
				shared.WithElevatedLogLevel())
			return
		}

		ctx := shared.WithUserID(r.Context(), userID)
		log := logger.FromContextOrDefault(ctx, slog.Default()).
			With(slog.String("user_id", userID.String()))
		ctx = logger.WithLogger(ctx, log)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func authFailureMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "Authorization header required"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	default:
		return "Invalid token"
	}
}

// GetUserID returns the authenticated owner stored by Authenticate.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}
