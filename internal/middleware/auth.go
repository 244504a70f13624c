package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/cointrack/internal/auth"
	"github.com/dukerupert/cointrack/internal/model"
	"github.com/dukerupert/cointrack/internal/registry"
)

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// RequireAuth validates the Authorization bearer token and populates AuthContext.
func RequireAuth(authn Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return requireAuth(authn, logger, bearerToken)
}

// RequireAuthWebSocket is RequireAuth that also accepts a ?token= query
// parameter, since browsers cannot set headers on a websocket upgrade.
func RequireAuthWebSocket(authn Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return requireAuth(authn, logger, func(r *http.Request) string {
		if t := bearerToken(r); t != "" {
			return t
		}
		return r.URL.Query().Get("token")
	})
}

func requireAuth(authn Authenticator, logger *slog.Logger, tokenFunc func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authn.Authenticate(r.Context(), tokenFunc(r))
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrMissingToken):
					writeError(w, http.StatusUnauthorized, "Authorization token missing")
				case errors.Is(err, auth.ErrInvalidToken):
					writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				case errors.Is(err, registry.ErrUserNotFound):
					writeError(w, http.StatusUnauthorized, "User not found")
				default:
					logger.ErrorContext(r.Context(), "authenticate request", "error", err)
					writeError(w, http.StatusInternalServerError, "Internal server error")
				}
				return
			}

			ac := auth.AuthContext{
				UserID:   user.ID,
				FamilyID: user.FamilyIDOrEmpty(),
				Role:     user.Role,
			}
			next.ServeHTTP(w, r.WithContext(auth.WithAuth(r.Context(), ac)))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}
