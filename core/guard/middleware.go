package guard

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/chatkit/core/logger"
	"github.com/dmitrymomot/chatkit/core/user"
)

// currentUserContextKey is used as a key for storing the authenticated user
// in the request context.
type currentUserContextKey struct{}

// CurrentUser retrieves the authenticated user from the request context.
// Only set on requests admitted by the guard middleware.
func CurrentUser(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(currentUserContextKey{}).(user.User)
	return u, ok
}

// Middleware gates protected routes. Failed authentication short-circuits
// with a JSON {message} body; admitted requests carry the resolved user in
// their context.
func (g *Guard) Middleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx, err := g.Authenticate(r)
			if err != nil {
				status, message := classify(err)
				if status >= http.StatusInternalServerError && log != nil {
					log.ErrorContext(r.Context(), "session guard failed",
						logger.Component("guard"),
						logger.Error(err),
					)
				}
				writeMessage(w, status, message)
				return
			}

			ctx := context.WithValue(r.Context(), currentUserContextKey{}, authCtx.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// classify maps guard errors to an HTTP status and a client-facing message.
// Internal detail stays server-side.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, "Unauthorized - No Token Provided"
	case errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized, "Unauthorized - Invalid Token"
	case errors.Is(err, ErrIdentityNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, ErrTransient):
		return http.StatusServiceUnavailable, "Service temporarily unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
