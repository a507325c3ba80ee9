package session

import (
	"context"
	"log/slog"
	"net/http"
	"os"
)

type contextKey string

// usernameKey is the context key for the authenticated username.
const usernameKey contextKey = "username"

// Middleware validates the session cookie against the store and adds the
// username to the request context. Requests without a valid session are
// rejected with 401 before any handler runs.
func Middleware(store Store, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil {
				logger.Warn("no session cookie found", "path", r.URL.Path)
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}

			username, err := store.Get(r.Context(), cookie.Value)
			if err != nil {
				logger.Error("session lookup failed", "error", err)
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
			if username == "" {
				logger.Warn("session missing or expired", "path", r.URL.Path)
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Username extracts the session identity from the context.
func Username(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok
}

// WithUsername returns a context carrying the given session identity.
// Used by the middleware and by handler tests.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// SetCookie sets the session token in a secure HttpOnly cookie.
func SetCookie(w http.ResponseWriter, token string) {
	sameSite := http.SameSiteStrictMode
	env := os.Getenv("ENV")
	if env == "development" || env == "local" {
		sameSite = http.SameSiteLaxMode // Allow testing from Postman
	}

	// Secure cookies require HTTPS - enable for production environments
	secure := env == "production" || env == "prod"

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		HttpOnly: true,     // XSS protection
		Secure:   secure,   // HTTPS only in production
		SameSite: sameSite, // CSRF protection
		Path:     "/",
		MaxAge:   int(TTL.Seconds()),
	})
}

// ClearCookie removes the session cookie.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   os.Getenv("ENV") != "local",
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1, // Delete cookie
	})
}
