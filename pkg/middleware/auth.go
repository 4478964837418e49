package middleware

import (
	"context"
	"net/http"
	"roomly/pkg/auth"
	"roomly/pkg/logger"
	"strings"
)

const UserIDKey contextKey = "user_id"

// Authentication validates a Bearer token and places the caller's user ID in
// the request context. Handlers downstream treat the identifier as already
// authenticated.
func Authentication(issuer *auth.TokenIssuer, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeUnauthorized(w, "Missing token")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeUnauthorized(w, "Invalid authorization header")
				return
			}

			claims, err := issuer.Verify(parts[1])
			if err != nil {
				log.Warn("Token verification failed", "error", err, "path", r.URL.Path)
				writeUnauthorized(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth wraps a single route with the same Bearer check as
// Authentication, for routers that mix public and protected endpoints.
func RequireAuth(issuer *auth.TokenIssuer, log *logger.Logger) func(http.HandlerFunc) http.HandlerFunc {
	authenticate := Authentication(issuer, log)
	return func(next http.HandlerFunc) http.HandlerFunc {
		wrapped := authenticate(next)
		return func(w http.ResponseWriter, r *http.Request) {
			wrapped.ServeHTTP(w, r)
		}
	}
}

// UserIDFromContext returns the authenticated caller's ID, empty when the
// request did not pass through Authentication.
func UserIDFromContext(ctx context.Context) string {
	if v := ctx.Value(UserIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
