package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/almori/tripledger/internal/infrastructure/auth"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// UserIDContextKey is the context key for the authenticated user ID
	UserIDContextKey ContextKey = "user_id"

	// UserIDHeader identifies the caller when token auth is disabled,
	// i.e. when an upstream gateway already authenticated the request.
	UserIDHeader = "X-User-ID"
)

// Authenticator resolves the caller's identity. With a JWT manager configured
// it requires a Bearer token; without one it trusts the X-User-ID header.
type Authenticator struct {
	jwtManager *auth.JWTManager
}

// NewAuthenticator creates an Authenticator. jwtManager may be nil.
func NewAuthenticator(jwtManager *auth.JWTManager) *Authenticator {
	return &Authenticator{jwtManager: jwtManager}
}

// Wrap wraps an http.Handler with identity resolution. Requests without a
// resolvable identity are rejected.
func (a *Authenticator) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.jwtManager == nil {
			userID := r.Header.Get(UserIDHeader)
			if userID == "" {
				http.Error(w, "missing "+UserIDHeader+" header", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
			return
		}

		claims, err := a.jwtManager.Verify(parts[1])
		if err != nil {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), claims.UserID)))
	})
}

func withUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDContextKey, userID)
}

// UserIDFromContext extracts the authenticated user ID from context
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(string)
	return userID, ok && userID != ""
}
