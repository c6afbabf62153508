package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/almori/tripledger/internal/domain"
	"github.com/almori/tripledger/internal/infrastructure/auth"
)

func identityEcho(t *testing.T, captured *string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			t.Error("expected user ID in context")
		}
		*captured = userID
	})
}

func TestAuthenticator_HeaderIdentity(t *testing.T) {
	var captured string
	handler := NewAuthenticator(nil).Wrap(identityEcho(t, &captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserIDHeader, "alice")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured != "alice" {
		t.Errorf("expected alice, got %q", captured)
	}
}

func TestAuthenticator_MissingHeader(t *testing.T) {
	handler := NewAuthenticator(nil).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticator_BearerToken(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	token, err := manager.Generate(&domain.User{ID: "bob", Email: "bob@example.com"})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var captured string
	handler := NewAuthenticator(manager).Wrap(identityEcho(t, &captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured != "bob" {
		t.Errorf("expected bob, got %q", captured)
	}
}

func TestAuthenticator_RejectsBadToken(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	handler := NewAuthenticator(manager).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not bearer", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthenticator_IgnoresHeaderWhenTokenAuthEnabled(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	handler := NewAuthenticator(manager).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserIDHeader, "alice")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
