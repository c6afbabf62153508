package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/health", "/health"},
		{"/api/v1/trips/01HX2J3K/balance", "/api/v1/trips/:id/balance"},
		{"/api/v1/trips/01HX2J3K/expenses", "/api/v1/trips/:id/expenses"},
		{"/api/v1/trips/01HX2J3K/expenses/01HX2J3M", "/api/v1/trips/:id/expenses/:id"},
		{"/api/v1/trips/01HX2J3K/expenses/personal", "/api/v1/trips/:id/expenses/personal"},
		{"/api/v1/trips/01HX2J3K/expenses/personal/01HX2J3M/paid", "/api/v1/trips/:id/expenses/personal/:id/paid"},
		{"/api/v1/trips/01HX2J3K/splits/01HX2J3N/paid", "/api/v1/trips/:id/splits/:id/paid"},
		{"/api/v1/trips/01HX2J3K/settlements/01HX2J3P/complete", "/api/v1/trips/:id/settlements/:id/complete"},
		{"/api/v1/trips/01HX2J3K/settlements/mine", "/api/v1/trips/:id/settlements/mine"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestMetricsMiddleware_PassesThrough(t *testing.T) {
	handler := Metrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trips/abc/balance", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected status to pass through, got %d", rec.Code)
	}
}
