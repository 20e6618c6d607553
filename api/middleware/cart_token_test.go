package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sterlingmedical/medsupply-backend/pkg/config"
)

func TestCartTokenLiftsHeaderIntoContext(t *testing.T) {
	cfg := config.StoreConfig{CartTokenHeader: "X-Cart-Token"}

	var captured string
	handler := CartToken(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = CartTokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Cart-Token", "  tok-abc123  ")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if captured != "tok-abc123" {
		t.Fatalf("expected trimmed token in context, got %q", captured)
	}
}

func TestCartTokenMissingHeaderPassesThrough(t *testing.T) {
	cfg := config.StoreConfig{}

	var captured string
	handler := CartToken(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = CartTokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured != "" {
		t.Fatalf("expected empty token, got %q", captured)
	}
}

func TestCartTokenCustomHeaderName(t *testing.T) {
	cfg := config.StoreConfig{CartTokenHeader: "X-Basket"}

	var captured string
	handler := CartToken(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = CartTokenFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Basket", "tok-xyz")
	req.Header.Set("X-Cart-Token", "ignored")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if captured != "tok-xyz" {
		t.Fatalf("expected configured header to win, got %q", captured)
	}
}
