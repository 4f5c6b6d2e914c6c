package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestEnableCORS_Preflight(t *testing.T) {
	app := newTestApp()
	app.config.cors.trustedOrigins = []string{"*"}
	handler := app.enableCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("preflight must be answered by the middleware")
	}))

	r := httptest.NewRequest(http.MethodOptions, "/v1/tasks", nil)
	r.Header.Set("Origin", "http://localhost:5173")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	handler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected allowed origin %q", got)
	}
	methods := w.Header().Get("Access-Control-Allow-Methods")
	for _, m := range []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"} {
		if !strings.Contains(methods, m) {
			t.Fatalf("allowed methods missing %s: %q", m, methods)
		}
	}
}

func TestEnableCORS_UntrustedOriginGetsNoHeader(t *testing.T) {
	app := newTestApp()
	app.config.cors.trustedOrigins = []string{"http://example.com"}
	handler := app.enableCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodGet, "/v1/healthcheck", nil)
	r.Header.Set("Origin", "http://evil.test")
	w := httptest.NewRecorder()
	handler(w, r)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("untrusted origin must not be allowed, got %q", got)
	}
}
