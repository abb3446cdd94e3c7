package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS_AllowedOrigin(t *testing.T) {
	config := DefaultCORSConfig([]string{"https://groundbook.pk"})
	handler := CORS(config)

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/grounds", nil)
	req.Header.Set("Origin", "https://groundbook.pk")
	w := httptest.NewRecorder()

	handler(testHandler).ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://groundbook.pk" {
		t.Errorf("Access-Control-Allow-Origin: got %q", got)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("Access-Control-Allow-Credentials should be true")
	}
}

func TestCORS_UnknownOriginGetsNoHeaders(t *testing.T) {
	config := DefaultCORSConfig([]string{"https://groundbook.pk"})
	handler := CORS(config)

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/grounds", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()

	handler(testHandler).ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unknown origin should get no CORS headers, got %q", got)
	}
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	config := DefaultCORSConfig([]string{"https://groundbook.pk"})
	handler := CORS(config)

	reached := false
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	})

	req := httptest.NewRequest("OPTIONS", "/bookings", nil)
	req.Header.Set("Origin", "https://groundbook.pk")
	w := httptest.NewRecorder()

	handler(testHandler).ServeHTTP(w, req)

	if reached {
		t.Error("preflight requests should not reach the next handler")
	}
	if w.Code != http.StatusOK {
		t.Errorf("preflight status: got %d, want 200", w.Code)
	}
}
