package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	cors := CORS("http://localhost:5173, http://localhost:3000")
	handler := cors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	tests := []struct {
		name        string
		origin      string
		method      string
		wantAllowed string
		wantStatus  int
	}{
		{"allowed origin", "http://localhost:5173", "GET", "http://localhost:5173", http.StatusTeapot},
		{"allowed origin with space in config", "http://localhost:3000", "GET", "http://localhost:3000", http.StatusTeapot},
		{"unknown origin", "http://evil.example", "GET", "", http.StatusTeapot},
		{"preflight short-circuits", "http://localhost:5173", "OPTIONS", "http://localhost:5173", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllowed {
				t.Errorf("allow-origin = %q, want %q", got, tt.wantAllowed)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	handler := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
