package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService(nil, "test-secret")

	token, err := svc.issueToken("user_123")
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}

	userID, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if userID != "user_123" {
		t.Errorf("userID = %q, want user_123", userID)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewService(nil, "secret-a")
	verifier := NewService(nil, "secret-b")

	token, err := issuer.issueToken("user_123")
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("expected token signed with another secret to fail")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewService(nil, "test-secret")

	for _, token := range []string{"", "not.a.jwt", "eyJhbGciOiJub25lIn0.e30."} {
		if _, err := svc.ValidateToken(token); err == nil {
			t.Errorf("expected token %q to fail validation", token)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	svc := NewService(nil, "test-secret")
	token, err := svc.issueToken("user_123")
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}

	var gotUserID string
	handler := svc.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUserID string
	}{
		{"valid bearer token", "Bearer " + token, http.StatusOK, "user_123"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized, ""},
		{"empty token", "Bearer ", http.StatusUnauthorized, ""},
		{"invalid token", "Bearer garbage", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUserID = ""
			req := httptest.NewRequest("GET", "/api/projects", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if gotUserID != tt.wantUserID {
				t.Errorf("userID = %q, want %q", gotUserID, tt.wantUserID)
			}
		})
	}
}

func TestUserIDFromContextMissing(t *testing.T) {
	if got := UserIDFromContext(context.Background()); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
