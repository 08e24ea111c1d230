// ABOUTME: Tests for the HTTP bearer-token middleware
// ABOUTME: Covers missing/malformed headers, bad tokens, and context propagation

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMiddleware_ValidToken(t *testing.T) {
	verifier := NewJWTVerifier([]byte("test-secret"))
	token, err := verifier.Generate("user-42", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var gotUser string
	handler := Middleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotUser != "user-42" {
		t.Errorf("UserFromContext() = %q, want %q", gotUser, "user-42")
	}
}

func TestMiddleware_Rejections(t *testing.T) {
	verifier := NewJWTVerifier([]byte("test-secret"))

	otherToken, _ := NewJWTVerifier([]byte("other-secret")).Generate("user-42", time.Hour)
	expiredToken, _ := verifier.Generate("user-42", -time.Hour)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not bearer", header: "Basic dXNlcjpwYXNz"},
		{name: "empty token", header: "Bearer "},
		{name: "wrong secret", header: "Bearer " + otherToken},
		{name: "expired token", header: "Bearer " + expiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := Middleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
			if called {
				t.Error("inner handler should not have been called")
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
		})
	}
}

func TestVerifyRequest(t *testing.T) {
	verifier := NewJWTVerifier([]byte("test-secret"))
	token, err := verifier.Generate("user-7", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	userID, err := VerifyRequest(req, verifier)
	if err != nil {
		t.Fatalf("VerifyRequest() error = %v", err)
	}
	if userID != "user-7" {
		t.Errorf("VerifyRequest() = %q, want %q", userID, "user-7")
	}

	bare := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	if _, err := VerifyRequest(bare, verifier); err == nil {
		t.Error("VerifyRequest() should fail without Authorization header")
	}
}
