// ABOUTME: Tests for gateway wiring: route registration, health, and auth gating.
// ABOUTME: Exercises the assembled handler without binding a real listener.

package gateway

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/verdantlabs/todo-gateway/internal/auth"
	"github.com/verdantlabs/todo-gateway/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			HTTPAddr:        "127.0.0.1:0",
			ShutdownTimeout: 5 * time.Second,
		},
		Database: config.DatabaseConfig{Path: ":memory:"},
		Auth:     config.AuthConfig{JWTSecret: "test-secret-key-for-jwt-signing-32b"},
		CORS:     config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	gw, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = gw.store.Close() })
	return gw
}

func TestHealthEndpoints(t *testing.T) {
	gw := newTestGateway(t)

	for _, path := range []string{"/health", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		gw.httpServer.Handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want %d", path, rec.Code, http.StatusOK)
		}
		if !strings.Contains(rec.Body.String(), "status") {
			t.Errorf("%s body = %q, want status payload", path, rec.Body.String())
		}
	}
}

func TestAPIRequiresAuth(t *testing.T) {
	gw := newTestGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/api/user-1/tasks", nil)
	rec := httptest.NewRecorder()
	gw.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAPIWithToken(t *testing.T) {
	gw := newTestGateway(t)

	verifier := auth.NewJWTVerifier([]byte(testConfig().Auth.JWTSecret))
	token, err := verifier.Generate("user-1", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/user-1/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	gw.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestMCPEndpointRegistered(t *testing.T) {
	gw := newTestGateway(t)

	req := httptest.NewRequest(http.MethodPost, "/mcp",
		strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`))
	rec := httptest.NewRecorder()
	gw.httpServer.Handler.ServeHTTP(rec, req)

	// Unauthenticated initialize gets a JSON-RPC error, not a mux 404.
	if rec.Code == http.StatusNotFound {
		t.Error("/mcp not registered")
	}
}

func TestChatDisabledWithoutAPIKey(t *testing.T) {
	gw := newTestGateway(t)

	verifier := auth.NewJWTVerifier([]byte(testConfig().Auth.JWTSecret))
	token, _ := verifier.Generate("user-1", time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	gw.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d when chat is disabled", rec.Code, http.StatusNotFound)
	}
}

func TestCORSPreflight(t *testing.T) {
	gw := newTestGateway(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/user-1/tasks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	gw.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}
}
