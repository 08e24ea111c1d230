// ABOUTME: HTTP middleware for JWT authentication on API endpoints
// ABOUTME: Extracts JWT from Authorization header and adds the user to context

package auth

import (
	"net/http"
	"strings"
)

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// Middleware creates an HTTP middleware that extracts and validates JWT
// tokens, attaching the authenticated user ID to the request context with
// the same WithUser/UserFromContext pattern used by the MCP transport.
func Middleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
			if errMsg != "" {
				writeAuthError(w, errMsg)
				return
			}

			userID, err := verifier.Verify(token)
			if err != nil {
				writeAuthError(w, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID)))
		})
	}
}

func writeAuthError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}

// VerifyRequest extracts and verifies the bearer token on a single request
// without acting as middleware. Transports that manage their own response
// framing (the MCP endpoint) use this directly.
func VerifyRequest(r *http.Request, verifier TokenVerifier) (string, error) {
	token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
	if errMsg != "" {
		return "", ErrInvalidToken
	}
	return verifier.Verify(token)
}
