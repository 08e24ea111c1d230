// ABOUTME: Unit tests for JWT token verification and generation
// ABOUTME: Tests valid tokens, invalid tokens, and expired tokens

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTVerifier_ValidToken(t *testing.T) {
	secret := []byte("test-secret-key-for-jwt-signing")
	verifier := NewJWTVerifier(secret)

	userID := "user-123"
	token, err := verifier.Generate(userID, time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	gotID, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if gotID != userID {
		t.Errorf("Verify() = %q, want %q", gotID, userID)
	}
}

func TestJWTVerifier_InvalidToken(t *testing.T) {
	secret := []byte("test-secret-key-for-jwt-signing")
	verifier := NewJWTVerifier(secret)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "garbage token",
			token: "not-a-jwt-token",
		},
		{
			name:  "malformed JWT",
			token: "header.payload.signature",
		},
		{
			name: "wrong secret",
			token: func() string {
				// Generate with different secret
				otherVerifier := NewJWTVerifier([]byte("different-secret"))
				token, _ := otherVerifier.Generate("user-123", time.Hour)
				return token
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(tt.token)
			if err == nil {
				t.Error("Verify() should have returned an error")
			}

			if !errors.Is(err, ErrInvalidToken) && !errors.Is(err, ErrExpiredToken) {
				t.Errorf("Verify() error = %v, want wrapped ErrInvalidToken", err)
			}
		})
	}
}

func TestJWTVerifier_ExpiredToken(t *testing.T) {
	secret := []byte("test-secret-key-for-jwt-signing")
	verifier := NewJWTVerifier(secret)

	// Generate a token that expired 1 hour ago
	token, err := verifier.Generate("user-123", -time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	_, err = verifier.Verify(token)
	if err == nil {
		t.Error("Verify() should have returned an error for expired token")
	}

	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Verify() error = %v, want ErrExpiredToken", err)
	}
}

func TestJWTVerifier_MissingSubClaim(t *testing.T) {
	secret := []byte("test-secret-key-for-jwt-signing")
	verifier := NewJWTVerifier(secret)

	// A token signed with the right secret but with no sub claim
	token, err := verifier.Generate("", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrMissingClaim) {
		t.Errorf("Verify() error = %v, want ErrMissingClaim", err)
	}
}

func TestJWTVerifier_MissingExpClaim(t *testing.T) {
	secret := []byte("test-secret-key-for-jwt-signing")
	verifier := NewJWTVerifier(secret)

	// Correctly signed but without an expiry; we never mint these.
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-123",
	}).SignedString(secret)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrMissingClaim) {
		t.Errorf("Verify() error = %v, want ErrMissingClaim", err)
	}
}

func TestJWTVerifier_RejectsOtherSigningMethods(t *testing.T) {
	secret := []byte("test-secret-key-for-jwt-signing")
	verifier := NewJWTVerifier(secret)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(secret)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestJWTVerifier_DifferentUsers(t *testing.T) {
	secret := []byte("test-secret-key-for-jwt-signing")
	verifier := NewJWTVerifier(secret)

	users := []string{"user-1", "user-2", "user-3"}

	for _, userID := range users {
		token, err := verifier.Generate(userID, time.Hour)
		if err != nil {
			t.Fatalf("Generate(%q) error = %v", userID, err)
		}

		gotID, err := verifier.Verify(token)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}

		if gotID != userID {
			t.Errorf("Verify() = %q, want %q", gotID, userID)
		}
	}
}
