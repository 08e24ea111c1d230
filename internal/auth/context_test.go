// ABOUTME: Tests for auth context propagation helpers
// ABOUTME: Covers WithUser/UserFromContext round trips and the panic path

package auth

import (
	"context"
	"testing"
)

func TestUserContextRoundTrip(t *testing.T) {
	ctx := WithUser(context.Background(), "user-abc")

	if got := UserFromContext(ctx); got != "user-abc" {
		t.Errorf("UserFromContext() = %q, want %q", got, "user-abc")
	}
}

func TestUserFromContext_Empty(t *testing.T) {
	if got := UserFromContext(context.Background()); got != "" {
		t.Errorf("UserFromContext() = %q, want empty", got)
	}
}

func TestMustUserFromContext_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustUserFromContext() should panic without a user in context")
		}
	}()
	MustUserFromContext(context.Background())
}
