package credstore

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreTokenLifecycle(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.Token(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("Token() on empty store = %v, want ErrNotFound", err)
	}

	if err := s.SetToken(ctx, "tok-1"); err != nil {
		t.Fatalf("SetToken() error: %v", err)
	}
	token, err := s.Token(ctx)
	if err != nil || token != "tok-1" {
		t.Errorf("Token() = %q, %v", token, err)
	}

	// Full-key overwrite.
	if err := s.SetToken(ctx, "tok-2"); err != nil {
		t.Fatalf("SetToken() error: %v", err)
	}
	token, _ = s.Token(ctx)
	if token != "tok-2" {
		t.Errorf("Token() after overwrite = %q", token)
	}

	if err := s.RemoveToken(ctx); err != nil {
		t.Fatalf("RemoveToken() error: %v", err)
	}
	if _, err := s.Token(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("Token() after removal = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreKeysIndependent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.SetUserID(ctx, "42"); err != nil {
		t.Fatalf("SetUserID() error: %v", err)
	}
	if _, err := s.Token(ctx); !errors.Is(err, ErrNotFound) {
		t.Error("setting the user id must not create a token")
	}

	id, err := s.UserID(ctx)
	if err != nil || id != "42" {
		t.Errorf("UserID() = %q, %v", id, err)
	}
}
