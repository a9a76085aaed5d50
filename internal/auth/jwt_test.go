package auth

import (
	"testing"
	"time"

	"tasktrack/internal/models"
)

func TestGenerateAndParseToken_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	user := models.User{ID: "user-123", Username: "alice"}

	tok, err := GenerateToken(user, "session-1", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("UserID mismatch: got %q want %q", claims.UserID, user.ID)
	}
	if claims.Username != user.Username {
		t.Fatalf("Username mismatch: got %q want %q", claims.Username, user.Username)
	}
	if claims.ID != "session-1" {
		t.Fatalf("session ID mismatch: got %q want %q", claims.ID, "session-1")
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken(models.User{ID: "u1"}, "s1", secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err = ParseToken(tok, secret); err == nil {
		t.Fatalf("expected error for expired token, got nil")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(models.User{ID: "u2"}, "s2", []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err = ParseToken(tok, []byte("wrong-secret")); err == nil {
		t.Fatalf("expected error for wrong secret, got nil")
	}
}

func TestParseToken_Garbage(t *testing.T) {
	t.Parallel()

	if _, err := ParseToken("not.a.jwt", []byte("secret")); err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}
