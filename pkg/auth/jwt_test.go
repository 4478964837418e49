package auth

import (
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("65f1a2b3c4d5e6f708192a3b", "guest@example.com")
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("unexpected error verifying token: %v", err)
	}

	if claims.UserID != "65f1a2b3c4d5e6f708192a3b" {
		t.Errorf("expected user ID to round-trip, got %s", claims.UserID)
	}
	if claims.Email != "guest@example.com" {
		t.Errorf("expected email to round-trip, got %s", claims.Email)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)
	other := NewTokenIssuer("secret-b", time.Hour)

	token, err := issuer.Issue("65f1a2b3c4d5e6f708192a3b", "guest@example.com")
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}

	if _, err := other.Verify(token); err == nil {
		t.Error("expected verification with wrong secret to fail")
	}
}

func TestVerify_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue("65f1a2b3c4d5e6f708192a3b", "guest@example.com")
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}

	if _, err := issuer.Verify(token); err == nil {
		t.Error("expected expired token to fail verification")
	}
}

func TestVerify_Garbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	if _, err := issuer.Verify("not.a.token"); err == nil {
		t.Error("expected garbage token to fail verification")
	}
}
