package token

import (
	"testing"
	"time"

	"moneta/internal/models"
)

func testUser() *models.User {
	return &models.User{ID: 42, Username: "alice"}
}

func TestIssueAndValidate(t *testing.T) {
	svc := NewService("test-secret", 24*time.Hour)

	signed, err := svc.Issue(testUser())
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	claims, err := svc.Validate(signed)
	if err != nil {
		t.Fatalf("failed to validate freshly issued token: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user ID 42, got %d", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("expected username alice, got %s", claims.Username)
	}
}

func TestValidate_ExpiredToken(t *testing.T) {
	svc := NewService("test-secret", 24*time.Hour)

	issuedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	now := issuedAt
	svc.now = func() time.Time { return now }

	signed, err := svc.Issue(testUser())
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	// Still valid just before the TTL elapses.
	now = issuedAt.Add(24*time.Hour - time.Second)
	if _, err := svc.Validate(signed); err != nil {
		t.Fatalf("token rejected before expiry: %v", err)
	}

	// Rejected once the TTL has elapsed.
	now = issuedAt.Add(24*time.Hour + time.Second)
	if _, err := svc.Validate(signed); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestValidate_FailsClosed(t *testing.T) {
	svc := NewService("test-secret", 24*time.Hour)

	cases := map[string]string{
		"empty":     "",
		"garbage":   "not-a-token",
		"truncated": "eyJhbGciOiJIUzI1NiJ9.e30",
	}
	for name, tokenString := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Validate(tokenString); err == nil {
				t.Fatal("expected validation to fail")
			}
		})
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	issuer := NewService("secret-one", 24*time.Hour)
	verifier := NewService("secret-two", 24*time.Hour)

	signed, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	if _, err := verifier.Validate(signed); err == nil {
		t.Fatal("expected token signed with a different secret to be rejected")
	}
}
