package auth

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	id := primitive.NewObjectID()

	raw, err := IssueAccessToken(id, RoleSeller, "maker@example.com", "test-secret", time.Minute)
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}

	gotID, gotRole, err := ParseAccessToken(raw, "test-secret")
	if err != nil {
		t.Fatalf("ParseAccessToken returned error: %v", err)
	}
	if gotID != id {
		t.Fatalf("expected id %v, got %v", id, gotID)
	}
	if gotRole != RoleSeller {
		t.Fatalf("expected role %q, got %q", RoleSeller, gotRole)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	raw, err := IssueAccessToken(primitive.NewObjectID(), RoleCustomer, "a@b.com", "secret-a", time.Minute)
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}

	if _, _, err := ParseAccessToken(raw, "secret-b"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	raw, err := IssueAccessToken(primitive.NewObjectID(), RoleCustomer, "a@b.com", "secret", -time.Minute)
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}

	if _, _, err := ParseAccessToken(raw, "secret"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	if _, _, err := ParseAccessToken("not.a.jwt", "secret"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	raw, err := BearerToken("Bearer abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != "abc123" {
		t.Fatalf("expected abc123, got %q", raw)
	}

	if _, err := BearerToken(""); err == nil {
		t.Fatal("expected error for empty header")
	}
	if _, err := BearerToken("Token abc123"); err == nil {
		t.Fatal("expected error for non-bearer scheme")
	}
}

func TestHashTokenIsStableAndHex(t *testing.T) {
	a := HashToken("refresh-token")
	b := HashToken("refresh-token")
	if a != b {
		t.Fatal("expected identical input to hash identically")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}

func TestGenerateRefreshStringIsUnique(t *testing.T) {
	a := GenerateRefreshString()
	b := GenerateRefreshString()
	if a == "" || b == "" {
		t.Fatal("expected non-empty refresh strings")
	}
	if a == b {
		t.Fatal("expected distinct refresh strings")
	}
}
