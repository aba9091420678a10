package security

import (
	"strings"
	"testing"

	"github.com/agropazar/agropazar-backend/pkg/config"
)

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := config.PasswordConfig{}

	encoded, err := HashPassword("gizli-parola-123", cfg)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("expected argon2id encoding, got %q", encoded)
	}

	ok, err := VerifyPassword("gizli-parola-123", encoded)
	if err != nil {
		t.Fatalf("verify password: %v", err)
	}
	if !ok {
		t.Fatal("expected matching password to verify")
	}

	ok, err = VerifyPassword("yanlis-parola", encoded)
	if err != nil {
		t.Fatalf("verify wrong password: %v", err)
	}
	if ok {
		t.Fatal("expected mismatching password to fail")
	}
}

func TestHashPasswordSaltsAreUnique(t *testing.T) {
	cfg := config.PasswordConfig{}

	first, err := HashPassword("same-password", cfg)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	second, err := HashPassword("same-password", cfg)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct hashes for the same password")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("anything", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}
