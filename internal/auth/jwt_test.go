package auth

import (
	"os"
	"testing"

	"github.com/google/uuid"
)

func TestMain(m *testing.M) {
	os.Setenv("ACCESS_TOKEN_SECRET", "test-secret")
	os.Exit(m.Run())
}

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(userID)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("expected user id %s, got %s", userID, claims.UserID)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
	if _, err := ValidateToken(""); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(uuid.New())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	os.Setenv("ACCESS_TOKEN_SECRET", "different-secret")
	defer os.Setenv("ACCESS_TOKEN_SECRET", "test-secret")

	if _, err := ValidateToken(token); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "password123" {
		t.Fatal("hash must not equal the plain password")
	}

	if err := VerifyPassword(hash, "password123"); err != nil {
		t.Errorf("VerifyPassword with correct password: %v", err)
	}
	if err := VerifyPassword(hash, "wrong"); err == nil {
		t.Error("expected error for wrong password")
	}
}
