package utils

import (
	"testing"
	"time"
)

func TestGenerateAndValidateToken(t *testing.T) {
	InitJWT("round-trip-secret", time.Hour)

	token, err := GenerateToken(42, "clinic@example.test")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.HospitalID != 42 {
		t.Errorf("wrong hospital ID: %d", claims.HospitalID)
	}
	if claims.Email != "clinic@example.test" {
		t.Errorf("wrong email: %s", claims.Email)
	}
	if claims.Issuer != "medstock-backend" {
		t.Errorf("wrong issuer: %s", claims.Issuer)
	}
}

func TestValidateTokenWrongKey(t *testing.T) {
	InitJWT("signing-key-a", time.Hour)
	token, err := GenerateToken(1, "a@example.test")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	InitJWT("signing-key-b", time.Hour)
	if _, err := ValidateToken(token); err == nil {
		t.Fatalf("token signed with a different key was accepted")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	InitJWT("expiry-secret", time.Nanosecond)
	token, err := GenerateToken(1, "a@example.test")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, err := ValidateToken(token); err == nil {
		t.Fatalf("expired token was accepted")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	InitJWT("garbage-secret", time.Hour)
	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Fatalf("malformed token was accepted")
	}
}

func TestGenerateTokenWithoutKey(t *testing.T) {
	InitJWT("", time.Hour)
	if _, err := GenerateToken(1, "a@example.test"); err == nil {
		t.Fatalf("token issued without a configured signing key")
	}
}
