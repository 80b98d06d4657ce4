package auth

import (
	"testing"
	"time"

	"github.com/Tejayenduri9/biryani-boys-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "biryani-boys",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseIdentityToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now()

	signed, err := MintIdentityToken(cfg, now, "uid-123", "Teja Y", "teja@example.com")
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	claims, err := ParseIdentityToken(cfg, signed)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.UID != "uid-123" {
		t.Fatalf("uid mismatch: %q", claims.UID)
	}
	if claims.DisplayName != "Teja Y" {
		t.Fatalf("name mismatch: %q", claims.DisplayName)
	}

	identity := claims.Identity()
	if !identity.Present() {
		t.Fatal("expected a present identity")
	}
	if identity.Email != "teja@example.com" {
		t.Fatalf("email mismatch: %q", identity.Email)
	}
}

func TestParseIdentityTokenInvalidSignature(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintIdentityToken(cfg, time.Now(), "uid-123", "", "")
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	other := cfg
	other.Secret = "different-secret"
	if _, err := ParseIdentityToken(other, signed); err == nil {
		t.Fatal("expected signature validation to fail")
	}
}

func TestParseIdentityTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintIdentityToken(cfg, time.Now().Add(-2*time.Hour), "uid-123", "", "")
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if _, err := ParseIdentityToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to fail validation")
	}
}

func TestMintIdentityTokenRequiresUID(t *testing.T) {
	if _, err := MintIdentityToken(testJWTConfig(), time.Now(), "  ", "", ""); err == nil {
		t.Fatal("expected missing uid to error")
	}
}
