package auth

import (
	"testing"
	"time"
)

func initTestSecret(t *testing.T) {
	t.Helper()

	t.Setenv("JWT_SECRET", "test-secret")

	if err := InitJWTSecret(); err != nil {
		t.Fatalf("InitJWTSecret() error = %v", err)
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	initTestSecret(t)

	token, err := GenerateAccessToken(42, "alice")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken() error = %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("claims.UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("claims.Username = %q, want %q", claims.Username, "alice")
	}
	if claims.TokenType != TokenTypeAccess {
		t.Errorf("claims.TokenType = %q, want %q", claims.TokenType, TokenTypeAccess)
	}
	if claims.ID == "" {
		t.Error("claims.ID is empty, expected a jti")
	}
}

func TestTokenTypeConfusion(t *testing.T) {
	initTestSecret(t)

	access, err := GenerateAccessToken(1, "alice")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	refresh, err := GenerateRefreshToken(1, "alice")
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	if _, err := VerifyRefreshToken(access); err == nil {
		t.Error("VerifyRefreshToken() accepted an access token")
	}

	if _, err := VerifyAccessToken(refresh); err == nil {
		t.Error("VerifyAccessToken() accepted a refresh token")
	}
}

func TestExpiredToken(t *testing.T) {
	initTestSecret(t)

	token, err := generateToken(1, "alice", TokenTypeAccess, -time.Minute)
	if err != nil {
		t.Fatalf("generateToken() error = %v", err)
	}

	if _, err := VerifyAccessToken(token); err == nil {
		t.Error("VerifyAccessToken() accepted an expired token")
	}
}

func TestTamperedToken(t *testing.T) {
	initTestSecret(t)

	token, err := GenerateAccessToken(1, "alice")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	if _, err := VerifyAccessToken(token + "x"); err == nil {
		t.Error("VerifyAccessToken() accepted a tampered token")
	}
}

func TestSecretMismatch(t *testing.T) {
	initTestSecret(t)

	token, err := GenerateAccessToken(1, "alice")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	jwtSecret = "different-secret"

	if _, err := VerifyAccessToken(token); err == nil {
		t.Error("VerifyAccessToken() accepted a token signed with another secret")
	}
}
