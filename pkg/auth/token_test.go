package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tokoluma/luma-backend/pkg/config"
	"github.com/tokoluma/luma-backend/pkg/enums"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "luma",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()
	userID := uuid.New()

	payload := AccessTokenPayload{
		UserID: userID,
		Email:  "dewi@example.com",
		Role:   enums.RoleCustomer,
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.Email != "dewi@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
	if claims.Role != enums.RoleCustomer {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}
	if claims.Subject != userID.String() {
		t.Fatalf("expected subject %s, got %s", userID, claims.Subject)
	}
	if claims.ID == "" {
		t.Fatal("expected jti to be assigned")
	}

	exp := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp.UTC(), claims.ExpiresAt.UTC(), diff)
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "luma",
		ExpirationMinutes: 10,
	}
	payload := AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.RoleAdmin,
	}

	token, err := MintAccessToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err = ParseAccessToken(cfg, token+"x"); err == nil {
		t.Fatal("expected invalid signature error")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "luma",
		ExpirationMinutes: 15,
	}
	payload := AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.RoleCustomer,
	}

	token, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	_, err = ParseAccessToken(cfg, token)
	if err == nil {
		t.Fatal("expected expiration error")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, token)
	if err != nil {
		t.Fatalf("parse expired token for refresh: %v", err)
	}
	if claims.UserID != payload.UserID {
		t.Fatalf("expected user_id %s, got %s", payload.UserID, claims.UserID)
	}
}

func TestMintAccessTokenInvalidRole(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "luma",
		ExpirationMinutes: 5,
	}
	payload := AccessTokenPayload{
		UserID: uuid.New(),
		Role:   "superuser",
	}

	if _, err := MintAccessToken(cfg, time.Now(), payload); err == nil {
		t.Fatal("expected invalid role error")
	}
}
