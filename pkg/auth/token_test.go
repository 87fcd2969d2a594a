package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/config"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret: "secret",
		Issuer: "storefront",
	}
	now := time.Now().UTC()

	token, err := MintAccessToken(cfg, now, 30*time.Minute, AccessTokenPayload{UserID: "user-42", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != "user-42" || claims.Email != "ada@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.Issuer != cfg.Issuer || claims.Subject != "user-42" {
		t.Fatalf("unexpected registered claims %+v", claims.RegisteredClaims)
	}
	if claims.ID == "" {
		t.Fatal("expected jti to be generated")
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(now) {
		t.Fatal("expected expiry in the future")
	}
}

func TestParseAccessTokenRejectsBadTokens(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "storefront"}
	now := time.Now().UTC()

	expired, err := MintAccessToken(cfg, now.Add(-2*time.Hour), time.Hour, AccessTokenPayload{UserID: "u"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseAccessToken(cfg, expired); err == nil {
		t.Fatal("expected expired token to fail")
	}

	valid, err := MintAccessToken(cfg, now, time.Hour, AccessTokenPayload{UserID: "u"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseAccessToken(config.JWTConfig{Secret: "other", Issuer: "storefront"}, valid); err == nil {
		t.Fatal("expected wrong secret to fail")
	}
	if _, err := ParseAccessToken(config.JWTConfig{Secret: "secret", Issuer: "someone-else"}, valid); err == nil {
		t.Fatal("expected wrong issuer to fail")
	}
	if _, err := ParseAccessToken(cfg, strings.Repeat("x", 20)); err == nil {
		t.Fatal("expected garbage to fail")
	}
}

func TestMintAccessTokenValidatesInput(t *testing.T) {
	now := time.Now()
	if _, err := MintAccessToken(config.JWTConfig{Issuer: "i"}, now, time.Hour, AccessTokenPayload{UserID: "u"}); err == nil {
		t.Fatal("expected missing secret error")
	}
	if _, err := MintAccessToken(config.JWTConfig{Secret: "s", Issuer: "i"}, now, 0, AccessTokenPayload{UserID: "u"}); err == nil {
		t.Fatal("expected ttl error")
	}
	if _, err := MintAccessToken(config.JWTConfig{Secret: "s", Issuer: "i"}, now, time.Hour, AccessTokenPayload{}); err == nil {
		t.Fatal("expected missing user error")
	}
}
