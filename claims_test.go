package authlink

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSessionClaimsFromResolution(t *testing.T) {
	claims := &AuthenticationClaims{
		Subject: "alice@example.com",
		AccessClaims: AccessClaims{
			Name:  "Alice",
			Roles: RoleSet{"admin", "user"},
		},
	}

	session := claims.SessionClaims("https://auth.example.com", time.Hour)

	if session.Issuer != "https://auth.example.com" {
		t.Fatalf("unexpected issuer %q", session.Issuer)
	}
	if session.Subject != "alice@example.com" {
		t.Fatalf("unexpected subject %q", session.Subject)
	}
	if session.Name != "Alice" {
		t.Fatalf("unexpected name %q", session.Name)
	}
	if !session.Roles.Equal(RoleSet{"admin", "user"}) {
		t.Fatalf("unexpected roles %v", session.Roles)
	}
	if session.ID == "" {
		t.Fatal("expected a token id")
	}

	ttl := session.ExpiresAt.Sub(session.IssuedAt.Time)
	if ttl != time.Hour {
		t.Fatalf("expected 1h lifetime, got %v", ttl)
	}
}

func TestSessionClaimsFreshIDPerCall(t *testing.T) {
	claims := &AuthenticationClaims{Subject: "alice@example.com"}

	a := claims.SessionClaims("https://auth.example.com", time.Hour)
	b := claims.SessionClaims("https://auth.example.com", time.Hour)

	if a.ID == b.ID {
		t.Fatal("expected distinct token ids")
	}
}

func TestSessionClaimsRolesIsolatedFromSource(t *testing.T) {
	claims := &AuthenticationClaims{
		Subject:      "alice@example.com",
		AccessClaims: AccessClaims{Roles: RoleSet{"admin"}},
	}

	session := claims.SessionClaims("https://auth.example.com", time.Hour)
	session.Roles[0] = "mutated"

	if claims.AccessClaims.Roles[0] != "admin" {
		t.Fatal("session claims must not alias the source role set")
	}
}

func TestSessionClaimsSignAndVerify(t *testing.T) {
	key := []byte("test-signing-key")
	claims := &AuthenticationClaims{
		Subject:      "alice@example.com",
		AccessClaims: AccessClaims{Name: "Alice", Roles: RoleSet{"admin"}},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256,
		claims.SessionClaims("https://auth.example.com", time.Hour),
	).SignedString(key)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	var parsed SessionClaims
	token, err := jwt.ParseWithClaims(signed, &parsed, func(*jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !token.Valid {
		t.Fatal("expected a valid token")
	}

	if parsed.Subject != "alice@example.com" || parsed.Name != "Alice" {
		t.Fatalf("unexpected round-tripped claims: %+v", parsed)
	}
	if !parsed.Roles.Equal(RoleSet{"admin"}) {
		t.Fatalf("unexpected roles %v", parsed.Roles)
	}
}
