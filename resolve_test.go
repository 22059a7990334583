package authlink

import (
	"context"
	"errors"
	"testing"
)

func TestResolveChallengeStrategy(t *testing.T) {
	dir := newMockDirectory(User{
		Email: "alice@example.com",
		Name:  "Alice",
		Roles: RoleSet{"user", "admin", "admin"},
	})
	engine, _ := newTestEngine(t, dir)

	claims, err := engine.Resolve(context.Background(), StrategyChallenge, ClaimBundle{
		Email: "alice@example.com",
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if claims.Subject != "alice@example.com" {
		t.Fatalf("expected subject alice@example.com, got %q", claims.Subject)
	}
	if claims.AccessClaims.Name != "Alice" {
		t.Fatalf("expected name Alice, got %q", claims.AccessClaims.Name)
	}
	if !claims.AccessClaims.Roles.Equal(RoleSet{"admin", "user"}) {
		t.Fatalf("expected normalized roles, got %v", claims.AccessClaims.Roles)
	}
}

func TestResolveRefreshStrategyUsesSubject(t *testing.T) {
	dir := newMockDirectory(User{
		Email: "alice@example.com",
		Name:  "Alice",
		Roles: RoleSet{"user"},
	})
	engine, _ := newTestEngine(t, dir)

	claims, err := engine.Resolve(context.Background(), StrategyRefresh, ClaimBundle{
		Subject: "alice@example.com",
		Email:   "ignored@example.com",
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if claims.Subject != "alice@example.com" {
		t.Fatalf("expected subject lookup, got %q", claims.Subject)
	}
}

func TestResolveUnknownStrategy(t *testing.T) {
	dir := newMockDirectory()
	engine, _ := newTestEngine(t, dir)

	_, err := engine.Resolve(context.Background(), Strategy(99), ClaimBundle{Email: "a@b.c"})
	if !errors.Is(err, ErrUnsupportedStrategy) {
		t.Fatalf("expected ErrUnsupportedStrategy, got %v", err)
	}
	if dir.lookups != 0 {
		t.Fatal("directory must not be consulted for an unknown strategy")
	}
}

func TestResolveUserNotFound(t *testing.T) {
	engine, _ := newTestEngine(t, newMockDirectory())

	_, err := engine.Resolve(context.Background(), StrategyChallenge, ClaimBundle{
		Email: "ghost@example.com",
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestResolveDirectoryFailurePassesThrough(t *testing.T) {
	dir := newMockDirectory()
	dir.failGet = errBackendDown
	engine, _ := newTestEngine(t, dir)

	_, err := engine.Resolve(context.Background(), StrategyChallenge, ClaimBundle{
		Email: "alice@example.com",
	})
	if !errors.Is(err, errBackendDown) {
		t.Fatalf("expected backend error to pass through, got %v", err)
	}
	if errors.Is(err, ErrUserNotFound) {
		t.Fatal("backend failure must not look like a missing user")
	}
}

func TestResolveMetrics(t *testing.T) {
	dir := newMockDirectory(User{Email: "alice@example.com", Roles: RoleSet{"user"}})
	engine, _ := newTestEngine(t, dir)
	ctx := context.Background()

	_, _ = engine.Resolve(ctx, StrategyChallenge, ClaimBundle{Email: "alice@example.com"})
	_, _ = engine.Resolve(ctx, StrategyChallenge, ClaimBundle{Email: "ghost@example.com"})
	_, _ = engine.Resolve(ctx, Strategy(42), ClaimBundle{})

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricResolveSuccess] != 1 {
		t.Fatalf("expected 1 success, got %d", snap.Counters[MetricResolveSuccess])
	}
	if snap.Counters[MetricResolveNotFound] != 1 {
		t.Fatalf("expected 1 not-found, got %d", snap.Counters[MetricResolveNotFound])
	}
	if snap.Counters[MetricResolveUnsupported] != 1 {
		t.Fatalf("expected 1 unsupported, got %d", snap.Counters[MetricResolveUnsupported])
	}
}
