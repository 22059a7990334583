package authlink

import (
	"strings"
	"testing"
)

func TestBuildRequiresRedis(t *testing.T) {
	_, err := New().WithDirectory(newMockDirectory()).Build()
	if err == nil || !strings.Contains(err.Error(), "redis client required") {
		t.Fatalf("expected redis requirement, got %v", err)
	}
}

func TestBuildRequiresDirectory(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	_, err := New().WithRedis(rdb).Build()
	if err == nil || !strings.Contains(err.Error(), "directory required") {
		t.Fatalf("expected directory requirement, got %v", err)
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	cfg := DefaultConfig()
	cfg.Issuer = ""

	_, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithDirectory(newMockDirectory()).
		Build()
	if err == nil || !strings.Contains(err.Error(), "Issuer is required") {
		t.Fatalf("expected config validation failure, got %v", err)
	}
}

func TestBuildProductionRequiresTransport(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	cfg := DefaultConfig()
	cfg.Mode = ModeProduction

	_, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithDirectory(newMockDirectory()).
		Build()
	if err == nil || !strings.Contains(err.Error(), "requires a transport") {
		t.Fatalf("expected transport requirement, got %v", err)
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	builder := New().WithRedis(rdb).WithDirectory(newMockDirectory())

	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := builder.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

func TestBuildParsesIssuerHost(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	cfg := DefaultConfig()
	cfg.Issuer = "https://auth.example.com"

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithDirectory(newMockDirectory()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if engine.issuerHost != "auth.example.com" {
		t.Fatalf("expected issuer host auth.example.com, got %q", engine.issuerHost)
	}
}
