package authlink

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// mockDirectory is an in-test Directory with injectable failures. The
// directory subpackage has real implementations; root tests only need
// lookup behavior.
type mockDirectory struct {
	users   map[string]User
	lookups int
	failGet error
}

func newMockDirectory(users ...User) *mockDirectory {
	m := &mockDirectory{users: map[string]User{}}
	for _, u := range users {
		m.users[u.Email] = u
	}
	return m
}

func (m *mockDirectory) GetByEmail(_ context.Context, email string) (*User, error) {
	m.lookups++
	if m.failGet != nil {
		return nil, m.failGet
	}
	u, ok := m.users[email]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *mockDirectory) List(context.Context) ([]User, error) {
	users := make([]User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}

func (m *mockDirectory) Create(_ context.Context, u User) (*User, error) {
	if _, ok := m.users[u.Email]; ok {
		return nil, ErrUserExists
	}
	m.users[u.Email] = u
	return &u, nil
}

func (m *mockDirectory) Patch(_ context.Context, email string, patch UserPatch) (*User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Roles != nil {
		u.Roles = *patch.Roles
	}
	m.users[email] = u
	return &u, nil
}

func (m *mockDirectory) Delete(_ context.Context, email string) error {
	if _, ok := m.users[email]; !ok {
		return ErrUserNotFound
	}
	delete(m.users, email)
	return nil
}

// mockTransport records sent messages and optionally fails.
type mockTransport struct {
	sent     []*Message
	failWith error
}

func (m *mockTransport) Send(_ context.Context, msg *Message) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func newTestEngine(t *testing.T, dir Directory, opts ...func(*Builder)) (*Engine, *miniredis.Miniredis) {
	t.Helper()

	mr, rdb := newTestRedis(t)
	t.Cleanup(mr.Close)

	builder := New().
		WithRedis(rdb).
		WithDirectory(dir)
	for _, opt := range opts {
		opt(builder)
	}

	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, mr
}

func TestEngineCloseIdempotent(t *testing.T) {
	engine, _ := newTestEngine(t, newMockDirectory())

	engine.Close()
	engine.Close()
}

func TestEngineMetricsSnapshotDisabled(t *testing.T) {
	engine, _ := newTestEngine(t, newMockDirectory(), func(b *Builder) {
		b.WithMetricsEnabled(false)
	})

	snap := engine.MetricsSnapshot()
	if len(snap.Counters) != 0 {
		t.Fatalf("expected empty snapshot, got %d counters", len(snap.Counters))
	}
}

func TestEngineAuditEventsCarryClientIP(t *testing.T) {
	sink := NewChannelSink(8)
	engine, _ := newTestEngine(t, newMockDirectory(User{
		Email: "alice@example.com",
		Name:  "Alice",
		Roles: RoleSet{"admin"},
	}), func(b *Builder) {
		b.WithAuditSink(sink)
	})

	ctx := WithClientIP(context.Background(), "203.0.113.9")
	if _, err := engine.Resolve(ctx, StrategyChallenge, ClaimBundle{Email: "alice@example.com"}); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	engine.Close()

	event := <-sink.Events()
	if event.EventType != "resolve" {
		t.Fatalf("expected resolve event, got %q", event.EventType)
	}
	if event.IP != "203.0.113.9" {
		t.Fatalf("expected client IP in event, got %q", event.IP)
	}
	if !event.Success {
		t.Fatal("expected successful event")
	}
}

func TestEngineAuditDroppedCounter(t *testing.T) {
	engine, _ := newTestEngine(t, newMockDirectory())

	if got := engine.AuditDropped(); got != 0 {
		t.Fatalf("expected zero dropped events, got %d", got)
	}
}

var errBackendDown = errors.New("backend down")

func TestZeroValueEngineIsNotReady(t *testing.T) {
	var engine Engine
	ctx := context.Background()

	if _, err := engine.Resolve(ctx, StrategyChallenge, ClaimBundle{}); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
	if _, err := engine.SetChallenge(ctx, "id", nil); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
	if _, _, err := engine.GetChallenge(ctx, "id"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
	if err := engine.Notify(ctx, Authn{Strategy: StrategyChallenge}); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
}
