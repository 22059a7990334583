// Package authlink provides the core of a passwordless, challenge-based
// identity subsystem: identity resolution from authentication claims,
// Redis-backed ephemeral challenge persistence, best-effort delivery of
// one-time verification links, and role-based gating of protected routes.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authlink is the public surface. It exposes [Engine], [Builder], [Config],
// the component contracts ([Directory], [Transport]) and value types
// (AuthenticationClaims, Challenge, RoleSet, etc.). Internal coordination —
// audit dispatch, metric counters, token generation — lives under internal/
// and is never exported directly.
//
// The authentication protocol itself (challenge issue, exchange, refresh,
// logout, discovery) is driven by an external orchestrator that calls into
// [Engine.Resolve], [Engine.SetChallenge]/[Engine.GetChallenge] and
// [Engine.Notify]. See examples/magic-link for a complete wiring.
//
// # What this package must NOT do
//
//   - Sign or verify credentials. [SessionClaims] is the bridge handed to
//     an external issuer; the cryptography stays outside.
//   - Expose Redis clients, record encodings, or delivery channels in its
//     public API.
//   - Hold mutable process-global state. Every dependency is injected
//     through [Builder]; all components are stateless and reentrant.
//
// # Delivery contract
//
// Notify is best-effort by design: once the target identity is authorized,
// delivery failures on the outbound channel are audited and suppressed so
// the calling flow always observes success. Unregistered identities are the
// exception: they fail with [ErrUserUnauthorized] and are audited with a
// distinct event type for operator alerting.
package authlink
