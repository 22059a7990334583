package authlink

import (
	"context"
	"io"

	internalaudit "github.com/ebbhq/authlink/internal/audit"
	internalmetrics "github.com/ebbhq/authlink/internal/metrics"
)

// Strategy identifies which authentication path an inbound attempt claims.
// The set is closed: anything outside it fails with
// [ErrUnsupportedStrategy] and is never retried.
type Strategy uint8

const (
	// StrategyChallenge is the first-factor magic-link path: the caller
	// asserts an email and must prove control of it through a one-time
	// challenge.
	StrategyChallenge Strategy = iota
	// StrategyRefresh re-resolves the subject of a previously issued,
	// already-verified credential.
	StrategyRefresh
)

func (s Strategy) String() string {
	switch s {
	case StrategyChallenge:
		return "challenge"
	case StrategyRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// ClaimBundle carries the externally asserted identity attributes of an
// authentication attempt. Which field is consulted depends on the strategy:
// Email for StrategyChallenge, Subject for StrategyRefresh.
type ClaimBundle struct {
	Email   string
	Subject string
}

// AccessClaims is the subset of user attributes embedded in an issued
// credential for downstream authorization decisions.
type AccessClaims struct {
	Name  string  `json:"name"`
	Roles RoleSet `json:"roles"`
}

// AuthenticationClaims is the canonical result of identity resolution:
// a stable subject plus the access claims the external issuer embeds in
// the credential.
type AuthenticationClaims struct {
	Subject      string
	AccessClaims AccessClaims
}

// User is a directory record. Email is the unique identity key. Roles are
// always an explicit set in memory regardless of the persistence encoding.
type User struct {
	Email string  `json:"email"`
	Name  string  `json:"name"`
	Roles RoleSet `json:"roles"`
}

// UserPatch updates only the fields that are non-nil, leaving the rest of
// the record untouched.
type UserPatch struct {
	Email *string
	Name  *string
	Roles *RoleSet
}

// Directory is the user lookup and lifecycle interface callers implement
// (or take from the directory subpackage) to integrate authlink with their
// identity store.
//
// GetByEmail returns (nil, nil) for a missing record; errors are reserved
// for backend failures. Patch and Delete return [ErrUserNotFound] for a
// missing record, Create returns [ErrUserExists] for a duplicate email.
type Directory interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, u User) (*User, error)
	Patch(ctx context.Context, email string, patch UserPatch) (*User, error)
	Delete(ctx context.Context, email string) error
}

// Message is an outbound notification in email shape. Headers carry
// per-delivery correlation identifiers.
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
	Headers map[string]string
}

// Transport delivers messages through an external channel (SMTP relay,
// provider API, ...). Implementations must be safe for concurrent use.
type Transport interface {
	Send(ctx context.Context, msg *Message) error
}

// Authn is the per-attempt context the orchestrator hands to
// [Engine.Notify] after storing a freshly generated challenge.
type Authn struct {
	Strategy Strategy `json:"strategy"`
	Email    string   `json:"email"`
	ID       string   `json:"id"`
	Secret   string   `json:"secret"`
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit
// dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer], one object per line.
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// MetricID identifies a specific counter in the in-process metrics system.
type MetricID = internalmetrics.MetricID

const (
	// MetricResolveSuccess counts successful identity resolutions.
	MetricResolveSuccess = internalmetrics.MetricResolveSuccess
	// MetricResolveNotFound counts resolutions that missed the directory.
	MetricResolveNotFound = internalmetrics.MetricResolveNotFound
	// MetricResolveUnsupported counts resolutions rejected for an unknown
	// strategy.
	MetricResolveUnsupported = internalmetrics.MetricResolveUnsupported
	// MetricChallengeStored counts challenge records written.
	MetricChallengeStored = internalmetrics.MetricChallengeStored
	// MetricChallengeHit counts challenge reads that found a record.
	MetricChallengeHit = internalmetrics.MetricChallengeHit
	// MetricChallengeMiss counts challenge reads for absent or expired ids.
	MetricChallengeMiss = internalmetrics.MetricChallengeMiss
	// MetricChallengeFailure counts challenge store backend failures.
	MetricChallengeFailure = internalmetrics.MetricChallengeFailure
	// MetricNotifySuccess counts notifications observed as succeeded.
	MetricNotifySuccess = internalmetrics.MetricNotifySuccess
	// MetricNotifyUnauthorized counts notify attempts against unregistered
	// identities.
	MetricNotifyUnauthorized = internalmetrics.MetricNotifyUnauthorized
	// MetricNotifyDeliveryFailure counts suppressed outbound channel
	// failures.
	MetricNotifyDeliveryFailure = internalmetrics.MetricNotifyDeliveryFailure
)

// Metrics holds the engine's atomic counters.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a new [Metrics] instance configured by the given
// [MetricsConfig]. When Enabled is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{Enabled: cfg.Enabled})
}
