package authlink

import (
	"context"
	"time"

	internalaudit "github.com/ebbhq/authlink/internal/audit"
)

// Engine is the assembled identity core. Construct it through [Builder];
// after Build it is immutable and safe for concurrent use.
type Engine struct {
	config     Config
	issuerHost string
	challenges *challengeStore
	directory  Directory
	transport  Transport
	audit      *internalaudit.Dispatcher
	metrics    *Metrics
}

const (
	auditEventResolve               = "resolve"
	auditEventChallengeSet          = "challenge_set"
	auditEventChallengeGet          = "challenge_get"
	auditEventNotify                = "notify"
	auditEventNotifyUnauthorized    = "notify_unauthorized"
	auditEventNotifyDeliveryFailure = "notify_delivery_failure"
)

// Close drains and stops the audit dispatcher. It is safe to call more
// than once.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were discarded because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// emitAudit forwards an event to the dispatcher. metadata is lazily built
// so disabled audit costs nothing beyond the nil check.
func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	email, subject string,
	opErr error,
	metadata func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		Email:     email,
		Subject:   subject,
		IP:        clientIPFromContext(ctx),
		Success:   success,
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}
	if metadata != nil {
		event.Metadata = metadata()
	}

	e.audit.Emit(ctx, event)
}
