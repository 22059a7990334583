package authlink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const verificationPath = "/admin/#/login?secret="

// Notify delivers the verification link for a stored challenge to the
// attempt's email address.
//
// The email must belong to a registered user: an unknown address fails
// with [ErrUserUnauthorized] before anything leaves the process. After
// that gate, delivery is best-effort — transport failures are audited and
// counted but never surfaced to the caller, so response timing cannot be
// used to probe whether a mailbox exists.
func (e *Engine) Notify(ctx context.Context, authn Authn) error {
	if e == nil || e.directory == nil {
		return ErrEngineNotReady
	}
	if authn.Strategy != StrategyChallenge {
		err := fmt.Errorf("%w: %s", ErrUnsupportedStrategy, authn.Strategy)
		e.emitAudit(ctx, auditEventNotify, false, authn.Email, "", err, nil)
		return err
	}

	user, err := e.directory.GetByEmail(ctx, authn.Email)
	if err != nil {
		e.emitAudit(ctx, auditEventNotify, false, authn.Email, "", err, nil)
		return err
	}
	if user == nil {
		e.metricInc(MetricNotifyUnauthorized)
		e.emitAudit(ctx, auditEventNotifyUnauthorized, false, authn.Email, "", ErrUserUnauthorized, func() map[string]string {
			return map[string]string{"code": "UNAUTHORIZED"}
		})
		return ErrUserUnauthorized
	}

	link := e.config.Issuer + verificationPath + authn.ID + "." + authn.Secret

	if e.config.Mode == ModeDiagnostic {
		e.logDiagnosticLink(ctx, user.Email, link)
		return nil
	}

	e.deliver(ctx, user, link)
	return nil
}

// logDiagnosticLink writes the link as a JSON line instead of sending
// anything. Diagnostic output is the only place a secret appears in clear.
func (e *Engine) logDiagnosticLink(ctx context.Context, email, link string) {
	line, err := json.Marshal(struct {
		Timestamp time.Time `json:"timestamp"`
		Email     string    `json:"email"`
		Link      string    `json:"link"`
	}{
		Timestamp: time.Now(),
		Email:     email,
		Link:      link,
	})
	if err == nil {
		_, _ = e.config.Notify.DiagnosticWriter.Write(append(line, '\n'))
	}

	e.metricInc(MetricNotifySuccess)
	e.emitAudit(ctx, auditEventNotify, true, email, "", nil, func() map[string]string {
		return map[string]string{"mode": "diagnostic"}
	})
}

// deliver sends the verification message through the transport. Each
// delivery carries a fresh correlation id in its threading headers so
// repeated links to the same mailbox never collapse into one thread.
func (e *Engine) deliver(ctx context.Context, user *User, link string) {
	correlation := uuid.NewString()
	messageID := "<" + correlation + "@" + e.issuerHost + ">"

	msg := &Message{
		From:    e.config.Notify.From,
		To:      user.Email,
		Subject: e.config.Notify.SubjectLine,
		Text:    "Hello " + user.Name + ",\n\nFollow this link to sign in:\n\n" + link + "\n",
		HTML: "<p>Hello " + user.Name + ",</p>" +
			"<p>Follow this link to sign in:</p>" +
			`<p><a href="` + link + `">` + link + "</a></p>",
		Headers: map[string]string{
			"Message-ID":      messageID,
			"X-Entity-Ref-ID": correlation,
			"References":      messageID,
		},
	}

	if err := e.transport.Send(ctx, msg); err != nil {
		e.metricInc(MetricNotifyDeliveryFailure)
		e.emitAudit(ctx, auditEventNotifyDeliveryFailure, false, user.Email, "", fmt.Errorf("%w: %v", ErrDeliveryFailed, err), func() map[string]string {
			return map[string]string{"correlation": correlation}
		})
		return
	}

	e.metricInc(MetricNotifySuccess)
	e.emitAudit(ctx, auditEventNotify, true, user.Email, "", nil, func() map[string]string {
		return map[string]string{"correlation": correlation, "mode": "production"}
	})
}
