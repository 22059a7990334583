package authlink

import (
	"context"
	"fmt"
)

// Resolve maps an authentication attempt's claim bundle to canonical
// claims. The strategy selects which asserted attribute is consulted:
// StrategyChallenge keys the directory by bundle.Email, StrategyRefresh
// by bundle.Subject (which for directory-backed identities is the email
// that was originally resolved).
//
// A missing directory record fails with [ErrUserNotFound]. Callers that
// expose resolution externally should collapse that with
// [ErrUserUnauthorized] into one uniform answer; the engine keeps them
// distinct so audit records stay precise.
func (e *Engine) Resolve(ctx context.Context, strategy Strategy, bundle ClaimBundle) (*AuthenticationClaims, error) {
	if e == nil || e.directory == nil {
		return nil, ErrEngineNotReady
	}

	var lookup string

	switch strategy {
	case StrategyChallenge:
		lookup = bundle.Email
	case StrategyRefresh:
		lookup = bundle.Subject
	default:
		e.metricInc(MetricResolveUnsupported)
		e.emitAudit(ctx, auditEventResolve, false, bundle.Email, bundle.Subject, ErrUnsupportedStrategy, func() map[string]string {
			return map[string]string{"strategy": strategy.String()}
		})
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedStrategy, strategy)
	}

	user, err := e.directory.GetByEmail(ctx, lookup)
	if err != nil {
		e.emitAudit(ctx, auditEventResolve, false, lookup, "", err, func() map[string]string {
			return map[string]string{"strategy": strategy.String()}
		})
		return nil, err
	}
	if user == nil {
		e.metricInc(MetricResolveNotFound)
		e.emitAudit(ctx, auditEventResolve, false, lookup, "", ErrUserNotFound, func() map[string]string {
			return map[string]string{"strategy": strategy.String()}
		})
		return nil, ErrUserNotFound
	}

	claims := &AuthenticationClaims{
		Subject: user.Email,
		AccessClaims: AccessClaims{
			Name:  user.Name,
			Roles: NewRoleSet(user.Roles...),
		},
	}

	e.metricInc(MetricResolveSuccess)
	e.emitAudit(ctx, auditEventResolve, true, user.Email, claims.Subject, nil, func() map[string]string {
		return map[string]string{"strategy": strategy.String()}
	})

	return claims, nil
}
