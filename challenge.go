package authlink

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ebbhq/authlink/internal"
)

// Challenge is a freshly minted id/secret pair. The id keys the stored
// record and is safe to expose; the secret is delivered out-of-band and
// must never be persisted in plaintext.
type Challenge struct {
	ID     string
	Secret string
}

// NewChallenge generates a challenge pair from crypto/rand.
func NewChallenge() (Challenge, error) {
	id, err := internal.NewChallengeID()
	if err != nil {
		return Challenge{}, err
	}

	secret, err := internal.NewChallengeSecret()
	if err != nil {
		return Challenge{}, err
	}

	return Challenge{
		ID:     id.String(),
		Secret: internal.EncodeChallengeSecret(secret),
	}, nil
}

// Token renders the challenge in its link form, "id.secret".
func (c Challenge) Token() string {
	return c.ID + "." + c.Secret
}

// ParseChallengeToken splits a token produced by [Challenge.Token].
func ParseChallengeToken(token string) (Challenge, error) {
	id, secret, ok := strings.Cut(token, ".")
	if !ok || id == "" || secret == "" {
		return Challenge{}, errors.New("malformed challenge token")
	}
	return Challenge{ID: id, Secret: secret}, nil
}

// HashChallengeSecret digests a wire-form secret for at-rest comparison.
// Orchestrators store the hash in challenge attrs so a store compromise
// never leaks a usable secret.
func HashChallengeSecret(secret string) [32]byte {
	return internal.HashChallengeSecret([]byte(secret))
}

// SetChallenge upserts attrs under id with the configured TTL and returns
// a copy of what was persisted. The write is whole-record and
// last-writer-wins; attrs are opaque to the engine.
func (e *Engine) SetChallenge(ctx context.Context, id string, attrs []byte) ([]byte, error) {
	if e == nil || e.challenges == nil {
		return nil, ErrEngineNotReady
	}
	if id == "" {
		err := errors.New("challenge id required")
		e.metricInc(MetricChallengeFailure)
		e.emitAudit(ctx, auditEventChallengeSet, false, "", "", err, nil)
		return nil, err
	}

	if err := e.challenges.Set(ctx, id, attrs, e.config.Challenge.TTL); err != nil {
		e.metricInc(MetricChallengeFailure)
		e.emitAudit(ctx, auditEventChallengeSet, false, "", "", err, nil)
		return nil, fmt.Errorf("%w: %v", ErrChallengeUnavailable, err)
	}

	persisted := make([]byte, len(attrs))
	copy(persisted, attrs)

	e.metricInc(MetricChallengeStored)
	e.emitAudit(ctx, auditEventChallengeSet, true, "", "", nil, func() map[string]string {
		return map[string]string{
			"challenge_id": id,
			"attrs_size":   strconv.Itoa(len(attrs)),
		}
	})

	return persisted, nil
}

// GetChallenge reads the attrs stored under id. A missing or expired id is
// not an error: it returns (nil, false, nil) so callers can give the
// uniform "invalid or expired" answer without branching on failure modes.
func (e *Engine) GetChallenge(ctx context.Context, id string) ([]byte, bool, error) {
	if e == nil || e.challenges == nil {
		return nil, false, ErrEngineNotReady
	}

	attrs, err := e.challenges.Get(ctx, id)
	if err != nil {
		if errors.Is(err, errChallengeNotFound) {
			e.metricInc(MetricChallengeMiss)
			e.emitAudit(ctx, auditEventChallengeGet, false, "", "", nil, func() map[string]string {
				return map[string]string{"challenge_id": id, "outcome": "miss"}
			})
			return nil, false, nil
		}

		e.metricInc(MetricChallengeFailure)
		e.emitAudit(ctx, auditEventChallengeGet, false, "", "", err, nil)
		return nil, false, fmt.Errorf("%w: %v", ErrChallengeUnavailable, err)
	}

	e.metricInc(MetricChallengeHit)
	e.emitAudit(ctx, auditEventChallengeGet, true, "", "", nil, func() map[string]string {
		return map[string]string{"challenge_id": id, "outcome": "hit"}
	})

	return attrs, true, nil
}
