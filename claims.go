package authlink

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims is the JWT shape an external issuer embeds resolved
// identity into. The engine never signs or verifies tokens; this type only
// fixes the claim layout so issuers and gates agree on it.
type SessionClaims struct {
	jwt.RegisteredClaims

	Name  string  `json:"name"`
	Roles RoleSet `json:"roles"`
}

// SessionClaims converts resolved claims into a signable JWT claim set.
// The jti is fresh per call so two sessions for the same subject remain
// distinguishable.
func (c *AuthenticationClaims) SessionClaims(issuer string, ttl time.Duration) SessionClaims {
	now := time.Now()

	return SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   c.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Name:  c.AccessClaims.Name,
		Roles: c.AccessClaims.Roles.Clone(),
	}
}
