package middleware

import (
	"net/http"

	authlink "github.com/ebbhq/authlink"
)

// RequireAuthenticated rejects requests that carry no identity with 401.
func RequireAuthenticated() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := IdentityFromContext(r.Context()); !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoles rejects anonymous requests with 401 and identities holding
// none of the named roles with 403. With no roles given it behaves like
// [RequireAuthenticated].
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	required := authlink.NewRoleSet(roles...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if len(required) > 0 && !id.Roles.Intersects(required) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
