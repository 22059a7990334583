// Package middleware exposes HTTP adapters for the authlink authorization
// gate.
//
// # Guards
//
//   - [RequireAuthenticated] — any resolved identity passes.
//   - [RequireRoles] — the identity must hold at least one of the named
//     roles.
//
// The gate operates on an [Identity] placed in the request context by the
// application's credential verification layer (see [WithIdentity]). How
// the identity was established — signed cookie, bearer token, session
// lookup — is the application's business, not this package's.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into pass/reject decisions over
// an Identity. It does NOT verify credentials.
//
// # What this package must NOT do
//
//   - Parse or verify tokens (the application's issuer does that).
//   - Reveal through status codes or bodies whether a rejected identity
//     exists: anonymous callers get 401, authenticated-but-unprivileged
//     callers get 403, both with fixed bodies.
package middleware
