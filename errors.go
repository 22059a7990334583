package authlink

import "errors"

var (
	// ErrUnsupportedStrategy is returned when an operation receives a
	// strategy outside the closed {challenge, refresh} set. It indicates a
	// protocol or configuration mismatch, not a user error, and must never
	// be retried.
	ErrUnsupportedStrategy = errors.New("unsupported authentication strategy")
	// ErrUserNotFound is returned by Resolve when the identity claim does
	// not match a directory record. Callers surface it as a generic
	// authentication failure.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserUnauthorized is returned by Notify when a login attempt
	// targets an unregistered identity. It carries a distinct machine code
	// so operators can alert on it; external responses should remain
	// indistinguishable from ErrUserNotFound.
	ErrUserUnauthorized = errors.New("user not authorized to log in")
	// ErrUnauthenticated maps to an authentication-required response: no
	// identity was resolved for the request at all.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrPermissionDenied maps to an access-denied response: the caller is
	// authenticated but its role set does not intersect the required one.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrDeliveryFailed marks an outbound notification channel failure. It
	// is audited only and never returned to Notify callers.
	ErrDeliveryFailed = errors.New("notification delivery failed")
	// ErrChallengeUnavailable is returned when the challenge store backend
	// cannot be reached.
	ErrChallengeUnavailable = errors.New("challenge store unavailable")
	// ErrUserExists is returned by directory implementations when Create
	// targets an email that is already registered.
	ErrUserExists = errors.New("user already exists")
	// ErrEngineNotReady is returned when an Engine method is called before
	// its dependencies were wired through Builder.Build.
	ErrEngineNotReady = errors.New("engine not initialized")
)
