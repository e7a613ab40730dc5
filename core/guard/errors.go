package guard

import "errors"

var (
	// ErrUnauthenticated is returned when no token is found in any transport.
	ErrUnauthenticated = errors.New("guard: no token provided")

	// ErrInvalidToken is returned when a token is present but its signature
	// is invalid, its expiry has elapsed, or it has been revoked.
	ErrInvalidToken = errors.New("guard: invalid token")

	// ErrIdentityNotFound is returned when a verified token references an
	// identity that no longer resolves to a record.
	ErrIdentityNotFound = errors.New("guard: user not found")

	// ErrTransient is returned on infrastructure faults while resolving the
	// identity or consulting the revocation list. Safe for the caller to
	// retry; the guard itself never retries.
	ErrTransient = errors.New("guard: transient failure")
)
