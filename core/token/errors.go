package token

import "errors"

var (
	// ErrMissingSecret is returned when the service is created without a signing secret.
	ErrMissingSecret = errors.New("token: signing secret is required")

	// ErrSecretTooShort is returned when the signing secret is shorter than 32 bytes.
	ErrSecretTooShort = errors.New("token: signing secret must be at least 32 bytes")

	// ErrInvalidToken is returned for malformed tokens, bad signatures, and
	// signing method mismatches.
	ErrInvalidToken = errors.New("token: invalid token")

	// ErrExpiredToken is returned when a structurally valid token is past its expiry.
	ErrExpiredToken = errors.New("token: token expired")

	// ErrMissingSubject is returned when a verified token carries no identity.
	ErrMissingSubject = errors.New("token: missing subject claim")
)
