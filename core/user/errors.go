package user

import "errors"

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user: not found")

	// ErrEmailTaken is returned when creating a user with an email that
	// already exists.
	ErrEmailTaken = errors.New("user: email already exists")

	// ErrMissingFields is returned when a required signup field is empty.
	ErrMissingFields = errors.New("user: all fields are required")

	// ErrPasswordTooShort is returned when the password is under 6 characters.
	ErrPasswordTooShort = errors.New("user: password must be at least 6 characters")

	// ErrInvalidEmail is returned when the email address does not parse.
	ErrInvalidEmail = errors.New("user: invalid email address")

	// ErrInvalidCredentials is returned on login when the email is unknown or
	// the password does not match. The two cases are deliberately
	// indistinguishable.
	ErrInvalidCredentials = errors.New("user: invalid credentials")
)
