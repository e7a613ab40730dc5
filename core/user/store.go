package user

import "context"

// Store defines the persistence interface for identity records.
// Implementations must handle concurrent access safely.
type Store interface {
	// Create inserts a new user. Returns ErrEmailTaken if the email is in use.
	Create(ctx context.Context, u User) error

	// FindByEmail looks a user up by normalized email. Returns ErrNotFound.
	FindByEmail(ctx context.Context, email string) (User, error)

	// FindByID looks a user up by identity. Returns ErrNotFound.
	FindByID(ctx context.Context, id string) (User, error)

	// UpdateProfilePic replaces the profile picture URL and returns the
	// updated record. Returns ErrNotFound for unknown identities.
	UpdateProfilePic(ctx context.Context, id, url string) (User, error)
}
