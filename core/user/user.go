package user

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

const minPasswordLength = 6

// User is an identity record with its public profile and password hash.
type User struct {
	ID         string    `bson:"_id" json:"_id"`
	FullName   string    `bson:"full_name" json:"fullName"`
	Email      string    `bson:"email" json:"email"`
	Password   string    `bson:"password" json:"-"`
	ProfilePic string    `bson:"profile_pic" json:"profilePic"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updatedAt"`
}

// Public returns a copy with the password hash stripped. Every profile that
// crosses the API boundary goes through this.
func (u User) Public() User {
	u.Password = ""
	return u
}

// New validates signup input and builds a user with a hashed password.
// Validation failures map to the package's sentinel errors so the transport
// layer can report user-facing messages.
func New(fullName, email, password string) (User, error) {
	fullName = strings.TrimSpace(fullName)
	email = normalizeEmail(email)

	if fullName == "" || email == "" || password == "" {
		return User{}, ErrMissingFields
	}
	if len(password) < minPasswordLength {
		return User{}, ErrPasswordTooShort
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, ErrInvalidEmail
	}

	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	return User{
		ID:        uuid.NewString(),
		FullName:  fullName,
		Email:     email,
		Password:  hash,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// VerifyPassword reports whether the plaintext password matches the stored hash.
func (u User) VerifyPassword(password string) bool {
	return ComparePassword(u.Password, password)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
