package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const minSecretLength = 32

// Claims are the JWT claims carried by a session token. The user identity
// travels in the registered Subject claim; the JWT ID is unique per issuance
// so a denylist can target individual tokens.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID returns the identity the token was issued for.
func (c Claims) UserID() string {
	return c.Subject
}

// Issued is a freshly minted session token together with its expiry.
// Immutable once issued; both HTTP transports carry the same Value.
type Issued struct {
	Value     string
	ExpiresAt time.Time
}

// Service issues and verifies HMAC-SHA256 session tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// Option configures the token service.
type Option func(*Service)

// WithTTL sets the token lifetime. Defaults to 7 days.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithIssuer sets the iss claim for generated tokens.
func WithIssuer(issuer string) Option {
	return func(s *Service) {
		if issuer != "" {
			s.issuer = issuer
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a token service with the given signing secret.
func NewService(secret string, opts ...Option) (*Service, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if len(secret) < minSecretLength {
		return nil, ErrSecretTooShort
	}

	s := &Service{
		secret: []byte(secret),
		ttl:    7 * 24 * time.Hour,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue mints a signed token for the given user identity.
func (s *Service) Issue(userID string) (Issued, error) {
	if userID == "" {
		return Issued{}, ErrMissingSubject
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	value, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Issued{}, err
	}

	return Issued{Value: value, ExpiresAt: expiresAt}, nil
}

// Verify parses the token, checks the signature and temporal claims, and
// returns the embedded claims. Errors are mapped to the package sentinels
// so callers never depend on the JWT library directly.
func (s *Service) Verify(value string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(value, &claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredToken
		}
		return Claims{}, ErrInvalidToken
	}

	if claims.Subject == "" {
		return Claims{}, ErrMissingSubject
	}

	return claims, nil
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}
