package token

import "time"

// Config provides environment-based configuration for the token service.
type Config struct {
	// Secret is the HMAC signing secret (required, no default).
	Secret string `env:"JWT_SECRET,required"`

	// TTL is the token lifetime.
	TTL time.Duration `env:"JWT_TTL" envDefault:"168h"` // 7 days

	// Issuer is the iss claim on generated tokens.
	Issuer string `env:"JWT_ISSUER" envDefault:"chatkit"`
}

// NewFromConfig creates a token service from configuration.
func NewFromConfig(cfg Config) (*Service, error) {
	return NewService(cfg.Secret,
		WithTTL(cfg.TTL),
		WithIssuer(cfg.Issuer),
	)
}
