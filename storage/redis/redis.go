package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrEmptyConnectionURL is returned when no connection URL is configured.
	ErrEmptyConnectionURL = errors.New("redis: empty connection URL")

	// ErrInvalidConnectionURL is returned when the URL does not parse.
	ErrInvalidConnectionURL = errors.New("redis: invalid connection URL")
)

// Config contains Redis connection configuration.
type Config struct {
	// ConnectionURL is the redis:// or rediss:// connection string.
	ConnectionURL string `env:"REDIS_URL,required"`

	// ConnectTimeout bounds each connection attempt.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"10s"`

	// RetryAttempts is how many times to retry the initial ping.
	RetryAttempts int `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`

	// RetryInterval is the pause between attempts.
	RetryInterval time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
}

// Connect creates a Redis client and verifies connectivity, retrying the
// initial ping.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}

	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrInvalidConnectionURL, err)
	}
	client := redis.NewClient(opts)

	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var pingErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		pingErr = client.Ping(pingCtx).Err()
		cancel()
		if pingErr == nil {
			return client, nil
		}

		if attempt < attempts {
			select {
			case <-time.After(cfg.RetryInterval):
			case <-ctx.Done():
				_ = client.Close()
				return nil, ctx.Err()
			}
		}
	}

	_ = client.Close()
	return nil, fmt.Errorf("redis: ping after %d attempts: %w", attempts, pingErr)
}

// Healthcheck returns a function suitable for readiness probes.
func Healthcheck(client *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
