package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Config contains MongoDB connection configuration.
type Config struct {
	// ConnectionURL is the MongoDB connection string (required).
	ConnectionURL string `env:"MONGODB_URL,required"`

	// ConnectTimeout bounds each connection attempt.
	ConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`

	// RetryAttempts is how many times to retry the initial connection.
	RetryAttempts int `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`

	// RetryInterval is the pause between connection attempts.
	RetryInterval time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"5s"`

	// Database is the database name.
	Database string `env:"MONGODB_DATABASE" envDefault:"chatkit"`
}

// New creates a MongoDB client, retrying the initial ping to ride out cold
// starts and brief network interruptions.
func New(ctx context.Context, cfg Config) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.ConnectionURL).
		SetConnectTimeout(cfg.ConnectTimeout))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var pingErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		pingErr = client.Ping(pingCtx, nil)
		cancel()
		if pingErr == nil {
			return client, nil
		}

		if attempt < attempts {
			select {
			case <-time.After(cfg.RetryInterval):
			case <-ctx.Done():
				_ = client.Disconnect(context.Background())
				return nil, ctx.Err()
			}
		}
	}

	_ = client.Disconnect(context.Background())
	return nil, fmt.Errorf("mongo: ping after %d attempts: %w", attempts, pingErr)
}

// NewWithDatabase creates a client and returns a handle on the configured
// database.
func NewWithDatabase(ctx context.Context, cfg Config) (*mongo.Database, error) {
	client, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return client.Database(cfg.Database), nil
}

// Healthcheck returns a function suitable for readiness probes.
func Healthcheck(client *mongo.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx, nil)
	}
}
