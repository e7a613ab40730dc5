package logger

import (
	"io"
	"log/slog"
	"os"
)

type config struct {
	output  io.Writer
	level   slog.Level
	json    bool
	service string
}

// Option configures the logger factory.
type Option func(*config)

// WithLevel sets the minimum log level.
func WithLevel(level slog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithOutput sets the log destination. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithJSONFormatter switches output to JSON regardless of environment preset.
func WithJSONFormatter() Option {
	return func(c *config) {
		c.json = true
	}
}

// WithDevelopment configures a text logger at debug level tagged with the
// service name.
func WithDevelopment(service string) Option {
	return func(c *config) {
		c.service = service
		c.level = slog.LevelDebug
		c.json = false
	}
}

// WithProduction configures a JSON logger at info level tagged with the
// service name.
func WithProduction(service string) Option {
	return func(c *config) {
		c.service = service
		c.level = slog.LevelInfo
		c.json = true
	}
}

// New creates a slog.Logger from the provided options.
func New(opts ...Option) *slog.Logger {
	cfg := &config{
		output: os.Stdout,
		level:  slog.LevelInfo,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.level}

	var handler slog.Handler
	if cfg.json {
		handler = slog.NewJSONHandler(cfg.output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(cfg.output, handlerOpts)
	}

	log := slog.New(handler)
	if cfg.service != "" {
		log = log.With(slog.String("service", cfg.service))
	}
	return log
}
