// Package logger provides structured logging utilities built on Go's standard
// slog package: a small factory for environment-specific loggers and a set of
// attribute helpers for common logging patterns.
//
// Attribute helpers follow the empty-Attr pattern for nil safety, so calls
// like log.Error("request failed", logger.Error(err)) never need explicit
// nil checks.
//
// Basic usage:
//
//	log := logger.New(logger.WithProduction("chatkit"))
//
//	log.Info("server starting",
//		logger.Component("httpapi"),
//		slog.String("addr", ":8080"),
//	)
package logger
