package util

import (
	"context"
	"log/slog"
)

type contextKey string

const loggerKey contextKey = "logger"

// FromContext retrieves a logger from the context, falling back to the
// package-level default logger when none is attached.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return Logger
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithField adds a single field to the logger carried by the context.
func WithField(ctx context.Context, key string, value interface{}) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(key, value))
}

// WithFields adds multiple fields to the logger carried by the context.
func WithFields(ctx context.Context, fields map[string]interface{}) context.Context {
	logger := FromContext(ctx)
	for key, value := range fields {
		logger = logger.With(key, value)
	}
	return WithLogger(ctx, logger)
}
