package common

import (
	"context"
	"log/slog"
	"time"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRequestID contextKey = "request_id"
	ContextKeyLogger    contextKey = "logger"
)

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// RequestIDFromContext extracts the request ID from context
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// WithLogger stores a request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ContextKeyLogger, logger)
}

// LoggerFromContext returns the request-scoped logger, or fallback (slog.Default when nil).
// The request ID, when present, is attached.
func LoggerFromContext(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	logger, ok := ctx.Value(ContextKeyLogger).(*slog.Logger)
	if !ok || logger == nil {
		logger = fallback
	}
	if logger == nil {
		logger = slog.Default()
	}
	if rid := RequestIDFromContext(ctx); rid != "" && !ok {
		logger = logger.With("request_id", rid)
	}
	return logger
}

// WithTimeout creates a context with the specified timeout. A non-positive
// timeout returns the parent with a no-op cancel.
func WithTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return parent, func() {}
	}
	return context.WithTimeout(parent, timeout)
}
