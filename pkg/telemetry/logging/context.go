package logging

import (
	"context"
	"log/slog"
)

// Context keys for common log fields.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// UserKey is the context key for user identifiers.
	UserKey contextKey = "user"

	// IntentKey is the context key for the feature intent being served.
	IntentKey contextKey = "intent"

	// PromptIDKey is the context key for the resolved prompt id.
	PromptIDKey contextKey = "prompt_id"

	// TraceIDKey is the context key for trace IDs.
	TraceIDKey contextKey = "trace_id"
)

func withValue(ctx context.Context, key contextKey, value string) context.Context {
	return context.WithValue(ctx, key, value)
}

func getValue(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return getValue(ctx, RequestIDKey)
}

// WithUser adds a user identifier to the context.
func WithUser(ctx context.Context, user string) context.Context {
	return withValue(ctx, UserKey, user)
}

// GetUser retrieves the user identifier from the context.
func GetUser(ctx context.Context) string {
	return getValue(ctx, UserKey)
}

// WithIntent adds a feature intent to the context.
func WithIntent(ctx context.Context, intent string) context.Context {
	return withValue(ctx, IntentKey, intent)
}

// GetIntent retrieves the feature intent from the context.
func GetIntent(ctx context.Context) string {
	return getValue(ctx, IntentKey)
}

// WithPromptID adds a prompt id to the context.
func WithPromptID(ctx context.Context, promptID string) context.Context {
	return withValue(ctx, PromptIDKey, promptID)
}

// GetPromptID retrieves the prompt id from the context.
func GetPromptID(ctx context.Context) string {
	return getValue(ctx, PromptIDKey)
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return withValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	return getValue(ctx, TraceIDKey)
}

// extractContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	for _, key := range []contextKey{RequestIDKey, UserKey, IntentKey, PromptIDKey, TraceIDKey} {
		if v := getValue(ctx, key); v != "" {
			fields = append(fields, string(key), v)
		}
	}

	return fields
}

// ContextLogger is a logger that automatically includes context fields.
type ContextLogger struct {
	logger *Logger
	ctx    context.Context
}

// NewContextLogger creates a logger that automatically includes context fields.
func NewContextLogger(logger *Logger, ctx context.Context) *ContextLogger {
	return &ContextLogger{
		logger: logger.WithContext(ctx),
		ctx:    ctx,
	}
}

// Debug logs a debug message with context fields.
func (cl *ContextLogger) Debug(msg string, args ...any) {
	cl.logger.log(cl.ctx, slog.LevelDebug, msg, args...)
}

// Info logs an info message with context fields.
func (cl *ContextLogger) Info(msg string, args ...any) {
	cl.logger.log(cl.ctx, slog.LevelInfo, msg, args...)
}

// Warn logs a warning message with context fields.
func (cl *ContextLogger) Warn(msg string, args ...any) {
	cl.logger.log(cl.ctx, slog.LevelWarn, msg, args...)
}

// Error logs an error message with context fields.
func (cl *ContextLogger) Error(msg string, args ...any) {
	cl.logger.log(cl.ctx, slog.LevelError, msg, args...)
}

// With creates a new context logger with additional fields.
func (cl *ContextLogger) With(args ...any) *ContextLogger {
	return &ContextLogger{
		logger: cl.logger.With(args...),
		ctx:    cl.ctx,
	}
}
