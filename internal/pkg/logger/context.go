package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey          contextKey = "logger"
	requestIDKey       contextKey = "request_id"
	investigationIDKey contextKey = "investigation_id"
)

// WithContext returns a logger carrying the request and investigation IDs found in ctx
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	fields := make([]zap.Field, 0, 2)
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := GetInvestigationID(ctx); id != "" {
		fields = append(fields, zap.String("investigation_id", id))
	}

	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

// FromContext extracts logger from context, returns the global logger if not found
func FromContext(ctx context.Context) *Logger {
	if ctx == nil {
		return L()
	}
	if logger, ok := ctx.Value(loggerKey).(*Logger); ok && logger != nil {
		return logger.WithContext(ctx)
	}
	return L().WithContext(ctx)
}

// ToContext adds logger to context
func ToContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithRequestID adds request ID to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithInvestigationID adds the investigation being worked on to context
func WithInvestigationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, investigationIDKey, id)
}

// GetRequestID extracts request ID from context
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// GetInvestigationID extracts the investigation ID from context
func GetInvestigationID(ctx context.Context) string {
	id, _ := ctx.Value(investigationIDKey).(string)
	return id
}
