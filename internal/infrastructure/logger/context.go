package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	tenantIDKey  contextKey = "tenant_id"
	operatorKey  contextKey = "operator_id"
)

// WithContext stores a logger in the context
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext retrieves the logger from the context, falling back to a
// no-op logger so callers never nil-check
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// WithRequestID attaches a request ID to both the context and the logger
func WithRequestID(ctx context.Context, l *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	l = l.With(zap.String("request_id", requestID))
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return WithContext(ctx, l), l
}

// WithTenantID attaches a tenant ID to both the context and the logger
func WithTenantID(ctx context.Context, l *zap.Logger, tenantID string) (context.Context, *zap.Logger) {
	l = l.With(zap.String("tenant_id", tenantID))
	ctx = context.WithValue(ctx, tenantIDKey, tenantID)
	return WithContext(ctx, l), l
}

// WithOperatorID attaches an operator ID to both the context and the logger
func WithOperatorID(ctx context.Context, l *zap.Logger, operatorID string) (context.Context, *zap.Logger) {
	l = l.With(zap.String("operator_id", operatorID))
	ctx = context.WithValue(ctx, operatorKey, operatorID)
	return WithContext(ctx, l), l
}

// GetRequestID returns the request ID stored in the context, if any
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetTenantID returns the tenant ID stored in the context, if any
func GetTenantID(ctx context.Context) string {
	if id, ok := ctx.Value(tenantIDKey).(string); ok {
		return id
	}
	return ""
}

// GetOperatorID returns the operator ID stored in the context, if any
func GetOperatorID(ctx context.Context) string {
	if id, ok := ctx.Value(operatorKey).(string); ok {
		return id
	}
	return ""
}
