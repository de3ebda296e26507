package contextutil

import (
	"context"

	"go-leave/internal/identity"

	"go.uber.org/zap"
)

// unexported key type so values never collide with other packages
type contextKey string

const (
	requestIDKey contextKey = "request_id"
	identityKey  contextKey = "identity"
	loggerKey    contextKey = "logger"
)

func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey).(string); ok {
		return rid
	}
	return ""
}

// WithIdentity stores the resolved caller. Only the auth middleware should
// call it, after the token has been verified.
func WithIdentity(ctx context.Context, id identity.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func GetIdentity(ctx context.Context) (identity.Identity, bool) {
	id, ok := ctx.Value(identityKey).(identity.Identity)
	if !ok || id.IsZero() {
		return identity.Identity{}, false
	}
	return id, true
}

func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger returns the request-scoped logger, falling back to defaultLogger
// and finally to a no-op logger so callers never get nil.
func GetLogger(ctx context.Context, defaultLogger *zap.Logger) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
			return l
		}
	}

	if defaultLogger != nil {
		return defaultLogger
	}

	return zap.NewNop()
}

type Metadata struct {
	RequestID  string
	EmployeeID string
	Role       string
}

func ExtractMetadata(ctx context.Context) Metadata {
	md := Metadata{RequestID: GetRequestID(ctx)}
	if id, ok := GetIdentity(ctx); ok {
		md.EmployeeID = id.ID.String()
		md.Role = string(id.Role)
	}
	return md
}
