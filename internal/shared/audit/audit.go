package audit

import (
	"context"
	"time"

	"go-leave/internal/shared/contextutil"

	"go.uber.org/zap"
)

const (
	ActionServerShutdown = "SERVER_SHUTDOWN"
	ActionLeaveCreated   = "LEAVE_CREATED"
	ActionLeaveUpdated   = "LEAVE_UPDATED"
	ActionLeaveApproved  = "LEAVE_APPROVED"
	ActionLeaveRejected  = "LEAVE_REJECTED"
	ActionLeaveCancelled = "LEAVE_CANCELLED"
	ActionLeaveDeleted   = "LEAVE_DELETED"
)

type Entry struct {
	Action  string
	Message string
	ActorID string
	Meta    map[string]any
}

type Logger interface {
	Log(ctx context.Context, entry Entry)
}

// ZapLogger writes audit entries as structured log lines on the "audit"
// logger.
type ZapLogger struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewZapLogger(logger ...*zap.Logger) *ZapLogger {
	l := zap.L().Named("audit")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit")
	}
	return &ZapLogger{logger: l, now: time.Now}
}

func (l *ZapLogger) Log(ctx context.Context, entry Entry) {
	l.logger.Info("audit event",
		zap.String("timestamp", l.now().UTC().Format(time.RFC3339)),
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("action", entry.Action),
		zap.String("actor_id", entry.ActorID),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
}

type nopLogger struct{}

func (nopLogger) Log(context.Context, Entry) {}

// Nop discards every entry.
func Nop() Logger {
	return nopLogger{}
}
