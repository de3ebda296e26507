package audit_test

import (
	"context"
	"testing"

	"go-leave/internal/shared/audit"
	"go-leave/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_Log(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := audit.NewZapLogger(zap.New(core))

	ctx := contextutil.WithRequestID(context.Background(), "req-1")
	l.Log(ctx, audit.Entry{
		Action:  audit.ActionLeaveApproved,
		Message: "leave approved",
		ActorID: "mgr-1",
		Meta:    map[string]any{"leave_id": "L1"},
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "audit", entry.LoggerName)
	fields := entry.ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, audit.ActionLeaveApproved, fields["action"])
	assert.Equal(t, "mgr-1", fields["actor_id"])
}
