package producer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-leave/internal/events"
	"go-leave/internal/notification"
	"go-leave/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	msgs        []kafkago.Message
	err         error
	hadDeadline bool
	ctxErr      error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	_, w.hadDeadline = ctx.Deadline()
	w.ctxErr = ctx.Err()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func sampleNotification() notification.Notification {
	return notification.Notification{
		Recipient:  "maya@corp.test",
		TemplateID: notification.TemplateLeaveRequested,
		Params: map[string]string{
			notification.ParamEmployeeName: "Eli",
			notification.ParamLeaveID:      "l-1",
		},
	}
}

func TestNotifier_Notify(t *testing.T) {
	t.Run("publishes event", func(t *testing.T) {
		w := &fakeWriter{}
		n := NewNotifier(w, time.Second, zap.NewNop())
		fixed := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
		n.now = func() time.Time { return fixed }

		ctx := contextutil.WithRequestID(context.Background(), "rid-1")
		ok := n.Notify(ctx, sampleNotification())

		assert.True(t, ok)
		assert.True(t, w.hadDeadline)
		require.Len(t, w.msgs, 1)

		msg := w.msgs[0]
		assert.Equal(t, events.LeaveNotificationRequestedTopic, msg.Topic)
		assert.Equal(t, "maya@corp.test", string(msg.Key))

		var event events.LeaveNotificationRequestedEvent
		require.NoError(t, json.Unmarshal(msg.Value, &event))
		assert.Equal(t, events.LeaveNotificationRequestedType, event.EventType)
		assert.Equal(t, "rid-1", event.RequestID)
		assert.Equal(t, notification.TemplateLeaveRequested, event.TemplateID)
		assert.Equal(t, "Eli", event.Params[notification.ParamEmployeeName])
		assert.NotEmpty(t, event.NotificationID)
		assert.True(t, fixed.Equal(event.OccurredAt))
	})

	t.Run("broker failure returns false", func(t *testing.T) {
		w := &fakeWriter{err: errors.New("broker down")}
		n := NewNotifier(w, time.Second, zap.NewNop())

		assert.False(t, n.Notify(context.Background(), sampleNotification()))
	})

	t.Run("cancelled request still publishes", func(t *testing.T) {
		w := &fakeWriter{}
		n := NewNotifier(w, 0, zap.NewNop())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.True(t, n.Notify(ctx, sampleNotification()))
		assert.NoError(t, w.ctxErr)
		assert.Len(t, w.msgs, 1)
	})
}
