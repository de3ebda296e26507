package producer

import (
	"context"
	"encoding/json"
	"time"

	"go-leave/internal/events"
	"go-leave/internal/notification"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const defaultPublishTimeout = 5 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Notifier hands notifications to Kafka instead of sending them inline.
// Notify reports whether the event was accepted by the broker; delivery
// happens in the notification consumer.
type Notifier struct {
	writer  messageWriter
	topic   string
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

func NewNotifier(writer messageWriter, timeout time.Duration, logger ...*zap.Logger) *Notifier {
	l := zap.L().Named("kafka.producer.notification")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("kafka.producer.notification")
	}
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &Notifier{
		writer:  writer,
		topic:   events.LeaveNotificationRequestedTopic,
		timeout: timeout,
		now:     func() time.Time { return time.Now().UTC() },
		logger:  l,
	}
}

func (n *Notifier) Notify(ctx context.Context, notif notification.Notification) bool {
	event := events.LeaveNotificationRequestedEvent{
		EventType:      events.LeaveNotificationRequestedType,
		NotificationID: uuid.NewString(),
		RequestID:      contextutil.GetRequestID(ctx),
		Recipient:      notif.Recipient,
		TemplateID:     notif.TemplateID,
		Params:         notif.Params,
		OccurredAt:     n.now(),
	}
	log := n.logger.With(
		zap.String("notification_id", event.NotificationID),
		zap.String("template", notif.TemplateID),
	)

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error("encode notification event failed", zap.Error(err))
		return false
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	err = n.writer.WriteMessages(pubCtx, kafkago.Message{
		Topic: n.topic,
		Key:   []byte(notif.Recipient),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "template_id", Value: []byte(notif.TemplateID)},
		},
	})
	if err != nil {
		log.Warn("publish notification event failed", zap.Error(err))
		return false
	}

	log.Info("notification event published")
	return true
}
