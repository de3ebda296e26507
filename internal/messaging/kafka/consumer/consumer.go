package consumer

import (
	"context"
	"encoding/json"

	"go-leave/internal/events"
	"go-leave/internal/notification"
	"go-leave/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumeLeaveNotifications delivers each queued notification once. The
// offset is committed whether or not delivery worked; failed mails are not
// retried.
func ConsumeLeaveNotifications(
	ctx context.Context,
	reader messageReader,
	notifier notification.Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_notification")
	log.Info("leave notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave notification consumer stopped")
				return
			}
			log.Error("fetch leave notification message failed", zap.Error(err))
			continue
		}

		var event events.LeaveNotificationRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave notification event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		msgCtx := ctx
		if event.RequestID != "" {
			msgCtx = contextutil.WithRequestID(ctx, event.RequestID)
		}

		sent := notifier.Notify(msgCtx, notification.Notification{
			Recipient:  event.Recipient,
			TemplateID: event.TemplateID,
			Params:     event.Params,
		})

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave notification message failed", zap.Error(err))
			continue
		}

		log.Info("leave notification processed",
			zap.String("notification_id", event.NotificationID),
			zap.String("template", event.TemplateID),
			zap.Bool("sent", sent),
		)
	}
}
