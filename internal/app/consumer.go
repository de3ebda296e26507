package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka/consumer"
	"go-leave/internal/shared/connection"

	"go.uber.org/zap"
)

// RunConsumer reads queued leave notifications and mails them until
// SIGINT/SIGTERM.
func RunConsumer(cfg Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

	notifier, err := newMailNotifier(cfg, logger)
	if err != nil {
		return err
	}

	if len(cfg.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required for the consumer")
	}

	reader := connection.NewKafkaReader(cfg.KafkaBrokers, events.LeaveNotificationRequestedTopic, cfg.KafkaGroupID)
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		consumer.ConsumeLeaveNotifications(ctx, reader, notifier, logger)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("consumer shutting down")
	cancel()
	<-done

	return nil
}
