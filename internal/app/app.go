package app

import (
	"errors"
	"fmt"

	"go-leave/internal/attendance"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka/producer"
	"go-leave/internal/middleware"
	"go-leave/internal/notification"
	"go-leave/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildApp connects the infrastructure named in cfg and mounts every module on
// router. The returned cleanup releases the connections.
func BuildApp(router *gin.Engine, cfg Config, logger *zap.Logger) (func(), error) {
	log := logger.Named("app")
	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	var closers []func() error

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warn("cleanup failed", zap.Error(err))
			}
		}
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Postgres, cfg.DBMaxRetries, cfg.DBRetryDelay)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	closers = append(closers, sqlDB.Close)
	log.Info("database connection established")

	if cfg.DBAutoMigrate {
		if err := migrate(gormDB); err != nil {
			cleanup()
			return nil, err
		}
		log.Info("database schema migrated")
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.RedisPassword, cfg.DBMaxRetries, cfg.DBRetryDelay)
		if err != nil {
			cleanup()
			return nil, err
		}
		closers = append(closers, rdb.Close)
		log.Info("redis connection established")
	} else {
		log.Warn("REDIS_ADDR not set, idempotency and caching disabled")
	}

	notifier, closeNotifier, err := buildNotifier(cfg, logger)
	if err != nil {
		cleanup()
		return nil, err
	}
	if closeNotifier != nil {
		closers = append(closers, closeNotifier)
	}

	router.Use(middleware.RequestID())

	if err := registerModules(router, sqlDB, gormDB, rdb, notifier, cfg, logger); err != nil {
		cleanup()
		return nil, err
	}

	return cleanup, nil
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&employee.Employee{},
		&leave.Leave{},
		&attendance.Attendance{},
		&attendance.CompanyCalendar{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// buildNotifier sends mail inline in sync mode. In kafka mode it only
// publishes and cmd/consumer does the sending.
func buildNotifier(cfg Config, logger *zap.Logger) (notification.Notifier, func() error, error) {
	switch cfg.NotifyMode {
	case NotifyModeKafka:
		writer := connection.NewKafkaWriter(cfg.KafkaBrokers)
		logger.Info("notifications queued to kafka", zap.Strings("brokers", cfg.KafkaBrokers))
		return producer.NewNotifier(writer, cfg.NotifyTimeout, logger), writer.Close, nil
	case NotifyModeSync:
		n, err := newMailNotifier(cfg, logger)
		return n, nil, err
	default:
		return nil, nil, errors.New("unknown notify mode " + cfg.NotifyMode)
	}
}

func newMailNotifier(cfg Config, logger *zap.Logger) (*notification.MailNotifier, error) {
	mailer := notification.NewMailer(cfg.SMTP, logger)
	if !cfg.SMTP.Enabled() {
		logger.Warn("SMTP_HOST not set, notification mail is dropped")
	}
	return notification.NewMailNotifier(mailer, cfg.NotifyTimeout, logger)
}
