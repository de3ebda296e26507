package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go-leave/internal/auth"
	"go-leave/internal/bootstrap"
	"go-leave/internal/notification"
	"go-leave/internal/shared/connection"
)

const (
	NotifyModeSync  = "sync"
	NotifyModeKafka = "kafka"
)

type Config struct {
	Env    string
	Server bootstrap.ServerConfig

	Postgres      connection.PostgresConfig
	DBMaxRetries  int
	DBRetryDelay  time.Duration
	DBAutoMigrate bool
	RedisAddr     string
	RedisPassword string
	KafkaBrokers  []string
	KafkaGroupID  string
	NotifyMode    string
	NotifyTimeout time.Duration
	JWT           auth.TokenConfig
	SecureCookies bool
	SMTP          notification.SMTPConfig
}

func (c Config) Production() bool {
	return c.Env == "production"
}

// LoadConfig reads the process environment. Call godotenv.Load first to
// pick up a .env file.
func LoadConfig() (Config, error) {
	cfg := Config{
		Env: getEnv("APP_ENV", "development"),
		Server: bootstrap.ServerConfig{
			Port:            getEnv("PORT", "3000"),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:     getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: connection.PostgresConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "go_leave"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		DBMaxRetries:  getEnvInt("DB_MAX_RETRIES", 5),
		DBRetryDelay:  getEnvDuration("DB_RETRY_DELAY", 2*time.Second),
		DBAutoMigrate: getEnvBool("DB_AUTO_MIGRATE", false),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		KafkaBrokers:  connection.SplitBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaGroupID:  getEnv("KAFKA_GROUP_ID", "go-leave-notifications"),
		NotifyMode:    strings.ToLower(getEnv("NOTIFY_MODE", NotifyModeSync)),
		NotifyTimeout: getEnvDuration("NOTIFY_TIMEOUT", 10*time.Second),
		JWT: auth.TokenConfig{
			Secret:     os.Getenv("JWT_SECRET"),
			AccessTTL:  getEnvDuration("JWT_ACCESS_TTL", 15*time.Minute),
			RefreshTTL: getEnvDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		},
		SMTP: notification.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", "no-reply@go-leave.local"),
			UseTLS:   getEnvBool("SMTP_USE_TLS", true),
		},
	}
	cfg.SecureCookies = getEnvBool("SECURE_COOKIES", cfg.Production())

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.NotifyMode {
	case NotifyModeSync:
	case NotifyModeKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required when NOTIFY_MODE=kafka")
		}
	default:
		return fmt.Errorf("unknown NOTIFY_MODE %q", c.NotifyMode)
	}
	if c.DBMaxRetries < 1 {
		return fmt.Errorf("DB_MAX_RETRIES must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

// getEnvDuration accepts Go durations ("15m") or plain seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
