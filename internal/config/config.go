package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	HTTPPort string `env:"BURGERHOUSE_HTTP_PORT"`

	DBConfig struct {
		DBHost     string `env:"BURGERHOUSE_DB_HOST"`
		DBPort     string `env:"BURGERHOUSE_DB_PORT"`
		DBUser     string `env:"BURGERHOUSE_DB_USER"`
		DBPassword string `env:"BURGERHOUSE_DB_PASSWORD"`
		DBName     string `env:"BURGERHOUSE_DB_NAME"`
		DBSSLMode  string `env:"BURGERHOUSE_DB_SSLMODE"`
	}

	MigrationsPath string `env:"BURGERHOUSE_MIGRATIONS_PATH"`

	KafkaURL                string `env:"KAFKA_BROKER_URL"`
	KafkaPaymentStatusTopic string `env:"KAFKA_PAYMENT_STATUS_TOPIC"`
	KafkaConsumerGroup      string `env:"KAFKA_CONSUMER_GROUP"`

	OutboxPollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL"`
	OutboxPollTimeout  time.Duration `env:"OUTBOX_POLL_TIMEOUT"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}

	cfg.HTTPPort = getEnvOrDefault("BURGERHOUSE_HTTP_PORT", "8080")

	cfg.DBConfig.DBHost = getEnvOrDefault("BURGERHOUSE_DB_HOST", "localhost")
	cfg.DBConfig.DBPort = getEnvOrDefault("BURGERHOUSE_DB_PORT", "5432")
	cfg.DBConfig.DBUser = getEnvOrDefault("BURGERHOUSE_DB_USER", "postgres")
	cfg.DBConfig.DBPassword = getEnvOrDefault("BURGERHOUSE_DB_PASSWORD", "postgres")
	cfg.DBConfig.DBName = getEnvOrDefault("BURGERHOUSE_DB_NAME", "burgerhouse_db")
	cfg.DBConfig.DBSSLMode = getEnvOrDefault("BURGERHOUSE_DB_SSLMODE", "disable")

	cfg.MigrationsPath = getEnvOrDefault("BURGERHOUSE_MIGRATIONS_PATH", "file://migrations")

	cfg.KafkaURL = getEnvOrDefault("KAFKA_BROKER_URL", "localhost:9092")
	cfg.KafkaPaymentStatusTopic = getEnvOrDefault("KAFKA_PAYMENT_STATUS_TOPIC", "payment_status_updates")
	cfg.KafkaConsumerGroup = getEnvOrDefault("KAFKA_CONSUMER_GROUP", "burgerhouse-group")

	outboxPollIntervalStr := getEnvOrDefault("OUTBOX_POLL_INTERVAL", "5s")
	interval, err := time.ParseDuration(outboxPollIntervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid OUTBOX_POLL_INTERVAL: %w", err)
	}
	cfg.OutboxPollInterval = interval

	outboxPollTimeoutStr := getEnvOrDefault("OUTBOX_POLL_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(outboxPollTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid OUTBOX_POLL_TIMEOUT: %w", err)
	}
	cfg.OutboxPollTimeout = timeout

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func (c *Config) GetDBMigrationConnectionString() string {
	return fmt.Sprintf("%s:%s@%s:%s/%s?sslmode=%s",
		c.DBConfig.DBUser, c.DBConfig.DBPassword, c.DBConfig.DBHost, c.DBConfig.DBPort, c.DBConfig.DBName, c.DBConfig.DBSSLMode)
}

func (c *Config) GetKafkaBrokers() []string {
	return []string{c.KafkaURL}
}
