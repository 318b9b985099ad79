// Package config loads service settings from an optional YAML file and the
// environment. Environment variables always win over the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DatabaseConfig selects and configures the item store.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// RedisConfig configures the report cache and the report rate limiter. An
// empty Addr disables both.
type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	TTL       time.Duration `yaml:"ttl"`
	RateLimit int           `yaml:"rate_limit"`

	// TrustedProxies lists addresses or CIDR ranges whose X-Forwarded-For
	// header the rate limiter honours.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// KafkaConfig configures stock alert publishing and goods receipt
// consumption. No brokers disables both.
type KafkaConfig struct {
	Brokers       []string `yaml:"brokers"`
	GroupID       string   `yaml:"group_id"`
	AlertTopic    string   `yaml:"alert_topic"`
	ReceiptsTopic string   `yaml:"receipts_topic"`
}

// SourceConfig points classification at a remote item endpoint instead of
// the local store.
type SourceConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Config is the full service configuration.
type Config struct {
	ServiceName    string         `yaml:"service_name"`
	Environment    string         `yaml:"environment"`
	LogLevel       string         `yaml:"log_level"`
	HTTPPort       string         `yaml:"http_port"`
	RequestTimeout time.Duration  `yaml:"request_timeout"`
	JaegerEndpoint string         `yaml:"jaeger_endpoint"`
	Database       DatabaseConfig `yaml:"database"`
	Redis          RedisConfig    `yaml:"redis"`
	Kafka          KafkaConfig    `yaml:"kafka"`
	Source         SourceConfig   `yaml:"source"`
}

// IsDevelopment reports whether console logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		ServiceName:    "inventory-analytics",
		Environment:    "development",
		LogLevel:       "info",
		HTTPPort:       "8082",
		RequestTimeout: 30 * time.Second,
		Database: DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			Name:     "inventorydb",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{
			TTL:       5 * time.Minute,
			RateLimit: 60,
		},
		Kafka: KafkaConfig{
			GroupID:       "inventory-analytics",
			AlertTopic:    "inventory-stock-alerts",
			ReceiptsTopic: "goods-received",
		},
		Source: SourceConfig{
			Timeout: 10 * time.Second,
		},
	}
}

// Load starts from Default, overlays the YAML file named by CONFIG_FILE when
// set, then applies environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.ServiceName = getEnv("OTEL_SERVICE_NAME", cfg.ServiceName)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.HTTPPort = getEnv("HTTP_PORT", cfg.HTTPPort)
	cfg.JaegerEndpoint = getEnv("JAEGER_ENDPOINT", cfg.JaegerEndpoint)

	cfg.Database.Driver = getEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnv("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = getEnv("DB_NAME", cfg.Database.Name)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)

	if proxies := os.Getenv("TRUSTED_PROXIES"); proxies != "" {
		cfg.Redis.TrustedProxies = splitList(proxies)
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = splitList(brokers)
	}
	cfg.Kafka.GroupID = getEnv("KAFKA_GROUP_ID", cfg.Kafka.GroupID)
	cfg.Kafka.AlertTopic = getEnv("KAFKA_ALERT_TOPIC", cfg.Kafka.AlertTopic)
	cfg.Kafka.ReceiptsTopic = getEnv("KAFKA_RECEIPTS_TOPIC", cfg.Kafka.ReceiptsTopic)

	cfg.Source.URL = getEnv("ITEM_SOURCE_URL", cfg.Source.URL)

	var err error
	if cfg.Redis.DB, err = getEnvInt("REDIS_DB", cfg.Redis.DB); err != nil {
		return err
	}
	if cfg.Redis.TTL, err = getEnvDuration("REPORT_CACHE_TTL", cfg.Redis.TTL); err != nil {
		return err
	}
	if cfg.Redis.RateLimit, err = getEnvInt("REPORT_RATE_LIMIT", cfg.Redis.RateLimit); err != nil {
		return err
	}
	if cfg.RequestTimeout, err = getEnvDuration("REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return err
	}
	if cfg.Source.Timeout, err = getEnvDuration("ITEM_SOURCE_TIMEOUT", cfg.Source.Timeout); err != nil {
		return err
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
