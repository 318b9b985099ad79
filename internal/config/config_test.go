package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"CONFIG_FILE", "ENVIRONMENT", "HTTP_PORT", "DB_DRIVER", "KAFKA_BROKERS", "REPORT_CACHE_TTL", "REPORT_RATE_LIMIT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "inventory-analytics", cfg.ServiceName)
	assert.Equal(t, "8082", cfg.HTTPPort)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 60, cfg.Redis.RateLimit)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.Redis.TrustedProxies)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: production
http_port: "9000"
database:
  driver: memory
redis:
  addr: cache:6379
  ttl: 30s
  trusted_proxies: [10.0.0.0/8]
kafka:
  brokers: [k1:9092]
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")
	t.Setenv("REPORT_CACHE_TTL", "2m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "9100", cfg.HTTPPort)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 2*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "goods-received", cfg.Kafka.ReceiptsTopic)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.Redis.TrustedProxies)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("REQUEST_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
