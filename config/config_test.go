package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "RECENT_RANGE_STORE", "DEFAULT_TIMEZONE", "REPORTING_CACHE_TTL_SECONDS", "KAFKA_BROKERS", "CORS_ORIGINS", "TRUSTED_PROXIES"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "redis", cfg.RecentRangeStore)
	assert.Equal(t, "UTC", cfg.DefaultTimezone)
	assert.Equal(t, 60, cfg.ReportingCacheTTLSeconds)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("REPORTING_API_URL", "https://api.example.com/")
	t.Setenv("REPORTING_CACHE_TTL_SECONDS", "5")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("MAXIMUM_RANGE_EPOCH", "2023-06-01")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,172.16.0.1")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "https://api.example.com", cfg.ReportingAPIURL)
	assert.Equal(t, 5, cfg.ReportingCacheTTLSeconds)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "2023-06-01", cfg.MaximumRangeEpoch)
	assert.Equal(t, []string{"10.0.0.0/8", "172.16.0.1"}, cfg.TrustedProxies)
}
