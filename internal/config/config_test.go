package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, int64(16), cfg.BookingConfig.TaxRatePercent)
	assert.Equal(t, 3, cfg.BookingConfig.PendingExpiryDays)
	assert.Equal(t, 10*time.Minute, cfg.RedisConfig.StatsCacheTTL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaConfig.Brokers)
	assert.True(t, cfg.SchedulerEnabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SERVICE_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("TAX_RATE_PERCENT", "8")
	t.Setenv("SCHEDULER_ENABLED", "false")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaConfig.Brokers)
	assert.Equal(t, int64(8), cfg.BookingConfig.TaxRatePercent)
	assert.False(t, cfg.SchedulerEnabled)
}

func TestLoad_RequiresSecretAndSaneTax(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TAX_RATE_PERCENT", "120")
	_, err = Load()
	assert.Error(t, err)
}
