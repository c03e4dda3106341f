package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/hotel-yunuen/service-reservation/internal/platform/database"
)

// JWTConfig holds token verification settings.
type JWTConfig struct {
	Secret string
}

// KafkaConfig holds broker settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// RedisConfig holds cache settings.
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	StatsCacheTTL time.Duration
}

// SMTPConfig holds outgoing mail settings.
type SMTPConfig struct {
	Host          string
	Port          int
	Username      string
	Password      string
	From          string
	OperatorEmail string
}

// BookingConfig holds booking policy settings.
type BookingConfig struct {
	TaxRatePercent    int64
	PendingExpiryDays int
}

// ServiceConfig holds all configuration for the reservation service.
type ServiceConfig struct {
	Port             string
	AppEnv           string
	DBConfig         database.PostgresConfig
	JWTConfig        JWTConfig
	KafkaConfig      KafkaConfig
	RedisConfig      RedisConfig
	SMTPConfig       SMTPConfig
	BookingConfig    BookingConfig
	CouponRateLimit  int
	SchedulerEnabled bool
}

// Load reads configuration from the environment (and a .env file outside
// production) and returns a ServiceConfig.
func Load() (*ServiceConfig, error) {
	v := newViper()
	if v.GetString("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	cfg := fromViper(v)
	if cfg.JWTConfig.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.BookingConfig.TaxRatePercent < 0 || cfg.BookingConfig.TaxRatePercent > 100 {
		return nil, fmt.Errorf("TAX_RATE_PERCENT must be within 0..100, got %d", cfg.BookingConfig.TaxRatePercent)
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVICE_PORT", ":8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "hotel_reservations")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "hotel-")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("STATS_CACHE_TTL", "10m")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("MAIL_FROM", "noreply@hotelyunuen.com")
	v.SetDefault("TAX_RATE_PERCENT", 16)
	v.SetDefault("PENDING_EXPIRY_DAYS", 3)
	v.SetDefault("COUPON_RATE_LIMIT", 20)
	v.SetDefault("SCHEDULER_ENABLED", true)
	return v
}

func fromViper(v *viper.Viper) *ServiceConfig {
	port := v.GetString("SERVICE_PORT")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	return &ServiceConfig{
		Port:   port,
		AppEnv: v.GetString("APP_ENV"),
		DBConfig: database.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWTConfig: JWTConfig{Secret: v.GetString("JWT_SECRET")},
		KafkaConfig: KafkaConfig{
			Brokers:     splitList(v.GetString("KAFKA_BROKERS")),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
		RedisConfig: RedisConfig{
			Addr:          v.GetString("REDIS_ADDR"),
			Password:      v.GetString("REDIS_PASSWORD"),
			DB:            v.GetInt("REDIS_DB"),
			StatsCacheTTL: v.GetDuration("STATS_CACHE_TTL"),
		},
		SMTPConfig: SMTPConfig{
			Host:          v.GetString("SMTP_HOST"),
			Port:          v.GetInt("SMTP_PORT"),
			Username:      v.GetString("SMTP_USERNAME"),
			Password:      v.GetString("SMTP_PASSWORD"),
			From:          v.GetString("MAIL_FROM"),
			OperatorEmail: v.GetString("OPERATOR_EMAIL"),
		},
		BookingConfig: BookingConfig{
			TaxRatePercent:    v.GetInt64("TAX_RATE_PERCENT"),
			PendingExpiryDays: v.GetInt("PENDING_EXPIRY_DAYS"),
		},
		CouponRateLimit:  v.GetInt("COUPON_RATE_LIMIT"),
		SchedulerEnabled: v.GetBool("SCHEDULER_ENABLED"),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
