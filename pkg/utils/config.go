package utils

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Booking  BookingConfig
	Payment  PaymentConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Name            string
	Port            string
	Debug           bool
	LogPath         string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
	Migrate  bool
}

// RedisConfig with an empty Addr disables the redis notifier.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

type BookingConfig struct {
	// CancelMinLeadTime is how long before check-in a reservation stops being cancellable.
	CancelMinLeadTime time.Duration
	CodePrefix        string
	CodeMaxAttempts   int
}

type PaymentConfig struct {
	WebhookSecret string
}

// TracingConfig turns on span export to a rotated file under the log path.
type TracingConfig struct {
	Enabled     bool
	SampleRatio float64
}

func LoadConfig() (*Config, error) {
	return LoadConfigFile(".env")
}

// LoadConfigFile reads path when it exists; environment variables always win.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "rental-booking")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIGRATE", true)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_CHANNEL", "reservation-events")
	v.SetDefault("CANCEL_MIN_LEAD_HOURS", 0)
	v.SetDefault("RESERVATION_CODE_PREFIX", "RSV")
	v.SetDefault("RESERVATION_CODE_MAX_ATTEMPTS", 5)
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_SAMPLE_RATIO", 1.0)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:            v.GetString("APP_NAME"),
			Port:            v.GetString("PORT"),
			Debug:           v.GetBool("DEBUG"),
			LogPath:         v.GetString("LOG_PATH"),
			ShutdownTimeout: time.Duration(v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
			Migrate:  v.GetBool("DB_MIGRATE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			Channel:  v.GetString("REDIS_CHANNEL"),
		},
		Booking: BookingConfig{
			CancelMinLeadTime: time.Duration(v.GetInt("CANCEL_MIN_LEAD_HOURS")) * time.Hour,
			CodePrefix:        v.GetString("RESERVATION_CODE_PREFIX"),
			CodeMaxAttempts:   v.GetInt("RESERVATION_CODE_MAX_ATTEMPTS"),
		},
		Payment: PaymentConfig{
			WebhookSecret: v.GetString("PAYMENT_WEBHOOK_SECRET"),
		},
		Tracing: TracingConfig{
			Enabled:     v.GetBool("TRACING_ENABLED"),
			SampleRatio: v.GetFloat64("TRACING_SAMPLE_RATIO"),
		},
	}

	return config, nil
}
