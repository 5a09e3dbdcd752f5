package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// KafkaConfig holds Kafka broker settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// JWTConfig holds token verification settings.
type JWTConfig struct {
	Secret string
}

// BookingConfig holds engine policy knobs.
type BookingConfig struct {
	// TaxBasisPoints is the tax rate applied to base prices (1800 = 18%).
	TaxBasisPoints int64
	// PendingTTL is how long a pending booking may hold a vehicle before
	// the reaper cancels it.
	PendingTTL time.Duration
	// ExpiryInterval is how often the reaper runs.
	ExpiryInterval time.Duration
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port    string
	AppEnv  string
	DB      DatabaseConfig
	Kafka   KafkaConfig
	JWT     JWTConfig
	Booking BookingConfig
}

// Load reads configuration from CITYWHEELS_-prefixed environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("CITYWHEELS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", ":8080")
	v.SetDefault("app_env", "development")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "citywheels")
	v.SetDefault("db.password", "citywheels")
	v.SetDefault("db.name", "citywheels_booking")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.group_prefix", "citywheels-")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("booking.tax_basis_points", 1800)
	v.SetDefault("booking.pending_ttl", "24h")
	v.SetDefault("booking.expiry_interval", "15m")

	pendingTTL, err := time.ParseDuration(v.GetString("booking.pending_ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid booking.pending_ttl: %w", err)
	}
	expiryInterval, err := time.ParseDuration(v.GetString("booking.expiry_interval"))
	if err != nil {
		return nil, fmt.Errorf("invalid booking.expiry_interval: %w", err)
	}

	cfg := &ServiceConfig{
		Port:   v.GetString("port"),
		AppEnv: v.GetString("app_env"),
		DB: DatabaseConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
		},
		Kafka: KafkaConfig{
			Brokers:     strings.Split(v.GetString("kafka.brokers"), ","),
			GroupPrefix: v.GetString("kafka.group_prefix"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
		},
		Booking: BookingConfig{
			TaxBasisPoints: v.GetInt64("booking.tax_basis_points"),
			PendingTTL:     pendingTTL,
			ExpiryInterval: expiryInterval,
		},
	}

	if cfg.AppEnv != "development" && cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("CITYWHEELS_JWT_SECRET is required outside development")
	}
	return cfg, nil
}
