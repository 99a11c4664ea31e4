// Package config loads the service configuration from environment variables.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/atlas-transfers/service-pricing/internal/platform/database"
)

// KafkaConfig holds the Kafka consumer settings.
type KafkaConfig struct {
	Brokers      []string
	CatalogTopic string
	GroupID      string
}

// MapsConfig holds the distance-matrix client settings.
type MapsConfig struct {
	APIKey   string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// PricingConfig holds pricing-engine tunables.
type PricingConfig struct {
	Currency      string
	EstimatePerKm float64
	SnapshotTTL   time.Duration
}

// ServiceConfig holds all configuration for the pricing service.
type ServiceConfig struct {
	Port      string
	AppEnv    string
	DBConfig  database.PostgresConfig
	Kafka     KafkaConfig
	RedisAddr string
	Maps      MapsConfig
	Pricing   PricingConfig
}

// Load reads configuration from PRICING_-prefixed environment variables,
// falling back to development defaults.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("PRICING")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("SERVICE_PORT", "8084")
	v.SetDefault("APP_ENV", "development")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "pricing")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_CATALOG_TOPIC", "catalog-events")
	v.SetDefault("KAFKA_GROUP_ID", "service-pricing")

	v.SetDefault("REDIS_ADDR", "")

	v.SetDefault("MAPS_API_KEY", "")
	v.SetDefault("MAPS_TIMEOUT", "10s")
	v.SetDefault("MAPS_CACHE_TTL", "24h")

	v.SetDefault("CURRENCY", "MAD")
	v.SetDefault("ESTIMATE_PER_KM", 7.5)
	v.SetDefault("SNAPSHOT_TTL", "5m")

	return &ServiceConfig{
		Port:   v.GetString("SERVICE_PORT"),
		AppEnv: v.GetString("APP_ENV"),
		DBConfig: database.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Kafka: KafkaConfig{
			Brokers:      strings.Split(v.GetString("KAFKA_BROKERS"), ","),
			CatalogTopic: v.GetString("KAFKA_CATALOG_TOPIC"),
			GroupID:      v.GetString("KAFKA_GROUP_ID"),
		},
		RedisAddr: v.GetString("REDIS_ADDR"),
		Maps: MapsConfig{
			APIKey:   v.GetString("MAPS_API_KEY"),
			Timeout:  v.GetDuration("MAPS_TIMEOUT"),
			CacheTTL: v.GetDuration("MAPS_CACHE_TTL"),
		},
		Pricing: PricingConfig{
			Currency:      v.GetString("CURRENCY"),
			EstimatePerKm: v.GetFloat64("ESTIMATE_PER_KM"),
			SnapshotTTL:   v.GetDuration("SNAPSHOT_TTL"),
		},
	}, nil
}
