package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage driver selection values for STORAGE_DRIVER.
const (
	StoragePgsql  = "pgsql"
	StorageMemory = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	StorageDriver string

	// Kafka event publishing; disabled when KAFKA_BROKER is empty.
	KafkaBroker       string
	KafkaPostingTopic string

	// Requests per minute per client IP for the API surface.
	RateLimitPerMinute int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("STORAGE_DRIVER", StoragePgsql)
	viper.SetDefault("KAFKA_BROKER", "")
	viper.SetDefault("KAFKA_POSTING_TOPIC", "pump-ledger.voucher-events")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 300)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.StorageDriver = viper.GetString("STORAGE_DRIVER")
	cfg.KafkaBroker = viper.GetString("KAFKA_BROKER")
	cfg.KafkaPostingTopic = viper.GetString("KAFKA_POSTING_TOPIC")
	cfg.RateLimitPerMinute = viper.GetInt("RATE_LIMIT_PER_MINUTE")

	if cfg.StorageDriver == StoragePgsql && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	return cfg, nil
}
