// Package config loads service settings from the environment and an
// optional config file.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds the service settings.
type Config struct {
	AppPort  string
	Database DatabaseConfig
	Events   EventsConfig
}

// DatabaseConfig selects the product store.
type DatabaseConfig struct {
	Driver      string
	DSN         string
	AutoMigrate bool
}

// EventsConfig controls publishing product events to RabbitMQ.
// Events are disabled when URL is empty.
type EventsConfig struct {
	URL     string
	Consume bool
}

// Enabled reports whether a broker URL was configured.
func (e EventsConfig) Enabled() bool {
	return e.URL != ""
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DSN", "file:products.db")
	v.SetDefault("DATABASE_AUTO_MIGRATE", true)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("EVENTS_CONSUME", false)
}

// Load reads the configuration from v. When configFile is not empty it is
// read first and environment variables still take precedence.
func Load(v *viper.Viper, configFile string) (Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := Config{
		AppPort: v.GetString("APP_PORT"),
		Database: DatabaseConfig{
			Driver:      v.GetString("DATABASE_DRIVER"),
			DSN:         v.GetString("DATABASE_DSN"),
			AutoMigrate: v.GetBool("DATABASE_AUTO_MIGRATE"),
		},
		Events: EventsConfig{
			URL:     v.GetString("RABBITMQ_URL"),
			Consume: v.GetBool("EVENTS_CONSUME"),
		},
	}

	switch cfg.Database.Driver {
	case DriverSQLite, DriverPostgres:
		if cfg.Database.DSN == "" {
			return Config{}, fmt.Errorf("DATABASE_DSN is required for driver %s", cfg.Database.Driver)
		}
	case DriverMemory:
	default:
		return Config{}, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
	if cfg.AppPort == "" {
		return Config{}, fmt.Errorf("APP_PORT must not be empty")
	}

	return cfg, nil
}
