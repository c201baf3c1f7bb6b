// Package config loads application settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	devAccessSecret  = "dev_access_secret_change_me"
	devRefreshSecret = "dev_refresh_secret_change_me"
	minSecretLength  = 32
)

// Config holds application configuration values loaded from the environment.
type Config struct {
	Env            string        `mapstructure:"APP_ENV"`
	Port           string        `mapstructure:"APP_PORT"`
	StoreDriver    string        `mapstructure:"STORE_DRIVER"`
	DatabaseDSN    string        `mapstructure:"DATABASE_DSN"`
	MongoURI       string        `mapstructure:"MONGO_URI"`
	MongoDatabase  string        `mapstructure:"MONGO_DATABASE"`
	RedisURL       string        `mapstructure:"REDIS_URL"`
	RabbitMQURL    string        `mapstructure:"RABBITMQ_URL"`
	AccessSecret   string        `mapstructure:"JWT_ACCESS_SECRET"`
	RefreshSecret  string        `mapstructure:"JWT_REFRESH_SECRET"`
	AccessTTL      time.Duration `mapstructure:"JWT_ACCESS_EXPIRES_IN"`
	RefreshTTL     time.Duration `mapstructure:"JWT_REFRESH_EXPIRES_IN"`
	ResetTTL       time.Duration `mapstructure:"RESET_TOKEN_EXPIRES_IN"`
	BcryptCost     int           `mapstructure:"BCRYPT_COST"`
	ResetUILink    string        `mapstructure:"RESET_UI_LINK"`
	MetricsEnabled bool          `mapstructure:"METRICS_ENABLED"`
	LoginRateLimit int           `mapstructure:"LOGIN_RATE_LIMIT"`
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads an optional .env file, then environment variables over defaults.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("STORE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:garden.db?cache=shared")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "garden")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("JWT_ACCESS_SECRET", devAccessSecret)
	v.SetDefault("JWT_REFRESH_SECRET", devRefreshSecret)
	v.SetDefault("JWT_ACCESS_EXPIRES_IN", "1h")
	v.SetDefault("JWT_REFRESH_EXPIRES_IN", "720h")
	v.SetDefault("RESET_TOKEN_EXPIRES_IN", "10m")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("RESET_UI_LINK", "http://localhost:3000/reset-password")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("LOGIN_RATE_LIMIT", 10)
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case "sqlite", "postgres", "mongo":
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be sqlite, postgres or mongo, got %q", c.StoreDriver))
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 || c.ResetTTL <= 0 {
		errs = append(errs, errors.New("token lifetimes must be positive"))
	}
	if c.IsProduction() {
		if c.AccessSecret == devAccessSecret || len(c.AccessSecret) < minSecretLength {
			errs = append(errs, fmt.Errorf("JWT_ACCESS_SECRET must be set and at least %d characters in production", minSecretLength))
		}
		if c.RefreshSecret == devRefreshSecret || len(c.RefreshSecret) < minSecretLength {
			errs = append(errs, fmt.Errorf("JWT_REFRESH_SECRET must be set and at least %d characters in production", minSecretLength))
		}
	}
	if c.AccessSecret == c.RefreshSecret {
		errs = append(errs, errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ"))
	}
	return errors.Join(errs...)
}
