// File: internal/config/loader.go
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Load reads configuration from the given YAML file, overlaying environment
// variables on top. A .env file, if present, is loaded first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
			return &cfg, validate(&cfg)
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}
	return &cfg, validate(&cfg)
}

func validate(cfg *Config) error {
	if cfg.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret must be set")
	}
	if cfg.Security.Lockout.MaxFailedAttempts <= 0 {
		return fmt.Errorf("security.lockout.max_failed_attempts must be positive")
	}
	if cfg.Authorization.ViewTTL >= cfg.JWT.AccessTokenTTL {
		return fmt.Errorf("authorization.view_ttl must be shorter than jwt.access_token_ttl")
	}
	return nil
}

// DSN builds the Postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

// Addr builds the Redis address.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
