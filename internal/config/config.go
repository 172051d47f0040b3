// File: internal/config/config.go
package config

import "time"

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	JWT           JWTConfig           `yaml:"jwt"`
	Security      SecurityConfig      `yaml:"security"`
	SSO           SSOConfig           `yaml:"sso"`
	Authorization AuthorizationConfig `yaml:"authorization"`
	Logging       LoggingConfig       `yaml:"logging"`
	Metrics       MetricsConfig       `yaml:"metrics"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
	Environment     string        `yaml:"environment" env:"ENVIRONMENT" env-default:"development"`
}

type DatabaseConfig struct {
	Host           string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User           string `yaml:"user" env:"DB_USER" env-default:"sso"`
	Password       string `yaml:"password" env:"DB_PASSWORD"`
	DBName         string `yaml:"dbname" env:"DB_NAME" env-default:"sso"`
	SSLMode        string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	AutoMigrate    bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"false"`
	MigrationsPath string `yaml:"migrations_path" env-default:"migrations"`
}

type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type JWTConfig struct {
	Secret          string        `yaml:"secret" env:"JWT_SECRET"`
	Issuer          string        `yaml:"issuer" env-default:"sso-service"`
	Audience        string        `yaml:"audience" env-default:"sso-clients"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env-default:"2h"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env-default:"168h"`
	// ExpiryGrace keeps a session record around past its expiry so a
	// recently expired refresh token can be reported as expired rather
	// than unknown.
	ExpiryGrace time.Duration `yaml:"expiry_grace" env-default:"24h"`
}

type LockoutConfig struct {
	MaxFailedAttempts int `yaml:"max_failed_attempts" env-default:"5"`
	// Duration of 0 means a lock is held until administrative unlock.
	Duration time.Duration `yaml:"duration" env-default:"30m"`
}

type PasswordHashConfig struct {
	// Scheme selects the digest scheme for newly stored passwords:
	// "salted_digest" (compatible with existing account records) or
	// "argon2id". Verification accepts both regardless.
	Scheme      string `yaml:"scheme" env-default:"salted_digest"`
	Memory      uint32 `yaml:"memory" env-default:"65536"`
	Iterations  uint32 `yaml:"iterations" env-default:"3"`
	Parallelism uint8  `yaml:"parallelism" env-default:"2"`
	SaltLength  uint32 `yaml:"salt_length" env-default:"16"`
	KeyLength   uint32 `yaml:"key_length" env-default:"32"`
}

type SecurityConfig struct {
	Lockout      LockoutConfig      `yaml:"lockout"`
	PasswordHash PasswordHashConfig `yaml:"password_hash"`
}

type SSOConfig struct {
	TicketTTL   time.Duration `yaml:"ticket_ttl" env-default:"5m"`
	ExpiryGrace time.Duration `yaml:"expiry_grace" env-default:"1m"`
}

type AuthorizationConfig struct {
	CatalogPath string        `yaml:"catalog_path" env:"AUTHZ_CATALOG_PATH" env-default:"catalog.yaml"`
	ViewTTL     time.Duration `yaml:"view_ttl" env-default:"5m"`
	// UserTypeRoles maps a registration user_type to the role assigned to
	// the new account; unmapped types receive the catalog default role.
	UserTypeRoles map[string]string `yaml:"user_type_roles"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env-default:"json"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled" env-default:"true"`
}
