package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string   `env:"APP_ENV" envDefault:"development"`
	Port           string   `env:"PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	DatabaseURL     string        `env:"DATABASE_URL"`
	DBHost          string        `env:"DB_HOST" envDefault:"localhost"`
	DBPort          string        `env:"DB_PORT" envDefault:"5432"`
	DBUser          string        `env:"DB_USER" envDefault:"postgres"`
	DBPassword      string        `env:"DB_PASSWORD"`
	DBName          string        `env:"DB_NAME" envDefault:"advisoryhub"`
	DBSSLMode       string        `env:"DB_SSLMODE" envDefault:"disable"`
	DBMaxOpenConns  int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns  int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLife   time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	DBLogQueries    bool          `env:"DB_LOG_QUERIES" envDefault:"false"`
	RedisURL        string        `env:"REDIS_URL"`
	MeiliSearchHost string        `env:"MEILISEARCH_HOST"`
	MeiliMasterKey  string        `env:"MEILI_MASTER_KEY"`

	JWTSecret string `env:"JWT_SECRET"`
	JWTIssuer string `env:"JWT_ISSUER" envDefault:"advisoryhub"`

	BookingCooldown   time.Duration `env:"BOOKING_COOLDOWN" envDefault:"5s"`
	DirectoryCacheTTL time.Duration `env:"DIRECTORY_CACHE_TTL" envDefault:"10m"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	SeedDirectory     bool          `env:"SEED_DIRECTORY" envDefault:"false"`
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.BookingCooldown < 0 {
		return errors.New("BOOKING_COOLDOWN must not be negative")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// DSN prefers DATABASE_URL and otherwise assembles a key/value DSN from the DB_* variables.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	parts := []string{
		"host=" + c.DBHost,
		"port=" + c.DBPort,
		"user=" + c.DBUser,
		"dbname=" + c.DBName,
		"sslmode=" + c.DBSSLMode,
	}
	if c.DBPassword != "" {
		parts = append(parts, "password="+c.DBPassword)
	}
	return strings.Join(parts, " ")
}

// MeiliHost accepts either a full URL or a bare hostname for MEILISEARCH_HOST.
func (c *Config) MeiliHost() string {
	if c.MeiliSearchHost == "" {
		return ""
	}
	if !strings.HasPrefix(c.MeiliSearchHost, "http") {
		return "http://" + c.MeiliSearchHost + ":7700"
	}
	return c.MeiliSearchHost
}
