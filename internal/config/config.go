package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"3000"`
	Env      string `envconfig:"ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL"`

	StoreBackend  string `envconfig:"STORE_BACKEND" default:"memory"`
	DataDir       string `envconfig:"DATA_DIR" default:"."`
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB"`
	RedisPrefix   string `envconfig:"REDIS_PREFIX" default:"zenith:session:"`
	DatabaseURL   string `envconfig:"DATABASE_URL"`

	// CatalogFile overrides the embedded catalog when set.
	CatalogFile string `envconfig:"CATALOG_FILE"`

	RateLimitPerMinute int      `envconfig:"RATE_LIMIT_PER_MINUTE" default:"60"`
	RateLimitBurst     int      `envconfig:"RATE_LIMIT_BURST" default:"10"`
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	SessionLockTTL time.Duration `envconfig:"SESSION_LOCK_TTL" default:"1h"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates cfg and canonicalises enum-like fields in place.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	cfg.Port = strings.TrimSpace(cfg.Port)
	if cfg.Port == "" {
		cfg.Port = "3000"
	}

	env := strings.ToLower(strings.TrimSpace(cfg.Env))
	switch env {
	case "", "dev", EnvDevelopment:
		env = EnvDevelopment
	case "prod", EnvProduction:
		env = EnvProduction
	default:
		return fmt.Errorf("invalid ENV %q; allowed: development, production", cfg.Env)
	}
	cfg.Env = env
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	backend := strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	switch backend {
	case "":
		backend = "memory"
	case "memory", "bolt", "redis":
	case "postgres", "postgresql":
		backend = "postgres"
	default:
		return fmt.Errorf("invalid STORE_BACKEND %q; allowed: memory, bolt, redis, postgres", cfg.StoreBackend)
	}
	cfg.StoreBackend = backend

	switch backend {
	case "bolt":
		if strings.TrimSpace(cfg.DataDir) == "" {
			cfg.DataDir = "."
		}
		cfg.DataDir = filepath.Clean(cfg.DataDir)
	case "redis":
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return fmt.Errorf("REDIS_ADDR is required when STORE_BACKEND is redis")
		}
		if cfg.RedisDB < 0 {
			return fmt.Errorf("REDIS_DB must be >= 0")
		}
	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND is postgres")
		}
	}

	if cfg.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be >= 0")
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 1
	}

	origins := cfg.CORSAllowedOrigins[:0]
	for _, o := range cfg.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cfg.CORSAllowedOrigins = origins

	if cfg.SessionLockTTL <= 0 {
		cfg.SessionLockTTL = time.Hour
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.Env == EnvProduction }
