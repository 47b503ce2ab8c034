package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store backends for default profiles and ownership verifications
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Discord      DiscordConfig
	Redis        RedisConfig
	Postgres     PostgresConfig
	Clash        ClashConfig
	ImageService ImageServiceConfig
	Session      SessionConfig
	RateLimit    RateLimitConfig
	Metrics      MetricsConfig
	Log          LogConfig

	// StoreBackend selects where default profiles and verifications live
	StoreBackend string `env:"STORE_BACKEND" envDefault:"memory"`
}

// DiscordConfig holds Discord-specific configuration
type DiscordConfig struct {
	Token   string `env:"DISCORD_TOKEN,notEmpty"`
	AppID   string `env:"DISCORD_APP_ID,notEmpty"`
	GuildID string `env:"DISCORD_GUILD_ID"` // Optional: for guild-specific commands
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// URL takes precedence over Addr/Password/DB when set
	URL      string `env:"REDIS_URL"`
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// PostgresConfig holds PostgreSQL configuration
type PostgresConfig struct {
	DSN string `env:"POSTGRES_DSN"`
}

// ClashConfig configures the player lookup API
type ClashConfig struct {
	BaseURL  string        `env:"CLASH_API_URL" envDefault:"https://api.clashofclans.com/v1"`
	Token    string        `env:"CLASH_API_TOKEN,notEmpty"`
	Timeout  time.Duration `env:"CLASH_API_TIMEOUT" envDefault:"10s"`
	CacheTTL time.Duration `env:"CLASH_CACHE_TTL" envDefault:"0s"`
}

// ImageServiceConfig configures the image rendering microservice
type ImageServiceConfig struct {
	BaseURL string        `env:"IMAGE_SERVICE_URL,notEmpty"`
	Timeout time.Duration `env:"IMAGE_SERVICE_TIMEOUT" envDefault:"30s"`
}

// SessionConfig configures interactive selection sessions
type SessionConfig struct {
	Timeout time.Duration `env:"SESSION_TIMEOUT" envDefault:"300s"`
}

// RateLimitConfig bounds how often one user may drive the bot
type RateLimitConfig struct {
	Requests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"20"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s"`
}

// MetricsConfig configures the prometheus endpoint
type MetricsConfig struct {
	// Addr is the listen address for /metrics, empty disables the endpoint
	Addr string `env:"METRICS_ADDR" envDefault:":9090"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	// Format is json (production encoder) or console (development encoder)
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// LoadDotEnv loads a .env file if present; a missing file is not an error
func LoadDotEnv(filenames ...string) bool {
	return godotenv.Load(filenames...) == nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints env tags cannot express
func (c *Config) Validate() error {
	if err := c.Store().Validate(); err != nil {
		return err
	}

	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}

	if c.Session.Timeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive, got %s", c.Session.Timeout)
	}

	return nil
}

// StoreConfig is the part of Config needed to reach the default profile and
// verification stores
type StoreConfig struct {
	Backend  string `env:"STORE_BACKEND" envDefault:"memory"`
	Redis    RedisConfig
	Postgres PostgresConfig
}

// Store returns the store settings of the bot configuration
func (c *Config) Store() *StoreConfig {
	return &StoreConfig{
		Backend:  c.StoreBackend,
		Redis:    c.Redis,
		Postgres: c.Postgres,
	}
}

// LoadStore loads only the store settings, for tools that never talk to Discord
func LoadStore() (*StoreConfig, error) {
	cfg := &StoreConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the backend is known and reachable settings are present
func (c *StoreConfig) Validate() error {
	switch c.Backend {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when STORE_BACKEND=%s", StorePostgres)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Backend)
	}

	return nil
}
