package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_TOKEN", "token-123")
	t.Setenv("DISCORD_APP_ID", "app-123")
	t.Setenv("CLASH_API_TOKEN", "clash-token")
	t.Setenv("IMAGE_SERVICE_URL", "http://images.local")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token-123", cfg.Discord.Token)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "https://api.clashofclans.com/v1", cfg.Clash.BaseURL)
	assert.Equal(t, 300*time.Second, cfg.Session.Timeout)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Zero(t, cfg.Clash.CacheTTL)
}

func TestLoad_MissingToken(t *testing.T) {
	setRequired(t)
	t.Setenv("DISCORD_TOKEN", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	setRequired(t)
	t.Setenv("STORE_BACKEND", StorePostgres)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_DSN")

	t.Setenv("POSTGRES_DSN", "postgres://bot@localhost/bot?sslmode=disable")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.StoreBackend)
}

func TestLoad_UnknownBackend(t *testing.T) {
	setRequired(t)
	t.Setenv("STORE_BACKEND", "mongo")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_SessionTimeoutOverride(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_TIMEOUT", "90s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Session.Timeout)
}

func TestLoad_RateLimit(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)

	t.Setenv("RATE_LIMIT_REQUESTS", "0")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadStore_WithoutDiscordSettings(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("STORE_BACKEND", StoreRedis)
	t.Setenv("REDIS_URL", "redis://localhost:6379/2")

	cfg, err := LoadStore()
	require.NoError(t, err)
	assert.Equal(t, StoreRedis, cfg.Backend)
	assert.Equal(t, "redis://localhost:6379/2", cfg.Redis.URL)
}
