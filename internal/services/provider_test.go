package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	mockclash "github.com/KirkDiggler/clash-profile-bot/internal/clients/clash/mock"
	"github.com/KirkDiggler/clash-profile-bot/internal/config"
	"github.com/KirkDiggler/clash-profile-bot/internal/services"
	"github.com/KirkDiggler/clash-profile-bot/internal/testutils"
)

func TestNewProvider_DefaultsToMemory(t *testing.T) {
	ctrl := gomock.NewController(t)

	provider := services.NewProvider(&services.ProviderConfig{
		ClashClient: mockclash.NewMockClient(ctrl),
		Logger:      zaptest.NewLogger(t),
	})
	require.NotNil(t, provider.ProfileService)

	existed, err := provider.ProfileService.RemoveDefault(context.Background(), testutils.TestOwnerID)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestOpenStores_Memory(t *testing.T) {
	stores, err := services.OpenStores(context.Background(), &config.StoreConfig{Backend: config.StoreMemory}, nil)
	require.NoError(t, err)

	assert.NotNil(t, stores.Defaults)
	assert.NotNil(t, stores.Verifications)
	assert.Nil(t, stores.Redis)
	assert.NoError(t, stores.Close())
}

func TestOpenStores_UnknownBackend(t *testing.T) {
	_, err := services.OpenStores(context.Background(), &config.StoreConfig{Backend: "mongo"}, nil)
	assert.ErrorContains(t, err, "unknown store backend")
}

func TestOpenStores_BadRedisURL(t *testing.T) {
	cfg := &config.StoreConfig{
		Backend: config.StoreRedis,
		Redis:   config.RedisConfig{URL: "mongodb://localhost"},
	}

	_, err := services.OpenStores(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "failed to parse redis url")
}
