package services

import (
	"go.uber.org/zap"

	"github.com/KirkDiggler/clash-profile-bot/internal/clients/clash"
	"github.com/KirkDiggler/clash-profile-bot/internal/repositories/profiles"
	"github.com/KirkDiggler/clash-profile-bot/internal/repositories/verifications"
	"github.com/KirkDiggler/clash-profile-bot/internal/services/profile"
)

// Provider holds all service instances
type Provider struct {
	ProfileService profile.Service
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	ClashClient clash.Client // Required

	// Repositories default to in-memory when nil
	DefaultsRepository      profiles.Repository
	VerificationsRepository verifications.Repository

	Logger *zap.Logger
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	defaults := cfg.DefaultsRepository
	if defaults == nil {
		defaults = profiles.NewInMemoryRepository()
	}

	owners := cfg.VerificationsRepository
	if owners == nil {
		owners = verifications.NewInMemoryRepository()
	}

	return &Provider{
		ProfileService: profile.NewService(&profile.ServiceConfig{
			ClashClient:   cfg.ClashClient,
			Defaults:      defaults,
			Verifications: owners,
			Logger:        cfg.Logger,
		}),
	}
}
