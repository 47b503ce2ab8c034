// Package v2 wires the interaction pipeline: global middleware, routers and
// command registration.
package v2

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/KirkDiggler/clash-profile-bot/internal/discord/v2/core"
	"github.com/KirkDiggler/clash-profile-bot/internal/discord/v2/middleware"
	"github.com/KirkDiggler/clash-profile-bot/internal/discord/v2/routers"
	"github.com/KirkDiggler/clash-profile-bot/internal/discord/v2/selection"
	"github.com/KirkDiggler/clash-profile-bot/internal/services/profile"
	"github.com/KirkDiggler/clash-profile-bot/internal/uuid"
)

// DefaultHandlerTimeout bounds one interaction, image renders included
const DefaultHandlerTimeout = time.Minute

// BotConfig holds configuration for the bot
type BotConfig struct {
	Service  profile.Service    // Required
	Sessions *selection.Manager // Required
	Logger   *zap.Logger        // Optional

	// Metrics receives interaction counters, nil disables them
	Metrics middleware.MetricsCollector

	// RequestIDs defaults to random UUIDs
	RequestIDs uuid.Generator

	// RateLimitStore defaults to an in-memory store
	RateLimitStore  middleware.RateLimitStore
	RateLimit       int
	RateLimitWindow time.Duration

	HandlerTimeout time.Duration

	// ResponderFactory replaces the Discord responder, used by tests
	ResponderFactory core.ResponderFactory
}

// Bot dispatches gateway interactions through the pipeline
type Bot struct {
	pipeline *core.Pipeline
	logger   *zap.Logger
	timeout  time.Duration
}

// NewBot builds the pipeline and registers every router
func NewBot(cfg *BotConfig) *Bot {
	if cfg.Service == nil {
		panic("profile service is required")
	}
	if cfg.Sessions == nil {
		panic("session manager is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ids := cfg.RequestIDs
	if ids == nil {
		ids = uuid.NewGoogleUUIDGenerator()
	}
	timeout := cfg.HandlerTimeout
	if timeout <= 0 {
		timeout = DefaultHandlerTimeout
	}

	pipeline := core.NewPipeline()
	pipeline.SetLogger(logger)
	if cfg.ResponderFactory != nil {
		pipeline.SetResponderFactory(cfg.ResponderFactory)
	}

	global := []core.Middleware{
		middleware.RecoveryMiddleware(logger),
		middleware.RequestIDMiddleware(ids),
		middleware.ErrorMiddleware(middleware.DefaultErrorConfig(logger)),
		middleware.LoggingMiddleware(middleware.DefaultLogConfig(logger)),
	}
	if cfg.Metrics != nil {
		global = append(global, middleware.MetricsMiddleware(cfg.Metrics))
	}
	pipeline.Use(global...)

	var profileMiddleware []core.Middleware
	if cfg.RateLimit > 0 && cfg.RateLimitWindow > 0 {
		profileMiddleware = append(profileMiddleware, middleware.RateLimitMiddleware(&middleware.RateLimitConfig{
			MaxRequests: cfg.RateLimit,
			Window:      cfg.RateLimitWindow,
			Store:       cfg.RateLimitStore,
			Logger:      logger,
		}))
	}

	routers.NewProfileRouter(pipeline, &routers.ProfileRouterConfig{
		Service:    cfg.Service,
		Sessions:   cfg.Sessions,
		Logger:     logger,
		Middleware: profileMiddleware,
	})

	return &Bot{
		pipeline: pipeline,
		logger:   logger,
		timeout:  timeout,
	}
}

// Pipeline returns the configured pipeline
func (b *Bot) Pipeline() *core.Pipeline {
	return b.pipeline
}

// HandleInteraction is the discordgo handler for InteractionCreate events
func (b *Bot) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	if err := b.pipeline.Execute(ctx, s, i); err != nil {
		b.logger.Error("failed to handle interaction",
			zap.String("interaction_id", i.ID),
			zap.Error(err))
	}
}

// Commands lists the application commands the bot serves
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		routers.ProfileCommand(),
	}
}

// CommandRegistrar is the part of *discordgo.Session that publishes commands
type CommandRegistrar interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// RegisterCommands replaces the application's commands, globally when guildID is empty
func RegisterCommands(s CommandRegistrar, appID, guildID string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	created, err := s.ApplicationCommandBulkOverwrite(appID, guildID, Commands())
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	for _, cmd := range created {
		logger.Info("registered command", zap.String("name", cmd.Name), zap.String("guild_id", guildID))
	}
	return nil
}
