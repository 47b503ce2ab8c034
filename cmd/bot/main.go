package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/KirkDiggler/clash-profile-bot/internal/clients/clash"
	"github.com/KirkDiggler/clash-profile-bot/internal/clients/imagegen"
	"github.com/KirkDiggler/clash-profile-bot/internal/config"
	v2 "github.com/KirkDiggler/clash-profile-bot/internal/discord/v2"
	"github.com/KirkDiggler/clash-profile-bot/internal/discord/v2/middleware"
	"github.com/KirkDiggler/clash-profile-bot/internal/discord/v2/selection"
	"github.com/KirkDiggler/clash-profile-bot/internal/metrics"
	"github.com/KirkDiggler/clash-profile-bot/internal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dotenv := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting bot",
		zap.Bool("dotenv", dotenv),
		zap.String("app_id", cfg.Discord.AppID),
		zap.String("guild_id", cfg.Discord.GuildID),
		zap.String("store", cfg.StoreBackend))

	ctx := context.Background()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	metricsServer := startMetricsServer(cfg.Metrics.Addr, m, logger)

	stores, err := services.OpenStores(ctx, cfg.Store(), logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(); err != nil {
			logger.Warn("failed to close stores", zap.Error(err))
		}
	}()

	clashClient, err := clash.New(&clash.Config{
		BaseURL:    cfg.Clash.BaseURL,
		Token:      cfg.Clash.Token,
		HttpClient: &http.Client{Timeout: cfg.Clash.Timeout},
	})
	if err != nil {
		return fmt.Errorf("failed to create clash client: %w", err)
	}
	if cfg.Clash.CacheTTL > 0 {
		clashClient, err = clash.NewCached(&clash.CachedConfig{
			Client:   clashClient,
			TTL:      cfg.Clash.CacheTTL,
			Requests: m.LookupCache,
		})
		if err != nil {
			return err
		}
		logger.Info("player lookup cache enabled", zap.Duration("ttl", cfg.Clash.CacheTTL))
	}

	images, err := imagegen.New(&imagegen.Config{
		BaseURL:    cfg.ImageService.BaseURL,
		HttpClient: &http.Client{Timeout: cfg.ImageService.Timeout},
		Duration:   m.ImageFetchDuration,
	})
	if err != nil {
		return fmt.Errorf("failed to create image client: %w", err)
	}

	provider := services.NewProvider(&services.ProviderConfig{
		ClashClient:             clashClient,
		DefaultsRepository:      stores.Defaults,
		VerificationsRepository: stores.Verifications,
		Logger:                  logger,
	})

	sessions := selection.NewManager(&selection.ManagerConfig{
		Images:  images,
		Timeout: cfg.Session.Timeout,
		Logger:  logger.Named("selection"),
		Metrics: m,
	})
	defer sessions.Close()

	var rateStore middleware.RateLimitStore
	if stores.Redis != nil {
		rateStore = middleware.NewRedisRateLimitStore(stores.Redis, "clashbot:ratelimit")
	} else {
		rateStore = middleware.NewMemoryRateLimitStore()
	}

	bot := v2.NewBot(&v2.BotConfig{
		Service:         provider.ProfileService,
		Sessions:        sessions,
		Logger:          logger,
		Metrics:         m,
		RateLimitStore:  rateStore,
		RateLimit:       cfg.RateLimit.Requests,
		RateLimitWindow: cfg.RateLimit.Window,
	})

	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds
	dg.AddHandler(bot.HandleInteraction)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open discord connection: %w", err)
	}
	defer func() {
		if err := dg.Close(); err != nil {
			logger.Warn("failed to close discord connection", zap.Error(err))
		}
	}()

	if err := v2.RegisterCommands(dg, cfg.Discord.AppID, cfg.Discord.GuildID, logger); err != nil {
		return err
	}
	if cfg.Discord.GuildID == "" {
		logger.Info("registered global commands, propagation may take up to an hour")
	}

	logger.Info("bot is running, press CTRL-C to exit")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.Info("shutting down", zap.Int("open_sessions", sessions.Len()))

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to stop metrics server", zap.Error(err))
		}
	}

	return nil
}

// newLogger builds a production (json) or development (console) logger
func newLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zapConfig := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = level

	return zapConfig.Build()
}

func startMetricsServer(addr string, m *metrics.Metrics, logger *zap.Logger) *http.Server {
	if addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", addr))

	return server
}
