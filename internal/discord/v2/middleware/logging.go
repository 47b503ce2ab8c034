package middleware

import (
	"errors"
	"maps"
	"strconv"
	"time"

	"github.com/KirkDiggler/clash-profile-bot/internal/discord/v2/core"
	"github.com/KirkDiggler/clash-profile-bot/internal/uuid"
	"go.uber.org/zap"
)

// LogConfig selects what LoggingMiddleware writes
type LogConfig struct {
	Logger *zap.Logger

	// LogRequests writes "interaction received" at info level
	LogRequests bool

	// LogDuration writes "interaction completed" with timing at debug level
	LogDuration bool
}

func DefaultLogConfig(logger *zap.Logger) *LogConfig {
	return &LogConfig{
		Logger:      logger,
		LogRequests: true,
		LogDuration: true,
	}
}

// LoggingMiddleware logs each interaction and its outcome. Failures are
// always logged.
func LoggingMiddleware(config *LogConfig) core.Middleware {
	if config == nil {
		config = DefaultLogConfig(nil)
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			fields := InteractionFields(ctx)
			if config.LogRequests {
				logger.Info("interaction received", fields...)
			}

			start := time.Now()
			result, err := next.Handle(ctx)
			elapsed := time.Since(start)

			if err != nil {
				logger.Error("interaction failed", append(fields, zap.Error(err))...)
			}
			if config.LogDuration {
				logger.Debug("interaction completed", append(fields,
					zap.Duration("duration", elapsed),
					zap.String("status", responseStatus(result)))...)
			}

			return result, err
		})
	}
}

// MetricsMiddleware counts interactions, times them and counts failures by
// HandlerError code (500 for other errors)
func MetricsMiddleware(collector MetricsCollector) core.Middleware {
	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			labels := extractLabels(ctx)
			collector.IncrementCounter("discord_interactions_total", labels)

			start := time.Now()
			result, err := next.Handle(ctx)
			collector.ObserveHistogram("discord_interaction_duration_seconds", time.Since(start).Seconds(), labels)

			if err != nil {
				code := core.ErrorCodeInternal
				var handlerErr *core.HandlerError
				if errors.As(err, &handlerErr) {
					code = handlerErr.Code
				}

				failed := maps.Clone(labels)
				failed["error_code"] = strconv.Itoa(code)
				collector.IncrementCounter("discord_interactions_errors_total", failed)
			}

			return result, err
		})
	}
}

// MetricsCollector collects metrics
type MetricsCollector interface {
	IncrementCounter(name string, labels map[string]string)
	ObserveHistogram(name string, value float64, labels map[string]string)
}

// InteractionFields returns the structured log fields describing an interaction
func InteractionFields(ctx *core.InteractionContext) []zap.Field {
	fields := []zap.Field{
		zap.String("user_id", ctx.UserID),
		zap.String("guild_id", ctx.GuildID),
	}

	if requestID := RequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}

	switch {
	case ctx.IsCommand():
		fields = append(fields,
			zap.String("command", ctx.GetCommandName()),
			zap.String("subcommand", ctx.GetSubcommand()))
	case ctx.IsComponent():
		fields = append(fields,
			zap.String("custom_id", ctx.GetCustomID()),
			zap.String("message_id", ctx.MessageID))
	}

	return fields
}

func responseStatus(result *core.HandlerResult) string {
	switch {
	case result == nil || result.Response == nil:
		return "no_response"
	case result.Response.Ephemeral:
		return "ephemeral"
	default:
		return "success"
	}
}

// extractLabels extracts common labels for metrics
func extractLabels(ctx *core.InteractionContext) map[string]string {
	labels := make(map[string]string)

	if ctx.IsCommand() {
		labels["interaction_type"] = "command"
		labels["command"] = ctx.GetCommandName()
		if sub := ctx.GetSubcommand(); sub != "" {
			labels["subcommand"] = sub
		}
	} else if ctx.IsComponent() {
		labels["interaction_type"] = "component"
		if parsed, err := core.ParseCustomID(ctx.GetCustomID()); err == nil {
			labels["domain"] = parsed.Domain
			labels["action"] = parsed.Action
		}
	}

	return labels
}

type requestIDKey struct{}

// RequestIDMiddleware adds a unique request ID to the context
func RequestIDMiddleware(generator uuid.Generator) core.Middleware {
	if generator == nil {
		generator = uuid.NewGoogleUUIDGenerator()
	}

	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			ctx.WithValue(requestIDKey{}, generator.New())
			return next.Handle(ctx)
		})
	}
}

// RequestID returns the id assigned by RequestIDMiddleware, if any
func RequestID(ctx *core.InteractionContext) string {
	if ctx.Context == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
