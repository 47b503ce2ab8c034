package middleware

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/KirkDiggler/clash-profile-bot/internal/discord/v2/core"
)

// Replies for failures that carry no message of their own
const (
	DefaultErrorMessage = "An error occurred while processing your request."
	PanicMessage        = "An unexpected error occurred. Please try again later."
)

// ErrorConfig configures ErrorMiddleware
type ErrorConfig struct {
	Logger *zap.Logger

	// Fallback is the reply to errors without a user message
	Fallback string
}

// DefaultErrorConfig logs to logger and falls back to DefaultErrorMessage
func DefaultErrorConfig(logger *zap.Logger) *ErrorConfig {
	return &ErrorConfig{
		Logger:   logger,
		Fallback: DefaultErrorMessage,
	}
}

// ErrorMiddleware logs handler errors and answers them with an ephemeral reply.
// Silent errors are logged and get no reply.
func ErrorMiddleware(config *ErrorConfig) core.Middleware {
	if config == nil {
		config = DefaultErrorConfig(nil)
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fallback := config.Fallback
	if fallback == "" {
		fallback = DefaultErrorMessage
	}

	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			result, err := next.Handle(ctx)
			if err == nil {
				return result, nil
			}

			logger.Error("handler error", append(InteractionFields(ctx), zap.Error(err))...)

			message := errorReply(err, fallback)
			if message == "" {
				return nil, nil
			}
			return &core.HandlerResult{Response: core.NewEphemeralResponse(message)}, nil
		})
	}
}

// errorReply picks the reply for err, "" when it must stay silent
func errorReply(err error, fallback string) string {
	var handlerErr *core.HandlerError
	if !errors.As(err, &handlerErr) {
		return fallback
	}
	if !handlerErr.ShowToUser {
		return ""
	}
	if handlerErr.UserMessage == "" {
		return fallback
	}
	return handlerErr.UserMessage
}

// RecoveryMiddleware turns a handler panic into an error and a generic reply
func RecoveryMiddleware(logger *zap.Logger) core.Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (result *core.HandlerResult, err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				logger.Error("panic recovered in handler",
					append(InteractionFields(ctx), zap.Any("panic", r), zap.Stack("stack"))...)

				err = panicError(r)
				result = &core.HandlerResult{Response: core.NewEphemeralResponse(PanicMessage)}
			}()

			return next.Handle(ctx)
		})
	}
}

func panicError(r interface{}) error {
	switch v := r.(type) {
	case error:
		return v
	case string:
		return errors.New(v)
	default:
		return fmt.Errorf("panic: %v", v)
	}
}
