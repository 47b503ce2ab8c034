package middleware

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/KirkDiggler/clash-profile-bot/internal/discord/v2/core"
)

func TestErrorMiddleware_UserError(t *testing.T) {
	handler := ErrorMiddleware(DefaultErrorConfig(zaptest.NewLogger(t)))(
		failingHandler(core.NewUserError("Invalid selection.", core.ErrorCodeBadRequest)))

	result, err := handler.Handle(newTestContext())

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Invalid selection.", result.Response.Content)
	assert.True(t, result.Response.Ephemeral)
}

func TestErrorMiddleware_GenericError(t *testing.T) {
	handler := ErrorMiddleware(nil)(failingHandler(errors.New("database exploded")))

	result, err := handler.Handle(newTestContext())

	require.NoError(t, err)
	assert.Equal(t, "An error occurred while processing your request.", result.Response.Content)
}

func TestErrorMiddleware_SilentErrorIsOnlyLogged(t *testing.T) {
	observed, logs := observer.New(zapcore.ErrorLevel)

	handler := ErrorMiddleware(DefaultErrorConfig(zap.New(observed)))(
		failingHandler(core.NewSilentError(errors.New("image service returned 502"))))

	result, err := handler.Handle(newTestContext())

	require.NoError(t, err)
	assert.Nil(t, result)
	require.Equal(t, 1, logs.FilterMessage("handler error").Len())
	assert.Equal(t, "profile", logs.All()[0].ContextMap()["command"])
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(zaptest.NewLogger(t))(
		core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			panic("nil map write")
		}))

	result, err := handler.Handle(newTestContext())

	require.Error(t, err)
	assert.Equal(t, "nil map write", err.Error())
	require.NotNil(t, result)
	assert.True(t, result.Response.Ephemeral)
}
