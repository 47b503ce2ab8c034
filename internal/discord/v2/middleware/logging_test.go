package middleware

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/KirkDiggler/clash-profile-bot/internal/discord/v2/core"
	"github.com/KirkDiggler/clash-profile-bot/internal/uuid"
)

type recordingCollector struct {
	counters   map[string][]map[string]string
	histograms map[string]int
}

func newRecordingCollector() *recordingCollector {
	return &recordingCollector{
		counters:   make(map[string][]map[string]string),
		histograms: make(map[string]int),
	}
}

func (c *recordingCollector) IncrementCounter(name string, labels map[string]string) {
	c.counters[name] = append(c.counters[name], labels)
}

func (c *recordingCollector) ObserveHistogram(name string, _ float64, _ map[string]string) {
	c.histograms[name]++
}

func TestLoggingMiddleware(t *testing.T) {
	observed, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(observed)

	handler := LoggingMiddleware(DefaultLogConfig(logger))(okHandler())

	_, err := handler.Handle(newTestContext())
	require.NoError(t, err)

	received := logs.FilterMessage("interaction received").All()
	require.Len(t, received, 1)
	fields := received[0].ContextMap()
	assert.Equal(t, "profile", fields["command"])
	assert.Equal(t, "show", fields["subcommand"])
	assert.Equal(t, "112233445566778899", fields["user_id"])

	completed := logs.FilterMessage("interaction completed").All()
	require.Len(t, completed, 1)
	assert.Equal(t, "success", completed[0].ContextMap()["status"])
}

func TestLoggingMiddleware_LogsErrors(t *testing.T) {
	observed, logs := observer.New(zapcore.InfoLevel)

	handler := LoggingMiddleware(DefaultLogConfig(zap.New(observed)))(failingHandler(errors.New("boom")))

	_, err := handler.Handle(newTestContext())
	require.Error(t, err)

	assert.Equal(t, 1, logs.FilterMessage("interaction failed").Len())
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(uuid.StaticGenerator("req-1"))(
		core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			seen = RequestID(ctx)
			return nil, nil
		}))

	_, err := handler.Handle(newTestContext())
	require.NoError(t, err)

	assert.Equal(t, "req-1", seen)
}

func TestMetricsMiddleware(t *testing.T) {
	collector := newRecordingCollector()

	ok := MetricsMiddleware(collector)(okHandler())
	_, err := ok.Handle(newTestContext())
	require.NoError(t, err)

	failing := MetricsMiddleware(collector)(failingHandler(core.NewNotFoundError("profile")))
	_, err = failing.Handle(newTestContext())
	require.Error(t, err)

	require.Len(t, collector.counters["discord_interactions_total"], 2)
	assert.Equal(t, "command", collector.counters["discord_interactions_total"][0]["interaction_type"])
	assert.Equal(t, 2, collector.histograms["discord_interaction_duration_seconds"])

	errorsTotal := collector.counters["discord_interactions_errors_total"]
	require.Len(t, errorsTotal, 1)
	assert.Equal(t, "404", errorsTotal[0]["error_code"])
}

func okHandler() core.Handler {
	return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
		return &core.HandlerResult{Response: core.NewResponse("ok")}, nil
	})
}

func failingHandler(err error) core.Handler {
	return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
		return nil, err
	})
}
