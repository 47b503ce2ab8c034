package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/clash-profile-bot/internal/discord/v2/core"
)

// RateLimitConfig limits each user to MaxRequests interactions per Window
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration

	// Store counts requests; defaults to a MemoryRateLimitStore
	Store  RateLimitStore
	Logger *zap.Logger
}

// RateLimitStore counts requests in fixed windows
type RateLimitStore interface {
	// Increment counts one request for key and returns the count in the current window
	Increment(ctx context.Context, key string, window time.Duration) (int, error)

	Reset(ctx context.Context, key string) error
}

// RateLimitMiddleware answers users over their limit with an ephemeral notice.
// A failing store lets the request through.
func RateLimitMiddleware(config *RateLimitConfig) core.Middleware {
	store := config.Store
	if store == nil {
		store = NewMemoryRateLimitStore()
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	notice := fmt.Sprintf("⏱️ You're doing that too fast! Please wait %v before trying again.", config.Window)

	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			if ctx.UserID == "" {
				return next.Handle(ctx)
			}

			count, err := store.Increment(ctx.Context, ctx.UserID, config.Window)
			switch {
			case err != nil:
				logger.Warn("rate limit store failed", zap.String("user_id", ctx.UserID), zap.Error(err))
			case count > config.MaxRequests:
				logger.Debug("rate limited",
					zap.String("user_id", ctx.UserID),
					zap.Int("count", count))
				return &core.HandlerResult{Response: core.NewEphemeralResponse(notice)}, nil
			}

			return next.Handle(ctx)
		})
	}
}

// MemoryRateLimitStore keeps windows in process. Expired windows are swept
// during Increment at most once per sweepInterval.
type MemoryRateLimitStore struct {
	mu        sync.Mutex
	windows   map[string]rateWindow
	nextSweep time.Time
	now       func() time.Time
}

type rateWindow struct {
	count int
	ends  time.Time
}

const sweepInterval = time.Minute

func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	return &MemoryRateLimitStore{
		windows: make(map[string]rateWindow),
		now:     time.Now,
	}
}

func (s *MemoryRateLimitStore) Increment(_ context.Context, key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.After(s.nextSweep) {
		for k, w := range s.windows {
			if !now.Before(w.ends) {
				delete(s.windows, k)
			}
		}
		s.nextSweep = now.Add(sweepInterval)
	}

	w, ok := s.windows[key]
	if !ok || !now.Before(w.ends) {
		w = rateWindow{ends: now.Add(window)}
	}
	w.count++
	s.windows[key] = w

	return w.count, nil
}

func (s *MemoryRateLimitStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.windows, key)
	return nil
}
