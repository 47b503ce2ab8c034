package profiles

import (
	"context"
	"sync"

	apperr "github.com/KirkDiggler/clash-profile-bot/internal/errors"
)

// InMemoryRepository is an in-memory implementation of the default profile repository
// Useful for testing and development
type InMemoryRepository struct {
	mu       sync.RWMutex
	defaults map[string]string
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		defaults: make(map[string]string),
	}
}

func (r *InMemoryRepository) Get(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", apperr.InvalidArgument("user ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	tag, exists := r.defaults[userID]
	if !exists {
		return "", apperr.NotFoundf("no default profile for user '%s'", userID).
			WithMeta("user_id", userID)
	}

	return tag, nil
}

func (r *InMemoryRepository) Set(ctx context.Context, userID, tag string) error {
	if userID == "" {
		return apperr.InvalidArgument("user ID is required")
	}
	if tag == "" {
		return apperr.InvalidArgument("tag is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.defaults[userID] = tag
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, apperr.InvalidArgument("user ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.defaults[userID]
	delete(r.defaults, userID)
	return exists, nil
}
