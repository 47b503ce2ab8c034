package verifications

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of the verification repository
// Useful for testing and development
type InMemoryRepository struct {
	mu     sync.RWMutex
	owners map[string]map[string]struct{} // tag -> user IDs
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		owners: make(map[string]map[string]struct{}),
	}
}

func (r *InMemoryRepository) IsOwner(ctx context.Context, tag, userID string) (bool, error) {
	if err := validate(tag, userID); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.owners[tag][userID]
	return ok, nil
}

func (r *InMemoryRepository) Add(ctx context.Context, tag, userID string) error {
	if err := validate(tag, userID); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.owners[tag] == nil {
		r.owners[tag] = make(map[string]struct{})
	}
	r.owners[tag][userID] = struct{}{}
	return nil
}

func (r *InMemoryRepository) Remove(ctx context.Context, tag, userID string) (bool, error) {
	if err := validate(tag, userID); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.owners[tag][userID]
	delete(r.owners[tag], userID)
	if len(r.owners[tag]) == 0 {
		delete(r.owners, tag)
	}
	return ok, nil
}

func (r *InMemoryRepository) ListByUser(ctx context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tags []string
	for tag, users := range r.owners {
		if _, ok := users[userID]; ok {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags, nil
}
