package profiles

//go:generate mockgen -destination=mock/mock.go -package=mockprofiles -source=interface.go

import (
	"context"
)

// Repository stores the default player tag of each Discord user
type Repository interface {
	// Get returns the saved tag, or a not found error when the user has none
	Get(ctx context.Context, userID string) (string, error)

	// Set saves tag as the user's default, replacing any previous one
	Set(ctx context.Context, userID, tag string) error

	// Delete removes the user's default and reports whether one existed
	Delete(ctx context.Context, userID string) (bool, error)
}
