package verifications

//go:generate mockgen -destination=mock/mock.go -package=mockverifications -source=interface.go

import (
	"context"
)

// Repository records which Discord users are verified owners of which player tags
type Repository interface {
	// IsOwner reports whether userID is a verified owner of tag
	IsOwner(ctx context.Context, tag, userID string) (bool, error)

	// Add marks userID as a verified owner of tag
	Add(ctx context.Context, tag, userID string) error

	// Remove drops the link and reports whether it existed
	Remove(ctx context.Context, tag, userID string) (bool, error)

	// ListByUser returns the tags userID is verified for, sorted
	ListByUser(ctx context.Context, userID string) ([]string, error)
}
