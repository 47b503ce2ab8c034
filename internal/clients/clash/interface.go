package clash

//go:generate mockgen -destination=mock/mock_client.go -package=mockclash . Client

import (
	"context"

	"github.com/KirkDiggler/clash-profile-bot/internal/entities"
)

// LookupResult is the outcome of a player lookup; Found is false when the tag does not exist
type LookupResult struct {
	Found  bool
	Player *entities.Player
}

type Client interface {
	// FindPlayer looks up a normalized tag (no leading '#')
	FindPlayer(ctx context.Context, tag string) (*LookupResult, error)
}
