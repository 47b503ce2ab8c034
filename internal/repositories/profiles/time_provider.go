package profiles

import "time"

//go:generate mockgen -destination=mocks/mock_time_provider.go -package=mocks github.com/KirkDiggler/clash-profile-bot/internal/repositories/profiles TimeProvider

type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider uses the wall clock
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
