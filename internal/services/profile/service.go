package profile

//go:generate mockgen -destination=mock/mock_service.go -package=mockprofile -source=service.go

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"

	"github.com/KirkDiggler/clash-profile-bot/internal/clients/clash"
	"github.com/KirkDiggler/clash-profile-bot/internal/entities"
	apperr "github.com/KirkDiggler/clash-profile-bot/internal/errors"
	"github.com/KirkDiggler/clash-profile-bot/internal/repositories/profiles"
	"github.com/KirkDiggler/clash-profile-bot/internal/repositories/verifications"
)

// Service defines the profile service interface
type Service interface {
	// ResolveTag returns the explicit tag when given, otherwise the user's saved default.
	// Returns a not found error when neither exists.
	ResolveTag(ctx context.Context, userID, explicit string) (string, error)

	// Lookup normalizes and validates a raw tag and fetches the player
	Lookup(ctx context.Context, rawTag string) (*LookupOutput, error)

	// IsVerified reports whether the user is a verified owner of the tag
	IsVerified(ctx context.Context, tag, userID string) (bool, error)

	// SaveDefault validates the tag exists and stores it as the user's default
	SaveDefault(ctx context.Context, userID, rawTag string) (string, error)

	// RemoveDefault deletes the user's default and reports whether one existed
	RemoveDefault(ctx context.Context, userID string) (bool, error)
}

// LookupOutput is a found player and its normalized tag
type LookupOutput struct {
	Tag    string
	Player *entities.Player
}

// service implements the Service interface
type service struct {
	clashClient   clash.Client
	defaults      profiles.Repository
	verifications verifications.Repository
	logger        *zap.Logger
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	ClashClient   clash.Client             // Required
	Defaults      profiles.Repository      // Required
	Verifications verifications.Repository // Required
	Logger        *zap.Logger              // Optional
}

// NewService creates a new profile service
func NewService(cfg *ServiceConfig) Service {
	if cfg.ClashClient == nil {
		panic("clash client is required")
	}
	if cfg.Defaults == nil {
		panic("default profile repository is required")
	}
	if cfg.Verifications == nil {
		panic("verification repository is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &service{
		clashClient:   cfg.ClashClient,
		defaults:      cfg.Defaults,
		verifications: cfg.Verifications,
		logger:        logger.Named("profile"),
	}
}

func validateUserID(userID string) error {
	if _, err := snowflake.Parse(userID); err != nil {
		return apperr.InvalidArgumentf("invalid user ID '%s'", userID)
	}
	return nil
}

func (s *service) ResolveTag(ctx context.Context, userID, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if err := validateUserID(userID); err != nil {
		return "", err
	}

	tag, err := s.defaults.Get(ctx, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", err
		}
		return "", apperr.Wrap(err, "failed to load default profile")
	}

	return tag, nil
}

func (s *service) Lookup(ctx context.Context, rawTag string) (*LookupOutput, error) {
	tag := entities.ParseTag(rawTag)
	if !entities.IsTagValid(tag) {
		return nil, apperr.InvalidArgumentf("invalid tag '%s'", rawTag).
			WithMeta("tag", tag)
	}

	result, err := s.clashClient.FindPlayer(ctx, tag)
	if err != nil {
		s.logger.Warn("player lookup failed", zap.String("tag", tag), zap.Error(err))
		if apperr.IsUnavailable(err) {
			return nil, err
		}
		return nil, apperr.WrapWithCode(err, apperr.CodeUnavailable, "player lookup failed")
	}

	if result == nil || !result.Found || result.Player == nil {
		return nil, apperr.NotFoundf("no player with tag '%s'", tag).
			WithMeta("tag", tag)
	}

	return &LookupOutput{
		Tag:    tag,
		Player: result.Player,
	}, nil
}

func (s *service) IsVerified(ctx context.Context, tag, userID string) (bool, error) {
	if err := validateUserID(userID); err != nil {
		return false, err
	}

	return s.verifications.IsOwner(ctx, entities.ParseTag(tag), userID)
}

func (s *service) SaveDefault(ctx context.Context, userID, rawTag string) (string, error) {
	if err := validateUserID(userID); err != nil {
		return "", err
	}

	output, err := s.Lookup(ctx, rawTag)
	if err != nil {
		return "", err
	}

	if err := s.defaults.Set(ctx, userID, output.Tag); err != nil {
		return "", apperr.Wrap(err, "failed to save default profile")
	}

	s.logger.Info("default profile saved", zap.String("user_id", userID), zap.String("tag", output.Tag))
	return output.Tag, nil
}

func (s *service) RemoveDefault(ctx context.Context, userID string) (bool, error) {
	if err := validateUserID(userID); err != nil {
		return false, err
	}

	existed, err := s.defaults.Delete(ctx, userID)
	if err != nil {
		return false, apperr.Wrap(err, "failed to remove default profile")
	}

	return existed, nil
}
