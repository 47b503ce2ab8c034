// Package commands implements profilectl, the operator tool for verified
// ownerships and saved default profiles.
package commands

import (
	"context"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KirkDiggler/clash-profile-bot/internal/config"
	"github.com/KirkDiggler/clash-profile-bot/internal/entities"
	"github.com/KirkDiggler/clash-profile-bot/internal/services"
)

// StoreOpener connects to the stores a command works on
type StoreOpener func(ctx context.Context) (*services.Stores, error)

type app struct {
	open   StoreOpener
	stores *services.Stores
}

// NewRootCmd creates the root command backed by the configured stores
func NewRootCmd() *cobra.Command {
	return newRootCmd(openConfiguredStores)
}

func newRootCmd(open StoreOpener) *cobra.Command {
	a := &app{open: open}

	cmd := &cobra.Command{
		Use:          "profilectl",
		Short:        "Manage verified owners and default profiles",
		Long:         `profilectl edits the ownership and default profile stores the bot reads, selected by STORE_BACKEND.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			stores, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			a.stores = stores
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.stores == nil {
				return nil
			}
			return a.stores.Close()
		},
	}

	cmd.AddCommand(
		newVerifyCmd(a),
		newDefaultCmd(a),
	)

	return cmd
}

func openConfiguredStores(ctx context.Context) (*services.Stores, error) {
	cfg, err := config.LoadStore()
	if err != nil {
		return nil, err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}

	if cfg.Backend == config.StoreMemory {
		logger.Warn("STORE_BACKEND=memory, changes are discarded when profilectl exits")
	}

	return services.OpenStores(ctx, cfg, logger)
}

// parseTag normalizes a tag argument and rejects malformed ones
func parseTag(raw string) (string, error) {
	tag := entities.ParseTag(raw)
	if !entities.IsTagValid(tag) {
		return "", fmt.Errorf("invalid tag %q", raw)
	}
	return tag, nil
}

func parseUserID(raw string) (string, error) {
	id, err := snowflake.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid user id %q", raw)
	}
	return id.String(), nil
}
