package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/clash-profile-bot/internal/entities"
	apperr "github.com/KirkDiggler/clash-profile-bot/internal/errors"
)

func newDefaultCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "default",
		Short: "Manage saved default profiles",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <user-id>",
			Short: "Print a user's default tag",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runDefaultGet,
		},
		&cobra.Command{
			Use:   "set <user-id> <tag>",
			Short: "Save a tag as a user's default without looking it up",
			Args:  cobra.ExactArgs(2),
			RunE:  a.runDefaultSet,
		},
		&cobra.Command{
			Use:   "remove <user-id>",
			Short: "Remove a user's default tag",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runDefaultRemove,
		},
	)

	return cmd
}

func (a *app) runDefaultGet(cmd *cobra.Command, args []string) error {
	userID, err := parseUserID(args[0])
	if err != nil {
		return err
	}

	tag, err := a.stores.Defaults.Get(cmd.Context(), userID)
	if apperr.IsNotFound(err) {
		fmt.Fprintf(cmd.OutOrStdout(), "User %s has no default profile.\n", userID)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), entities.DisplayTag(tag))
	return nil
}

func (a *app) runDefaultSet(cmd *cobra.Command, args []string) error {
	userID, err := parseUserID(args[0])
	if err != nil {
		return err
	}
	tag, err := parseTag(args[1])
	if err != nil {
		return err
	}

	if err := a.stores.Defaults.Set(cmd.Context(), userID, tag); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s as the default profile of %s.\n", entities.DisplayTag(tag), userID)
	return nil
}

func (a *app) runDefaultRemove(cmd *cobra.Command, args []string) error {
	userID, err := parseUserID(args[0])
	if err != nil {
		return err
	}

	existed, err := a.stores.Defaults.Delete(cmd.Context(), userID)
	if err != nil {
		return err
	}

	if !existed {
		fmt.Fprintf(cmd.OutOrStdout(), "User %s has no default profile.\n", userID)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed the default profile of %s.\n", userID)
	return nil
}
