package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/clash-profile-bot/internal/entities"
)

func newVerifyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Manage verified owners of player tags",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "link <tag> <user-id>",
			Short: "Mark a user as a verified owner of a tag",
			Args:  cobra.ExactArgs(2),
			RunE:  a.runVerifyLink,
		},
		&cobra.Command{
			Use:   "unlink <tag> <user-id>",
			Short: "Remove a verified ownership",
			Args:  cobra.ExactArgs(2),
			RunE:  a.runVerifyUnlink,
		},
		&cobra.Command{
			Use:   "check <tag> <user-id>",
			Short: "Report whether a user is a verified owner of a tag",
			Args:  cobra.ExactArgs(2),
			RunE:  a.runVerifyCheck,
		},
		&cobra.Command{
			Use:   "list <user-id>",
			Short: "List the tags a user is verified for",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runVerifyList,
		},
	)

	return cmd
}

func parseOwnership(args []string) (string, string, error) {
	tag, err := parseTag(args[0])
	if err != nil {
		return "", "", err
	}
	userID, err := parseUserID(args[1])
	if err != nil {
		return "", "", err
	}
	return tag, userID, nil
}

func (a *app) runVerifyLink(cmd *cobra.Command, args []string) error {
	tag, userID, err := parseOwnership(args)
	if err != nil {
		return err
	}

	if err := a.stores.Verifications.Add(cmd.Context(), tag, userID); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "User %s is now a verified owner of %s.\n", userID, entities.DisplayTag(tag))
	return nil
}

func (a *app) runVerifyUnlink(cmd *cobra.Command, args []string) error {
	tag, userID, err := parseOwnership(args)
	if err != nil {
		return err
	}

	removed, err := a.stores.Verifications.Remove(cmd.Context(), tag, userID)
	if err != nil {
		return err
	}

	if !removed {
		fmt.Fprintf(cmd.OutOrStdout(), "User %s was not verified for %s.\n", userID, entities.DisplayTag(tag))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from the verified owners of %s.\n", userID, entities.DisplayTag(tag))
	return nil
}

func (a *app) runVerifyCheck(cmd *cobra.Command, args []string) error {
	tag, userID, err := parseOwnership(args)
	if err != nil {
		return err
	}

	owner, err := a.stores.Verifications.IsOwner(cmd.Context(), tag, userID)
	if err != nil {
		return err
	}

	if owner {
		fmt.Fprintf(cmd.OutOrStdout(), "verified: %s owns %s\n", userID, entities.DisplayTag(tag))
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "not verified: %s does not own %s\n", userID, entities.DisplayTag(tag))
	}
	return nil
}

func (a *app) runVerifyList(cmd *cobra.Command, args []string) error {
	userID, err := parseUserID(args[0])
	if err != nil {
		return err
	}

	tags, err := a.stores.Verifications.ListByUser(cmd.Context(), userID)
	if err != nil {
		return err
	}

	if len(tags) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "User %s has no verified tags.\n", userID)
		return nil
	}

	display := make([]string, len(tags))
	for i, tag := range tags {
		display[i] = entities.DisplayTag(tag)
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(display, "\n"))
	return nil
}
