package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/relayvision/visionlog/internal/client"
	"github.com/relayvision/visionlog/internal/validation"
)

func (c *cli) allyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ally",
		Short: "Pair with one accountability partner",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.init(); err != nil {
				return err
			}
			if c.session.Current() == nil {
				return errSignedOut
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "invite EMAIL",
		Short: "Invite someone to be your ally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := validation.NormalizeEmail(args[0])
			if err := validation.ValidateEmail(email); err != nil {
				return err
			}
			if _, err := c.api.SendAllyInvite(cmd.Context(), email); err != nil {
				return err
			}
			c.palette().good.Fprintf(cmd.OutOrStdout(), "Invite sent to %s\n", email)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "invites",
		Short: "List pending invites addressed to you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			invites, err := c.api.Invites(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(invites) == 0 {
				c.palette().dim.Fprintln(out, "no pending invites")
				return nil
			}
			for _, inv := range invites {
				c.palette().dim.Fprintf(out, "%s ", shortID(inv.ID))
				fmt.Fprintf(out, "%s  ", inviteFrom(inv))
				c.palette().dim.Fprintln(out, inv.CreatedAt.Local().Format(time.DateOnly))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "confirm [INVITE_ID]",
		Short: "Accept an invite. The id may be omitted when there is only one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invites, err := c.api.Invites(cmd.Context())
			if err != nil {
				return err
			}
			var inv client.Invite
			switch {
			case len(args) == 1:
				inv, err = resolve(invites, func(i client.Invite) string { return i.ID }, args[0], "invite")
				if err != nil {
					return err
				}
			case len(invites) == 1:
				inv = invites[0]
			case len(invites) == 0:
				return errors.New("no pending invites")
			default:
				return fmt.Errorf("%d invites are pending, pass an invite id", len(invites))
			}

			if err := c.api.ConfirmAlliance(cmd.Context(), inv.ID); err != nil {
				return err
			}
			c.palette().title.Fprintf(cmd.OutOrStdout(), "Allied with %s\n", inviteFrom(inv))
			return nil
		},
	})

	var yes bool
	sever := &cobra.Command{
		Use:   "sever",
		Short: "End the alliance for both of you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := confirm(cmd, "Sever your alliance?")
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}
			if err := c.api.SeverConnection(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Alliance severed")
			return nil
		},
	}
	sever.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.AddCommand(sever)

	return cmd
}

func inviteFrom(inv client.Invite) string {
	if inv.FromName != "" {
		return inv.FromName
	}
	return shortID(inv.FromUserID)
}
