package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/relayvision/visionlog/internal/model"
	"github.com/relayvision/visionlog/internal/validation"
)

func goalID(g model.Goal) string { return g.ID }

func (c *cli) goalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage the goals missions and thoughts link to",
	}

	var color string
	var private bool
	add := &cobra.Command{
		Use:   "add TITLE...",
		Short: "Create a goal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if err := validation.ValidateGoalTitle(title); err != nil {
				return err
			}
			if err := validation.ValidateColor(color); err != nil {
				return err
			}
			if err := c.load(cmd.Context()); err != nil {
				return err
			}
			g, res := c.store.AddGoal(cmd.Context(), title, color, private)
			if err := outcome(res); err != nil {
				return err
			}
			c.palette().good.Fprintf(cmd.OutOrStdout(), "Added goal %s %s\n", shortID(g.ID), g.Title)
			return nil
		},
	}
	add.Flags().StringVar(&color, "color", "", "Goal color (#rrggbb or palette name)")
	add.Flags().BoolVar(&private, "private", false, "Hide the goal from your ally")
	cmd.AddCommand(add)

	var public bool
	priv := &cobra.Command{
		Use:   "private ID",
		Short: "Hide a goal from your ally (or show it again with --off)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd.Context()); err != nil {
				return err
			}
			g, err := resolve(c.store.Goals(), goalID, args[0], "goal")
			if err != nil {
				return err
			}
			if err := outcome(c.store.SetGoalPrivate(cmd.Context(), g.ID, !public)); err != nil {
				return err
			}
			if public {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is visible to your ally\n", g.Title)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is private\n", g.Title)
			}
			return nil
		},
	}
	priv.Flags().BoolVar(&public, "off", false, "Make the goal visible again")
	cmd.AddCommand(priv)

	cmd.AddCommand(&cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a goal. Linked entries fall back to the default label",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd.Context()); err != nil {
				return err
			}
			g, err := resolve(c.store.Goals(), goalID, args[0], "goal")
			if err != nil {
				return err
			}
			if err := outcome(c.store.DeleteGoal(cmd.Context(), g.ID)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted goal %s\n", g.Title)
			return nil
		},
	})

	return cmd
}
