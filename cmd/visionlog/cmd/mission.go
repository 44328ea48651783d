package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/relayvision/visionlog/internal/board"
	"github.com/relayvision/visionlog/internal/model"
	"github.com/relayvision/visionlog/internal/validation"
)

func missionID(m model.Mission) string { return m.ID }

func (c *cli) missionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mission",
		Aliases: []string{"m"},
		Short:   "Plan and execute today's missions",
	}

	cmd.AddCommand(c.missionAddCmd())
	cmd.AddCommand(c.missionToggleCmd("done", "Toggle a mission complete", board.ActionComplete))
	cmd.AddCommand(c.missionToggleCmd("crush", "Toggle a mission crushed", board.ActionCrush))
	cmd.AddCommand(&cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a mission",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.ownMission(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := outcome(c.store.DeleteMission(cmd.Context(), m.ID)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", shortID(m.ID))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rollover",
		Short: "Clear today's board into history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd.Context()); err != nil {
				return err
			}
			n := len(c.store.ActiveMissions())
			if err := outcome(c.store.Rollover(cmd.Context())); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled over %d missions\n", n)
			return nil
		},
	})
	cmd.AddCommand(c.missionRecentCmd())
	cmd.AddCommand(c.cheerCmd())

	return cmd
}

func (c *cli) missionAddCmd() *cobra.Command {
	var goal, color string
	cmd := &cobra.Command{
		Use:   "add TASK...",
		Short: "Add a mission to the board",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.addMission(cmd, strings.Join(args, " "), goal, color)
		},
	}
	cmd.Flags().StringVar(&goal, "goal", "", "Link to a goal (id prefix)")
	cmd.Flags().StringVar(&color, "color", "", "Color tag (#rrggbb or palette name)")
	return cmd
}

func (c *cli) addMission(cmd *cobra.Command, task, goal, color string) error {
	task = strings.TrimSpace(task)
	if err := validation.ValidateTask(task); err != nil {
		return err
	}
	if err := validation.ValidateColor(color); err != nil {
		return err
	}
	if err := c.load(cmd.Context()); err != nil {
		return err
	}

	in := model.MissionInput{Task: task}
	if color != "" {
		in.ColorTag = &color
	}
	if goal != "" {
		g, err := resolve(c.store.Goals(), goalID, goal, "goal")
		if err != nil {
			return err
		}
		in.GoalID = &g.ID
	}

	m, res := c.store.AddMission(cmd.Context(), in)
	if err := outcome(res); err != nil {
		return err
	}
	c.palette().good.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", shortID(m.ID), m.Task)
	return nil
}

func (c *cli) missionToggleCmd(use, short string, action board.Action) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.ownMission(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cue, res := c.store.ToggleMission(cmd.Context(), m.ID, action)
			if err := outcome(res); err != nil {
				return err
			}
			if cue == board.CueNone {
				fmt.Fprintf(cmd.OutOrStdout(), "Reopened %s\n", shortID(m.ID))
				return nil
			}
			c.playCue(cmd.OutOrStdout(), cue)
			return nil
		},
	}
}

func (c *cli) missionRecentCmd() *cobra.Command {
	var pick int
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List tasks from past boards, or re-add one with --pick",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.session.Current() == nil {
				return errSignedOut
			}
			tasks, err := c.api.RecentTasks(cmd.Context())
			if err != nil {
				return err
			}

			if pick > 0 {
				if pick > len(tasks) {
					return fmt.Errorf("there are only %d recent tasks", len(tasks))
				}
				return c.addMission(cmd, tasks[pick-1], "", "")
			}

			if len(tasks) == 0 {
				c.palette().dim.Fprintln(cmd.OutOrStdout(), "no recent tasks")
				return nil
			}
			for i, task := range tasks {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d) %s\n", i+1, task)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&pick, "pick", 0, "Add the numbered recent task to today's board")
	return cmd
}

func (c *cli) cheerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cheer ID NOTE...",
		Short: "Leave a cheer note on one of your ally's missions",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			note := strings.TrimSpace(strings.Join(args[1:], " "))
			if err := validation.ValidateCheer(note); err != nil {
				return err
			}
			if err := c.load(cmd.Context()); err != nil {
				return err
			}
			if c.store.PartnerID() == "" {
				return errors.New("you have no ally to cheer")
			}
			m, err := resolve(c.store.PartnerMissions(), missionID, args[0], "ally mission")
			if err != nil {
				return err
			}
			if err := outcome(c.store.Cheer(cmd.Context(), m.ID, note)); err != nil {
				return err
			}
			c.palette().good.Fprintf(cmd.OutOrStdout(), "Cheered %s\n", m.Task)
			return nil
		},
	}
}

func (c *cli) ownMission(ctx context.Context, prefix string) (model.Mission, error) {
	if err := c.load(ctx); err != nil {
		return model.Mission{}, err
	}
	return resolve(c.store.Missions(), missionID, prefix, "mission")
}
