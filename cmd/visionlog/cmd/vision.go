package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/relayvision/visionlog/internal/board"
	"github.com/relayvision/visionlog/internal/model"
	"github.com/relayvision/visionlog/internal/validation"
)

func visionID(v model.Vision) string { return v.ID }

func validateVision(in model.VisionInput) error {
	return validation.ValidateVision(in.Content, in.MetricStart, in.MetricCurrent, in.MetricTarget, in.MetricUnit)
}

func metricFlags(cmd *cobra.Command, in *model.VisionInput) {
	f := cmd.Flags()
	f.Float64Var(&in.MetricStart, "start", 0, "Where the metric started")
	f.Float64Var(&in.MetricCurrent, "current", 0, "Where the metric is now")
	f.Float64Var(&in.MetricTarget, "target", 0, "Target value (0 tracks without numbers)")
	f.StringVar(&in.MetricUnit, "unit", "", "Metric unit, e.g. $, kg, books")
}

func (c *cli) visionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vision",
		Short: "Manage long-range visions and their metrics",
	}

	var in model.VisionInput
	add := &cobra.Command{
		Use:   "add CONTENT...",
		Short: "Add a vision",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Content = strings.TrimSpace(strings.Join(args, " "))
			if !cmd.Flags().Changed("current") {
				in.MetricCurrent = in.MetricStart
			}
			if err := validateVision(in); err != nil {
				return err
			}
			if err := c.load(cmd.Context()); err != nil {
				return err
			}
			v, res := c.store.AddVision(cmd.Context(), in)
			if err := outcome(res); err != nil {
				return err
			}
			c.palette().good.Fprintf(cmd.OutOrStdout(), "Added vision %s\n", shortID(v.ID))
			return nil
		},
	}
	metricFlags(add, &in)
	cmd.AddCommand(add)

	var edit model.VisionInput
	var content string
	editCmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a vision's statement or metric block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd.Context()); err != nil {
				return err
			}
			v, err := resolve(c.store.Visions(), visionID, args[0], "vision")
			if err != nil {
				return err
			}

			// Unset flags keep the stored values.
			next := model.VisionInput{
				Content:       v.Content,
				MetricStart:   v.MetricStart,
				MetricCurrent: v.MetricCurrent,
				MetricTarget:  v.MetricTarget,
				MetricUnit:    v.MetricUnit,
			}
			f := cmd.Flags()
			if f.Changed("content") {
				next.Content = strings.TrimSpace(content)
			}
			if f.Changed("start") {
				next.MetricStart = edit.MetricStart
			}
			if f.Changed("current") {
				next.MetricCurrent = edit.MetricCurrent
			}
			if f.Changed("target") {
				next.MetricTarget = edit.MetricTarget
			}
			if f.Changed("unit") {
				next.MetricUnit = edit.MetricUnit
			}
			if err := validateVision(next); err != nil {
				return err
			}

			if err := outcome(c.store.EditVision(cmd.Context(), v.ID, next)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated vision %s\n", shortID(v.ID))
			return nil
		},
	}
	editCmd.Flags().StringVar(&content, "content", "", "New vision statement")
	metricFlags(editCmd, &edit)
	cmd.AddCommand(editCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "update ID VALUE",
		Short: "Record where a vision's metric is now",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid value %q", args[1])
			}
			if err := validation.ValidateMetric(current); err != nil {
				return err
			}
			if err := c.load(cmd.Context()); err != nil {
				return err
			}
			v, err := resolve(c.store.Visions(), visionID, args[0], "vision")
			if err != nil {
				return err
			}
			if err := outcome(c.store.UpdateVisionCurrent(cmd.Context(), v.ID, current)); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !board.HasMetrics(v.MetricTarget) {
				fmt.Fprintf(out, "Recorded %s\n", board.FormatMetric(current, v.MetricUnit))
				return nil
			}
			progress := board.Progress(v.MetricStart, current, v.MetricTarget)
			line := fmt.Sprintf("%s %.0f%%  %s", bar(progress, 20), progress,
				board.FormatProgressDisplay(current, v.MetricTarget, v.MetricUnit))
			if board.IsComplete(progress) {
				c.palette().title.Fprintln(out, line+"  VISION REALIZED")
			} else {
				c.palette().accent.Fprintln(out, line)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a vision",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd.Context()); err != nil {
				return err
			}
			v, err := resolve(c.store.Visions(), visionID, args[0], "vision")
			if err != nil {
				return err
			}
			if err := outcome(c.store.DeleteVision(cmd.Context(), v.ID)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted vision %s\n", shortID(v.ID))
			return nil
		},
	})

	return cmd
}
