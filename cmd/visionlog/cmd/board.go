package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/relayvision/visionlog/internal/board"
	"github.com/relayvision/visionlog/internal/model"
)

func (c *cli) modeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "mode [night|morning|toggle]",
		Short:     "Show or switch between night and morning",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(board.ModeNight), string(board.ModeMorning), "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				var err error
				if args[0] == "toggle" {
					_, err = c.ctrl.Toggle()
				} else {
					var m board.Mode
					if m, err = board.ParseMode(args[0]); err == nil {
						err = c.ctrl.SetMode(m)
					}
				}
				if err != nil {
					return err
				}
			}
			c.palette().title.Fprintf(cmd.OutOrStdout(), "%s\n", strings.ToUpper(string(c.ctrl.Mode())))
			return nil
		},
	}
}

func (c *cli) boardCmd() *cobra.Command {
	var tab string
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the board for the current mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if tab != "" {
				t, err := board.ParseTab(tab)
				if err != nil {
					return err
				}
				if err := c.ctrl.SetTab(t); err != nil {
					return err
				}
			}
			if err := c.load(cmd.Context()); err != nil {
				return err
			}
			c.render(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().StringVarP(&tab, "tab", "t", "", "Morning tab: mission, vision or vault")
	return cmd
}

func (c *cli) render(w io.Writer) {
	if c.ctrl.Mode() == board.ModeNight {
		c.renderNight(w)
		return
	}
	switch c.ctrl.Tab() {
	case board.TabVision:
		c.renderVisions(w)
	case board.TabVault:
		c.renderVault(w)
	default:
		c.renderMissions(w)
	}
}

func (c *cli) header(w io.Writer, title string) {
	p := c.palette()
	p.title.Fprintf(w, "%s // %s", strings.ToUpper(string(c.ctrl.Mode())), title)
	p.dim.Fprintf(w, "   streak %d\n\n", c.store.Streak(time.Local))
}

func (c *cli) renderNight(w io.Writer) {
	c.header(w, "CAPTURE")
	c.printThoughts(w, false)

	fmt.Fprintln(w)
	c.palette().accent.Fprintln(w, "TOMORROW")
	c.printMissions(w, c.store.ActiveMissions())
}

func (c *cli) renderMissions(w io.Writer) {
	c.header(w, "MISSION")
	active := c.store.ActiveMissions()
	c.printMissions(w, active)
	if len(active) > 0 {
		c.palette().dim.Fprintf(w, "%d open\n", board.OpenCount(active, ""))
	}

	if partner := c.store.Partner(); partner != nil {
		fmt.Fprintln(w)
		name := partner.Name
		if name == "" {
			name = "ALLY"
		}
		c.palette().accent.Fprintln(w, strings.ToUpper(name))
		var partnerActive []model.Mission
		for _, m := range c.store.PartnerMissions() {
			if m.IsActive {
				partnerActive = append(partnerActive, m)
			}
		}
		c.printMissions(w, partnerActive)
	}
}

func (c *cli) renderVisions(w io.Writer) {
	c.header(w, "VISION")
	p := c.palette()
	visions := c.store.Visions()
	if len(visions) == 0 {
		p.dim.Fprintln(w, "no visions yet")
		return
	}
	for _, v := range visions {
		p.dim.Fprintf(w, "%s ", shortID(v.ID))
		fmt.Fprintln(w, v.Content)
		if !board.HasMetrics(v.MetricTarget) {
			continue
		}
		progress := board.Progress(v.MetricStart, v.MetricCurrent, v.MetricTarget)
		line := fmt.Sprintf("         %s %3.0f%%  %s", bar(progress, 20), progress,
			board.FormatProgressDisplay(v.MetricCurrent, v.MetricTarget, v.MetricUnit))
		if board.IsComplete(progress) {
			p.good.Fprintln(w, line)
		} else {
			p.accent.Fprintln(w, line)
		}
	}
}

func (c *cli) renderVault(w io.Writer) {
	c.header(w, "VAULT")
	c.printThoughts(w, true)

	goals := c.store.Goals()
	if len(goals) == 0 {
		return
	}
	fmt.Fprintln(w)
	c.palette().accent.Fprintln(w, "GOALS")
	for _, g := range goals {
		c.palette().dim.Fprintf(w, "%s ", shortID(g.ID))
		fmt.Fprint(w, g.Title)
		if g.IsPrivate {
			c.palette().dim.Fprint(w, " (private)")
		}
		fmt.Fprintln(w)
	}
}

// printThoughts lists own thoughts. The vault shows archived ones, the
// capture view everything else.
func (c *cli) printThoughts(w io.Writer, archived bool) {
	p := c.palette()
	n := 0
	for _, t := range c.store.Thoughts() {
		if t.Archived != archived {
			continue
		}
		n++
		p.dim.Fprintf(w, "%s ", shortID(t.ID))
		if t.Ignited {
			p.accent.Fprint(w, "* ")
		} else {
			fmt.Fprint(w, "  ")
		}
		text := t.Text
		if t.IsQuote {
			text = `"` + text + `"`
		}
		fmt.Fprint(w, text)
		if t.GoalID != nil {
			p.dim.Fprintf(w, "  [%s]", c.store.GoalLabel(t.GoalID))
		}
		for _, u := range t.MediaURLs() {
			p.dim.Fprintf(w, "\n           %s", u)
		}
		fmt.Fprintln(w)
	}
	if n == 0 {
		p.dim.Fprintln(w, "nothing here")
	}
}

func (c *cli) printMissions(w io.Writer, missions []model.Mission) {
	p := c.palette()
	if len(missions) == 0 {
		p.dim.Fprintln(w, "no missions")
		return
	}
	for _, m := range missions {
		p.dim.Fprintf(w, "%s ", shortID(m.ID))
		fmt.Fprintf(w, "%s ", check(m.Completed))
		switch board.StateOf(m) {
		case board.StateCrushed:
			p.good.Fprint(w, m.Task+" CRUSHED")
		case board.StateCompleted:
			p.good.Fprint(w, m.Task)
		default:
			fmt.Fprint(w, m.Task)
		}
		if m.GoalID != nil {
			p.dim.Fprintf(w, "  [%s]", c.store.GoalLabel(m.GoalID))
		}
		if m.CheerNote != nil && *m.CheerNote != "" {
			p.accent.Fprintf(w, "  \"%s\"", *m.CheerNote)
		}
		fmt.Fprintln(w)
	}
}

func bar(progress float64, width int) string {
	filled := int(progress / 100 * float64(width))
	filled = min(max(filled, 0), width)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
