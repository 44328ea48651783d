package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/relayvision/visionlog/internal/board"
)

func (c *cli) streakCmd() *cobra.Command {
	var run bool
	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Show how many days you have shown up",
		Long: `By default the streak counts every distinct day with any capture,
mission or vision. --run counts only the current unbroken run of days,
ending today or yesterday.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd.Context()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if run {
				n := board.RunStreak(c.store.ActivityTimes(), time.Now())
				c.palette().title.Fprintf(out, "%d", n)
				fmt.Fprintln(out, " day run")
				return nil
			}
			c.palette().title.Fprintf(out, "%d", c.store.Streak(time.Local))
			fmt.Fprintln(out, " active days")
			return nil
		},
	}
	cmd.Flags().BoolVar(&run, "run", false, "Count the current consecutive-day run instead")
	return cmd
}
