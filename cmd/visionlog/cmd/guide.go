package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/relayvision/visionlog/internal/board"
)

func (c *cli) guideCmd() *cobra.Command {
	var step bool
	cmd := &cobra.Command{
		Use:   "guide",
		Short: "Walk through the three rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var g board.Guide
			for {
				c.printSlide(out, &g)
				if g.IsLast() {
					c.palette().accent.Fprintln(out, board.GuideCloseLabel)
					return nil
				}
				if step {
					if _, err := promptLine(cmd, "(enter for next) "); err != nil {
						return nil
					}
				}
				g.Next()
			}
		},
	}
	cmd.Flags().BoolVar(&step, "step", false, "Wait for enter between slides")
	return cmd
}

func (c *cli) printSlide(w io.Writer, g *board.Guide) {
	p := c.palette()
	s := g.Current()
	p.dim.Fprintln(w, g.Position())
	p.title.Fprintln(w, s.Title)
	fmt.Fprintln(w, s.Body)
	fmt.Fprintln(w)
}
