package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/relayvision/visionlog/internal/board"
)

// palette is the set of colors one mode renders with.
type palette struct {
	title  *color.Color
	accent *color.Color
	dim    *color.Color
	good   *color.Color
	warn   *color.Color
}

var palettes = map[board.Mode]palette{
	board.ModeNight: {
		title:  color.New(color.FgHiMagenta, color.Bold),
		accent: color.New(color.FgMagenta),
		dim:    color.New(color.FgHiBlack),
		good:   color.New(color.FgCyan),
		warn:   color.New(color.FgYellow),
	},
	board.ModeMorning: {
		title:  color.New(color.FgHiYellow, color.Bold),
		accent: color.New(color.FgYellow),
		dim:    color.New(color.FgHiBlack),
		good:   color.New(color.FgGreen),
		warn:   color.New(color.FgRed),
	},
}

func (c *cli) palette() palette {
	return palettes[c.ctrl.Mode()]
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func check(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

var cueLines = map[board.Cue]string{
	board.CueComplete:    "DONE.",
	board.CueCrush:       "CRUSHED IT.",
	board.CueGrandFinale: "BOARD CLEARED. GRAND FINALE.",
}

// playCue prints the acknowledgement for a toggle, ringing the terminal bell
// for the loud ones.
func (c *cli) playCue(w io.Writer, cue board.Cue) {
	line, ok := cueLines[cue]
	if !ok {
		return
	}
	p := c.palette()
	switch cue {
	case board.CueGrandFinale:
		p.title.Fprintf(w, "\a*** %s ***\n", line)
	case board.CueCrush:
		p.title.Fprintf(w, "\a%s\n", line)
	default:
		p.good.Fprintln(w, line)
	}
}

// toast prints a transient notification derived from a realtime event.
func (c *cli) toast(w io.Writer, n board.Notification) {
	p := c.palette()
	p.title.Fprintf(w, "%s ", n.Title)
	fmt.Fprintf(w, "%s ", n.Message)
	p.dim.Fprintf(w, "(%s)\n", n.At.Local().Format("15:04"))
	c.playCue(w, n.Cue)
}

func promptLine(cmd *cobra.Command, label string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), label)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo on a terminal and falls back to a plain
// line when stdin is piped.
func promptPassword(cmd *cobra.Command, label string) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return promptLine(cmd, label)
}

func confirm(cmd *cobra.Command, label string) (bool, error) {
	answer, err := promptLine(cmd, label+" (y/n) ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}
