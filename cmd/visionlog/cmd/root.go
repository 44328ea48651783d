package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/relayvision/visionlog/internal/board"
	"github.com/relayvision/visionlog/internal/client"
	"github.com/relayvision/visionlog/internal/prefs"
)

const defaultServer = "http://localhost:8090"

var errSignedOut = errors.New("not signed in, run `visionlog login` first")

// cli is the state shared by every command of one invocation.
type cli struct {
	server  string
	home    string
	timeout time.Duration
	verbose bool

	ctrl    *board.Controller
	session *client.Session
	api     *client.Client
	store   *board.Store
}

func RootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "visionlog",
		Short: "Capture at night, execute in the morning",
		Long: `Vision Log is a habit journal for two. Capture thoughts and plan
tomorrow's missions at night, crush them in the morning, and keep an
ally honest in real time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.server, "server", envOr("VISIONLOG_SERVER", defaultServer), "Vision Log server URL")
	flags.StringVar(&c.home, "home", os.Getenv("VISIONLOG_HOME"), "Directory for preferences and credentials (default: per-user config dir)")
	flags.DurationVar(&c.timeout, "timeout", board.DefaultTimeout, "Per-request timeout")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose output")

	root.AddCommand(c.signupCmd())
	root.AddCommand(c.loginCmd())
	root.AddCommand(c.logoutCmd())
	root.AddCommand(c.whoamiCmd())
	root.AddCommand(c.accountCmd())
	root.AddCommand(c.modeCmd())
	root.AddCommand(c.boardCmd())
	root.AddCommand(c.captureCmd())
	root.AddCommand(c.igniteCmd())
	root.AddCommand(c.archiveCmd())
	root.AddCommand(c.thoughtCmd())
	root.AddCommand(c.missionCmd())
	root.AddCommand(c.goalCmd())
	root.AddCommand(c.visionCmd())
	root.AddCommand(c.allyCmd())
	root.AddCommand(c.streakCmd())
	root.AddCommand(c.watchCmd())
	root.AddCommand(c.guideCmd())

	return root
}

func (c *cli) init() error {
	level := log.WarnLevel
	if c.verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: c.verbose,
	})
	slog.SetDefault(slog.New(logger))

	if c.home == "" {
		dir, err := prefs.Dir()
		if err != nil {
			return fmt.Errorf("failed to locate config directory: %w", err)
		}
		c.home = dir
	}

	// An unreadable preference file only costs the saved mode.
	var modes board.ModeStore
	p, err := prefs.Open(filepath.Join(c.home, "prefs.toml"))
	if err != nil {
		slog.Warn("ignoring preferences", "error", err)
	} else {
		modes = p
	}
	c.ctrl = board.NewController(modes)

	c.session, err = client.LoadSession(filepath.Join(c.home, "credentials.json"))
	if err != nil {
		return err
	}
	c.api = client.New(strings.TrimSuffix(c.server, "/"), c.session, c.timeout)
	c.store = board.NewStore(c.api, board.WithTimeout(c.timeout))

	slog.Debug("cli ready", "server", c.server, "home", c.home, "mode", c.ctrl.Mode())
	return nil
}

// load requires a session and fills the store with a fresh snapshot.
func (c *cli) load(ctx context.Context) error {
	if c.session.Current() == nil {
		return errSignedOut
	}
	res := c.store.Refresh(ctx)
	if res.OK() {
		return nil
	}
	if client.IsUnauthorized(res.Err) {
		_ = c.session.Clear()
		return errSignedOut
	}
	return fmt.Errorf("failed to load board: %w", res.Err)
}

// outcome turns a store result into a command error. An unknown outcome is
// reported as such; the user has to look before retrying.
func outcome(res board.Result) error {
	switch res.Outcome {
	case board.Applied:
		return nil
	case board.Rejected:
		return res.Err
	default:
		return fmt.Errorf("%w (the server may or may not have applied this, run `visionlog board` to check)", res.Err)
	}
}

// resolve finds the single row whose ID starts with prefix.
func resolve[T any](rows []T, id func(T) string, prefix, what string) (T, error) {
	var zero T
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return zero, fmt.Errorf("%s id is required", what)
	}

	var found []T
	for _, row := range rows {
		if id(row) == prefix {
			return row, nil
		}
		if strings.HasPrefix(id(row), prefix) {
			found = append(found, row)
		}
	}
	switch len(found) {
	case 0:
		return zero, fmt.Errorf("no %s matches %q", what, prefix)
	case 1:
		return found[0], nil
	}
	return zero, fmt.Errorf("%q matches %d %ss, use more characters", prefix, len(found), what)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
