package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/relayvision/visionlog/internal/board"
	"github.com/relayvision/visionlog/internal/client"
	"github.com/relayvision/visionlog/internal/model"
)

const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

func (c *cli) watchCmd() *cobra.Command {
	var table, event string
	var quiet bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stay connected and show ally activity as it happens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := client.Filter{Table: table, Event: model.EventType(strings.ToUpper(event))}
			switch filter.Table {
			case "", "*", model.TableThoughts, model.TableMissions, model.TableGoals, model.TableVisions, model.TableProfiles:
			default:
				return fmt.Errorf("unknown table %q", table)
			}
			switch filter.Event {
			case "", model.EventAll, model.EventInsert, model.EventUpdate, model.EventDelete:
			default:
				return fmt.Errorf("unknown event %q", event)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := c.load(ctx); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !quiet {
				c.render(out)
			}

			router := board.NewRouter(c.store, func(n board.Notification) {
				c.toast(out, n)
			})
			return c.watch(ctx, filter, func(ev model.ChangeEvent) {
				slog.Debug("realtime event", "table", ev.Table, "type", ev.Type)
				router.Handle(ctx, ev)
				if !quiet && ev.Table != model.TableProfiles {
					fmt.Fprintln(out)
					c.render(out)
				}
			})
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "Only follow one table (thoughts, missions, goals, visions, profiles)")
	cmd.Flags().StringVar(&event, "event", "", "Only follow one event type (insert, update, delete)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print notifications only, not the board")
	return cmd
}

// watch keeps a subscription open until ctx ends, reconnecting with
// exponential backoff. Each reconnect refetches, since events may have been
// missed while the connection was down.
func (c *cli) watch(ctx context.Context, filter client.Filter, fn func(model.ChangeEvent)) error {
	backoff := minBackoff
	for {
		connected := time.Now()
		err := c.api.Subscribe(ctx, filter, fn)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			continue
		}
		if client.IsUnauthorized(err) {
			_ = c.session.Clear()
			return errSignedOut
		}

		// A connection that held for a while resets the backoff.
		if time.Since(connected) > maxBackoff {
			backoff = minBackoff
		}
		slog.Warn("realtime disconnected, retrying", "error", err, "in", backoff)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)

		if res := c.store.Refresh(ctx); !res.OK() {
			slog.Debug("refetch after reconnect failed", "error", res.Err)
		}
	}
}
