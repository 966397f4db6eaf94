// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/supportdesk/supportdesk/cmd/supportctl/cli"
	"github.com/supportdesk/supportdesk/lib/clock"
	"github.com/supportdesk/supportdesk/lib/schema"
	"github.com/supportdesk/supportdesk/lib/ticketstore"
	"github.com/supportdesk/supportdesk/lib/ticketview"
)

type watchParams struct {
	cli.ConsoleFlags
	cli.JSONOutput
	Filters
	Interval time.Duration `flag:"interval" desc:"refresh period (default console.watch_interval)"`
}

func watchCommand() *cli.Command {
	var params watchParams

	return &cli.Command{
		Name:    "watch",
		Summary: "Reprint the ticket list whenever it changes",
		Description: `Refetch the ticket list on a fixed period and print the filtered
table each time the list differs from the previous fetch. Each change
also replaces the offline cache.

Unreachable-server errors are logged and retried on the next tick; an
expired session or other permanent error stops the watch. Interrupt
with Ctrl-C.`,
		Usage: "supportctl ticket watch [flags]",
		Examples: []cli.Example{
			{Description: "Watch open tickets every 10 seconds", Command: "supportctl ticket watch --status open --interval 10s"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			console, err := params.Open(ctx, logger)
			if err != nil {
				return err
			}
			defer console.Close()

			query, err := params.query(console.Config)
			if err != nil {
				return err
			}
			interval := params.Interval
			if interval == 0 {
				interval = console.Config.WatchInterval()
			}
			if interval < 0 {
				return cli.Validation("--interval must be positive")
			}

			view, _, closeView, err := openView(console, logger, nil)
			if err != nil {
				return err
			}
			defer closeView()

			w := &watcher{
				clock:    clock.Real(),
				interval: interval,
				logger:   logger,
				refresh: func(ctx context.Context) ([]schema.Ticket, error) {
					if err := view.Refresh(ctx); err != nil {
						return nil, err
					}
					return view.Tickets(), nil
				},
				onChange: func(ctx context.Context, tickets []schema.Ticket) error {
					saveSnapshot(ctx, console, tickets, logger)
					rows := ticketview.Apply(tickets, query)
					if done, err := params.EmitJSON(rows); done {
						return err
					}
					fmt.Fprintf(cli.Stdout, "\n%s  %d of %d tickets\n", time.Now().Format(tableTimeLayout), len(rows), len(tickets))
					return writeTicketTable(cli.Stdout, rows)
				},
			}
			return w.run(ctx)
		},
	}
}

// watcher polls refresh on every tick and calls onChange when the list
// digest differs from the last one seen. The first successful fetch
// always counts as a change.
type watcher struct {
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger
	refresh  func(ctx context.Context) ([]schema.Ticket, error)
	onChange func(ctx context.Context, tickets []schema.Ticket) error
}

// run blocks until ctx is done or a permanent error occurs.
func (w *watcher) run(ctx context.Context) error {
	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	var last ticketstore.Digest
	seen := false
	for {
		tickets, err := w.refresh(ctx)
		switch {
		case ctx.Err() != nil:
			return nil
		case err != nil:
			if cli.CategoryOf(err) != cli.CategoryTransient {
				return err
			}
			w.logger.Warn("ticket refresh failed, retrying", "error", err, "retry_in", w.interval)
		default:
			digest, err := ticketstore.DigestOf(tickets)
			if err != nil {
				return err
			}
			if !seen || digest != last {
				w.logger.Debug("ticket list changed", "digest", digest.Short(), "tickets", len(tickets))
				if err := w.onChange(ctx, tickets); err != nil {
					return err
				}
				last, seen = digest, true
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// saveSnapshot replaces the offline cache when it is enabled. Failures
// are logged; the cache never blocks a live command.
func saveSnapshot(ctx context.Context, console *cli.Console, tickets []schema.Ticket, logger *slog.Logger) {
	cache, err := console.OpenCache(ctx)
	if err != nil {
		logger.Warn("ticket cache unavailable", "error", err)
		return
	}
	if cache == nil {
		return
	}
	defer cache.Close()
	if _, _, err := cache.SaveSnapshot(ctx, console.Client.BaseURL(), tickets); err != nil {
		logger.Warn("saving ticket cache failed", "error", err)
	}
}
