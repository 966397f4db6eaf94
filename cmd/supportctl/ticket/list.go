// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/supportdesk/supportdesk/cmd/supportctl/cli"
	"github.com/supportdesk/supportdesk/lib/schema"
	"github.com/supportdesk/supportdesk/lib/sessiongate"
	"github.com/supportdesk/supportdesk/lib/ticketstore"
	"github.com/supportdesk/supportdesk/lib/ticketview"
)

type listParams struct {
	cli.ConsoleFlags
	cli.JSONOutput
	Filters
	Offline bool `flag:"offline" desc:"show the cached list without contacting the server"`
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List tickets",
		Description: `Fetch the full ticket list and print the rows that pass the filters.

Filters apply in a fixed order: status, then search, then the column
filters, then sorting. Search matches ticket number and name ignoring
case, and mobile number and pincode exactly as typed. Status sorting
orders Open, In Progress, Closed.

Each successful fetch replaces the offline cache. When the server cannot
be reached the cached list is shown instead, with a warning.`,
		Usage: "supportctl ticket list [flags]",
		Examples: []cli.Example{
			{Description: "Open tickets, oldest first", Command: "supportctl ticket list --status open --direction asc"},
			{Description: "Find a customer by mobile number", Command: "supportctl ticket list --search 98765"},
			{Description: "Show the cached list", Command: "supportctl ticket list --offline"},
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

			cache, err := console.OpenCache(ctx)
			if err != nil {
				if params.Offline {
					return err
				}
				logger.Warn("ticket cache unavailable", "error", err)
				cache = nil
			}
			if cache != nil {
				defer cache.Close()
			}

			var rows []schema.Ticket
			if params.Offline {
				rows, err = cachedRows(ctx, cache, console.Client.BaseURL(), query, logger)
				if err != nil {
					return err
				}
			} else {
				rows, err = liveRows(ctx, console, cache, query, logger)
				if err != nil {
					return err
				}
			}

			if done, err := params.EmitJSON(rows); done {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(cli.Stdout, "No tickets found")
				return nil
			}
			return writeTicketTable(cli.Stdout, rows)
		},
	}
}

// liveRows fetches the list, stores it in cache and applies query. When
// the fetch fails with a transient error (no connection, 429 or 5xx) and
// a cached list exists, that is used. Other HTTP errors are returned.
func liveRows(ctx context.Context, console *cli.Console, cache *ticketstore.Store, query ticketview.Query, logger *slog.Logger) ([]schema.Ticket, error) {
	session, err := console.Session(sessiongate.AccessStaff)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	view, err := ticketview.NewView(ticketview.ViewConfig{
		Backend: session,
		Logger:  logger,
		Query:   query,
	})
	if err != nil {
		return nil, err
	}
	defer view.Close()

	if err := view.Refresh(ctx); err != nil {
		if cache == nil || cli.CategoryOf(err) != cli.CategoryTransient {
			return nil, err
		}
		logger.Warn("server unreachable, showing cached tickets", "error", err)
		rows, cacheErr := cachedRows(ctx, cache, console.Client.BaseURL(), query, logger)
		if cacheErr != nil {
			return nil, err
		}
		return rows, nil
	}

	if cache != nil {
		if _, _, err := cache.SaveSnapshot(ctx, console.Client.BaseURL(), view.Tickets()); err != nil {
			logger.Warn("saving ticket cache failed", "error", err)
		}
	}
	return view.Rows(), nil
}

// cachedRows applies query to the cached list for baseURL.
func cachedRows(ctx context.Context, cache *ticketstore.Store, baseURL string, query ticketview.Query, logger *slog.Logger) ([]schema.Ticket, error) {
	if cache == nil {
		return nil, cli.Validation("the ticket cache is disabled (cache.disabled in the configuration)")
	}
	snapshot, err := cache.LoadSnapshot(ctx, baseURL)
	if errors.Is(err, ticketstore.ErrNoSnapshot) {
		return nil, cli.NotFound("no cached tickets for %s (run 'supportctl ticket list' while online)", baseURL)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("showing cached tickets",
		"fetched", formatAge(time.Since(snapshot.FetchedAt)),
		"tickets", len(snapshot.Tickets),
		"digest", snapshot.Digest.Short(),
	)
	return ticketview.Apply(snapshot.Tickets, query), nil
}
