// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/supportdesk/supportdesk/cmd/supportctl/cli"
	"github.com/supportdesk/supportdesk/lib/apiclient"
	"github.com/supportdesk/supportdesk/lib/schema"
	"github.com/supportdesk/supportdesk/lib/sessiongate"
	"github.com/supportdesk/supportdesk/lib/ticketview"
)

// openView opens a staff session and a View over it. The returned
// function closes both.
func openView(console *cli.Console, logger *slog.Logger, onAlert func(ticketview.Alert)) (*ticketview.View, *apiclient.Session, func(), error) {
	session, err := console.Session(sessiongate.AccessStaff)
	if err != nil {
		return nil, nil, nil, err
	}
	view, err := ticketview.NewView(ticketview.ViewConfig{
		Backend: session,
		Logger:  logger,
		OnAlert: onAlert,
	})
	if err != nil {
		session.Close()
		return nil, nil, nil, err
	}
	return view, session, func() {
		view.Close()
		session.Close()
	}, nil
}

type statusParams struct {
	cli.ConsoleFlags
}

func statusCommand() *cli.Command {
	var params statusParams
	const usage = "supportctl ticket status <ticket-number> <status> [flags]"

	return &cli.Command{
		Name:    "status",
		Summary: "Change a ticket's status",
		Description: `Set a ticket to Open, In Progress or Closed. Any status may follow
any other. Status names are matched ignoring case, and "in-progress"
and "in_progress" are accepted.

After the change the list is refetched so the offline cache stays
current. A failed refetch is reported as a warning; the change itself
has already been made.`,
		Usage: usage,
		Examples: []cli.Example{
			{Command: "supportctl ticket status TKT-20260501-0007 in-progress"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 2 {
				return cli.Validation("expected a ticket number and a status\n\nUsage: %s", usage)
			}
			ticketNumber := args[0]
			status, err := schema.ParseStatus(args[1])
			if err != nil {
				return cli.Validation("%v", err)
			}

			console, err := params.Open(ctx, logger)
			if err != nil {
				return err
			}
			defer console.Close()

			updated := false
			view, _, closeView, err := openView(console, logger, func(alert ticketview.Alert) {
				if alert.Level == ticketview.LevelSuccess {
					updated = true
				}
				logAlerts(logger)(alert)
			})
			if err != nil {
				return err
			}
			defer closeView()

			err = view.UpdateStatus(ctx, ticketNumber, status)
			if err != nil && !updated {
				return err
			}
			if err != nil {
				logger.Warn("ticket list refresh failed after the update", "error", err)
			} else {
				saveSnapshot(ctx, console, view.Tickets(), logger)
			}
			fmt.Fprintf(cli.Stdout, "%s is now %s\n", ticketNumber, status)
			return nil
		},
	}
}

type commentParams struct {
	cli.ConsoleFlags
	Author string `flag:"author,a" desc:"author name (default: the logged-in staff member's name)"`
}

func commentCommand() *cli.Command {
	var params commentParams
	const usage = "supportctl ticket comment <ticket-number> <text>... [flags]"

	return &cli.Command{
		Name:    "comment",
		Summary: "Add a comment to a ticket",
		Description: `Append a comment to a ticket. Remaining arguments are joined with
spaces to form the text. Comments cannot be edited or removed.`,
		Usage: usage,
		Examples: []cli.Example{
			{Command: "supportctl ticket comment TKT-20260501-0007 Called the customer, refund issued"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) < 1 {
				return cli.Validation("ticket number is required\n\nUsage: %s", usage)
			}
			ticketNumber := args[0]
			text := strings.Join(args[1:], " ")

			console, err := params.Open(ctx, logger)
			if err != nil {
				return err
			}
			defer console.Close()

			view, session, closeView, err := openView(console, logger, logAlerts(logger))
			if err != nil {
				return err
			}
			defer closeView()

			author := params.Author
			if author == "" {
				author = session.User().Name
			}
			if err := view.AddComment(ctx, ticketNumber, author, text); err != nil {
				return err
			}
			fmt.Fprintf(cli.Stdout, "Comment added to %s by %s\n", ticketNumber, strings.TrimSpace(author))
			return nil
		},
	}
}
