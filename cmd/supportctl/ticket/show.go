// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/supportdesk/supportdesk/cmd/supportctl/cli"
	"github.com/supportdesk/supportdesk/lib/schema"
	"github.com/supportdesk/supportdesk/lib/sessiongate"
)

// ticketArg returns the single positional ticket number.
func ticketArg(args []string, usage string) (string, error) {
	switch len(args) {
	case 1:
		return args[0], nil
	case 0:
		return "", cli.Validation("ticket number is required\n\nUsage: %s", usage)
	default:
		return "", cli.Validation("expected 1 positional argument, got %d", len(args))
	}
}

type showParams struct {
	cli.ConsoleFlags
	cli.JSONOutput
	NoComments bool `flag:"no-comments" desc:"do not fetch comments"`
}

type showResult struct {
	Ticket   *schema.Ticket   `json:"ticket"`
	Comments []schema.Comment `json:"comments"`
}

func showCommand() *cli.Command {
	var params showParams
	const usage = "supportctl ticket show <ticket-number> [flags]"

	return &cli.Command{
		Name:    "show",
		Summary: "Show one ticket and its comments",
		Usage:   usage,
		Examples: []cli.Example{
			{Command: "supportctl ticket show TKT-20260501-0007"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			ticketNumber, err := ticketArg(args, usage)
			if err != nil {
				return err
			}
			console, err := params.Open(ctx, logger)
			if err != nil {
				return err
			}
			defer console.Close()

			session, err := console.Session(sessiongate.AccessStaff)
			if err != nil {
				return err
			}
			defer session.Close()

			ticket, err := session.GetTicket(ctx, ticketNumber)
			if err != nil {
				return err
			}
			result := showResult{Ticket: ticket, Comments: []schema.Comment{}}
			if !params.NoComments {
				comments, err := session.ListComments(ctx, ticketNumber)
				if err != nil {
					return err
				}
				result.Comments = comments
			}

			if done, err := params.EmitJSON(result); done {
				return err
			}
			if err := writeTicket(cli.Stdout, *ticket); err != nil {
				return err
			}
			if !params.NoComments {
				fmt.Fprintf(cli.Stdout, "\nComments (%d):\n", len(result.Comments))
				writeComments(cli.Stdout, result.Comments)
			}
			return nil
		},
	}
}

type commentsParams struct {
	cli.ConsoleFlags
	cli.JSONOutput
}

func commentsCommand() *cli.Command {
	var params commentsParams
	const usage = "supportctl ticket comments <ticket-number> [flags]"

	return &cli.Command{
		Name:    "comments",
		Summary: "List a ticket's comments",
		Usage:   usage,
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			ticketNumber, err := ticketArg(args, usage)
			if err != nil {
				return err
			}
			console, err := params.Open(ctx, logger)
			if err != nil {
				return err
			}
			defer console.Close()

			session, err := console.Session(sessiongate.AccessStaff)
			if err != nil {
				return err
			}
			defer session.Close()

			comments, err := session.ListComments(ctx, ticketNumber)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(comments); done {
				return err
			}
			writeComments(cli.Stdout, comments)
			return nil
		},
	}
}
