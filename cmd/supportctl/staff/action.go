// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package staff

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/supportdesk/supportdesk/cmd/supportctl/cli"
	"github.com/supportdesk/supportdesk/lib/apiclient"
)

type actionParams struct {
	cli.ConsoleFlags
	cli.JSONOutput
}

type staffAction func(*apiclient.Session, context.Context, int64) (*apiclient.ActionResult, error)

// actionCommand builds a command that applies one account action.
func actionCommand(name, summary string, action staffAction) *cli.Command {
	var params actionParams
	usage := "supportctl staff " + name + " <staff-id> [flags]"

	return &cli.Command{
		Name:    name,
		Summary: summary,
		Usage:   usage,
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			id, err := staffIDArg(args, usage)
			if err != nil {
				return err
			}
			session, release, err := adminSession(ctx, &params.ConsoleFlags, logger)
			if err != nil {
				return err
			}
			defer release()

			result, err := action(session, ctx, id)
			if err != nil {
				return err
			}
			return report(&params.JSONOutput, result, fmt.Sprintf("%s: staff %d", name, id))
		},
	}
}

// report prints the server's acknowledgement, or fallback when it sent
// no message.
func report(output *cli.JSONOutput, result *apiclient.ActionResult, fallback string) error {
	if done, err := output.EmitJSON(result); done {
		return err
	}
	message := result.Message
	if message == "" {
		message = fallback
	}
	fmt.Fprintln(cli.Stdout, message)
	return nil
}

type deleteParams struct {
	cli.ConsoleFlags
	cli.JSONOutput
	Yes bool `flag:"yes,y" desc:"confirm the deletion"`
}

func deleteCommand() *cli.Command {
	var params deleteParams
	const usage = "supportctl staff delete <staff-id> --yes"

	return &cli.Command{
		Name:    "delete",
		Summary: "Delete an account and its identity document",
		Description: `Permanently delete a staff account together with its uploaded
identity document. Requires --yes.`,
		Usage:  usage,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			id, err := staffIDArg(args, usage)
			if err != nil {
				return err
			}
			if !params.Yes {
				return cli.Validation("deleting staff %d cannot be undone; pass --yes to confirm", id)
			}
			session, release, err := adminSession(ctx, &params.ConsoleFlags, logger)
			if err != nil {
				return err
			}
			defer release()

			result, err := session.DeleteStaff(ctx, id)
			if err != nil {
				return err
			}
			return report(&params.JSONOutput, result, fmt.Sprintf("deleted staff %d", id))
		},
	}
}
