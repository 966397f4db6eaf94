// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package staff implements the admin-only "supportctl staff" command
// group.
package staff

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/supportdesk/supportdesk/cmd/supportctl/cli"
	"github.com/supportdesk/supportdesk/lib/apiclient"
	"github.com/supportdesk/supportdesk/lib/sessiongate"
)

// Command returns the "staff" subcommand group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "staff",
		Summary: "Administer staff accounts (admin only)",
		Description: `Review registrations and manage staff accounts.

Every command here needs a logged-in admin. Newly registered accounts
cannot log in until activated.`,
		Subcommands: []*cli.Command{
			listCommand(),
			actionCommand("activate", "Allow an account to log in",
				(*apiclient.Session).ActivateStaff),
			actionCommand("deactivate", "Block an account from logging in",
				(*apiclient.Session).DeactivateStaff),
			actionCommand("make-admin", "Promote an account to admin",
				(*apiclient.Session).MakeAdmin),
			deleteCommand(),
			permissionsCommand(),
			documentCommand(),
		},
	}
}

// adminSession opens the console and an admin session. The returned
// function releases both.
func adminSession(ctx context.Context, flags *cli.ConsoleFlags, logger *slog.Logger) (*apiclient.Session, func(), error) {
	console, err := flags.Open(ctx, logger)
	if err != nil {
		return nil, nil, err
	}
	session, err := console.Session(sessiongate.AccessAdmin)
	if err != nil {
		console.Close()
		return nil, nil, err
	}
	return session, func() {
		session.Close()
		console.Close()
	}, nil
}

// staffIDArg parses the single positional staff ID.
func staffIDArg(args []string, usage string) (int64, error) {
	if len(args) != 1 {
		return 0, cli.Validation("expected a staff ID\n\nUsage: %s", usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, cli.Validation("invalid staff ID %q", args[0])
	}
	return id, nil
}
