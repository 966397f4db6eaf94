// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticket implements the "supportctl ticket" command group.
package ticket

import "github.com/supportdesk/supportdesk/cmd/supportctl/cli"

// Command returns the "ticket" subcommand group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "ticket",
		Summary: "Submit, list and work support tickets",
		Description: `Work the support ticket queue.

"create" is open to anyone. Every other command needs a logged-in
staff account. Listings are cached locally so "list --offline" can show
the last fetched queue without reaching the server.`,
		Subcommands: []*cli.Command{
			createCommand(),
			listCommand(),
			showCommand(),
			statusCommand(),
			commentCommand(),
			commentsCommand(),
			watchCommand(),
		},
	}
}
