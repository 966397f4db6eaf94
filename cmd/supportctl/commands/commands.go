// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the supportctl command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	authcmd "github.com/supportdesk/supportdesk/cmd/supportctl/auth"
	"github.com/supportdesk/supportdesk/cmd/supportctl/cli"
	staffcmd "github.com/supportdesk/supportdesk/cmd/supportctl/staff"
	ticketcmd "github.com/supportdesk/supportdesk/cmd/supportctl/ticket"
	"github.com/supportdesk/supportdesk/lib/version"
)

type versionParams struct {
	cli.JSONOutput
}

// Root returns the complete command tree.
func Root() *cli.Command {
	var versionFlags versionParams

	return &cli.Command{
		Name: "supportctl",
		Description: `supportctl: customer support console.

Submit tickets for customers, work the ticket queue and administer
staff accounts against a support backend.`,
		Subcommands: []*cli.Command{
			authcmd.Command(),
			ticketcmd.Command(),
			staffcmd.Command(),
			{
				Name:    "version",
				Summary: "Print version information",
				Params:  func() any { return &versionFlags },
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					build := version.Read()
					if done, err := versionFlags.EmitJSON(build); done {
						return err
					}
					fmt.Fprintf(cli.Stdout, "supportctl %s\n", build.Full())
					return nil
				},
			},
		},
	}
}
