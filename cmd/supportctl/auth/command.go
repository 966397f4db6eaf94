// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package auth implements the "supportctl auth" command group.
package auth

import "github.com/supportdesk/supportdesk/cmd/supportctl/cli"

// Command returns the "auth" subcommand group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "auth",
		Summary: "Log in, log out and register staff accounts",
		Description: `Manage the console session.

A successful login saves the access token and account to the session
file (paths.session_file in the configuration). Later commands reuse it
until "supportctl auth logout" removes it.`,
		Subcommands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			registerCommand(),
		},
	}
}
