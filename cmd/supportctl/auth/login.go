// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/supportdesk/supportdesk/cmd/supportctl/cli"
	"github.com/supportdesk/supportdesk/lib/schema"
	"github.com/supportdesk/supportdesk/lib/sessiongate"
	"github.com/supportdesk/supportdesk/lib/ticketstore"
)

type loginParams struct {
	cli.ConsoleFlags
	cli.JSONOutput
	Username     string `flag:"username,u" desc:"staff username"`
	PasswordFile string `flag:"password-file" desc:"read the password from this file (- for stdin)"`
}

func loginCommand() *cli.Command {
	var params loginParams

	return &cli.Command{
		Name:    "login",
		Summary: "Log in with a staff username and password",
		Description: `Exchange a username and password for an access token and save the
session. Any existing session is logged out first.

Without --password-file the password is read from the terminal without
echo, or from the first line of stdin when it is not a terminal.`,
		Usage: "supportctl auth login [<username>] [flags]",
		Examples: []cli.Example{
			{Description: "Log in interactively", Command: "supportctl auth login asha"},
			{Description: "Log in from a script", Command: "supportctl auth login --username asha --password-file ~/.support-password"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			switch len(args) {
			case 0:
			case 1:
				params.Username = args[0]
			default:
				return cli.Validation("expected at most 1 positional argument, got %d", len(args))
			}
			if params.Username == "" {
				return cli.Validation("username is required\n\nUsage: supportctl auth login <username>")
			}

			console, err := params.Open(ctx, logger)
			if err != nil {
				return err
			}
			defer console.Close()

			password, err := cli.ReadPassword(params.PasswordFile, "Password: ")
			if err != nil {
				return err
			}
			defer password.Close()

			if console.Gate.IsAuthenticated() {
				if err := console.Gate.Logout(); err != nil {
					return err
				}
			}

			session, err := console.Gate.Login(ctx, params.Username, password)
			if err != nil {
				var inactive *sessiongate.InactiveError
				if errors.As(err, &inactive) {
					return cli.Forbidden("%s", inactive.Message)
				}
				return err
			}

			if done, err := params.EmitJSON(session.User); done {
				return err
			}
			fmt.Fprintf(cli.Stdout, "Logged in as %s (%s)\n", session.User.Username, session.User.Role)
			return nil
		},
	}
}

type logoutParams struct {
	cli.ConsoleFlags
	KeepCache bool `flag:"keep-cache" desc:"keep the offline ticket cache"`
}

func logoutCommand() *cli.Command {
	var params logoutParams

	return &cli.Command{
		Name:    "logout",
		Summary: "Remove the saved session",
		Description: `Forget the saved access token and account. The offline ticket cache
is deleted too unless --keep-cache is given, since it holds data only a
logged-in staff member may read.`,
		Usage:  "supportctl auth logout [flags]",
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

			if err := console.Gate.Logout(); err != nil {
				return err
			}
			if !params.KeepCache {
				if err := ticketstore.Purge(console.Config.Paths.CacheFile); err != nil {
					return fmt.Errorf("removing ticket cache: %w", err)
				}
			}
			fmt.Fprintln(cli.Stdout, "Logged out")
			return nil
		},
	}
}

type whoamiParams struct {
	cli.ConsoleFlags
	cli.JSONOutput
	Verify bool `flag:"verify" desc:"confirm the saved token with the server"`
}

type whoamiResult struct {
	Authenticated bool         `json:"authenticated"`
	User          *schema.User `json:"user,omitempty"`
	Verified      bool         `json:"verified"`
}

func whoamiCommand() *cli.Command {
	var params whoamiParams

	return &cli.Command{
		Name:    "whoami",
		Summary: "Show the logged-in account",
		Description: `Print the account of the saved session. Exits with status 1 when
nobody is logged in.

With --verify the saved token is checked with the server first. A
token the server rejects is removed; an unreachable server leaves the
session in place.`,
		Usage:  "supportctl auth whoami [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			console, err := params.OpenWith(ctx, logger, sessiongate.RestoreOptions{Verify: params.Verify})
			expired := errors.Is(err, sessiongate.ErrSessionExpired)
			if err != nil && !expired {
				return err
			}
			defer console.Close()

			result := whoamiResult{Verified: params.Verify && console.Gate.Verified()}
			if session, ok := console.Gate.Current(); ok {
				result.Authenticated = true
				result.User = &session.User
			}
			if done, err := params.EmitJSON(result); done {
				if err != nil {
					return err
				}
				if !result.Authenticated {
					return &cli.ExitError{Code: 1}
				}
				return nil
			}

			if !result.Authenticated {
				if expired {
					fmt.Fprintln(cli.Stdout, "Saved session expired; log in again")
				} else {
					fmt.Fprintln(cli.Stdout, "Not logged in")
				}
				return &cli.ExitError{Code: 1}
			}
			user := result.User
			fmt.Fprintf(cli.Stdout, "%s (%s)\n", user.Username, user.Name)
			fmt.Fprintf(cli.Stdout, "  role:        %s\n", user.Role)
			fmt.Fprintf(cli.Stdout, "  server:      %s\n", console.Client.BaseURL())
			fmt.Fprintf(cli.Stdout, "  permissions: view=%t manage=%t messages=%t\n",
				user.Permissions.ViewTickets, user.Permissions.ManageTickets, user.Permissions.SendMessages)
			if params.Verify && !result.Verified {
				fmt.Fprintln(cli.Stdout, "  verified:    no, server unreachable")
			}
			return nil
		},
	}
}
