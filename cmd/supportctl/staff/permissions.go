// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package staff

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/supportdesk/supportdesk/cmd/supportctl/cli"
	"github.com/supportdesk/supportdesk/lib/schema"
)

type permissionField struct {
	name  string
	field func(*schema.Permissions) *bool
}

// permissionNames maps flag values to permission fields.
var permissionNames = []permissionField{
	{"view_tickets", func(p *schema.Permissions) *bool { return &p.ViewTickets }},
	{"manage_tickets", func(p *schema.Permissions) *bool { return &p.ManageTickets }},
	{"send_messages", func(p *schema.Permissions) *bool { return &p.SendMessages }},
}

// applyPermissions sets grant and clears revoke on base. A name in both
// lists, or an unknown name, is an error.
func applyPermissions(base schema.Permissions, grant, revoke []string) (schema.Permissions, error) {
	known := func(name string) bool {
		return slices.ContainsFunc(permissionNames, func(p permissionField) bool {
			return p.name == name
		})
	}
	for _, name := range append(slices.Clone(grant), revoke...) {
		if !known(name) {
			return base, cli.Validation("unknown permission %q (valid: view_tickets, manage_tickets, send_messages)", name)
		}
	}
	for _, name := range grant {
		if slices.Contains(revoke, name) {
			return base, cli.Validation("permission %q is both granted and revoked", name)
		}
	}

	result := base
	for _, permission := range permissionNames {
		if slices.Contains(grant, permission.name) {
			*permission.field(&result) = true
		}
		if slices.Contains(revoke, permission.name) {
			*permission.field(&result) = false
		}
	}
	return result, nil
}

type permissionsParams struct {
	cli.ConsoleFlags
	cli.JSONOutput
	Grant  []string `flag:"grant"  desc:"permissions to turn on (view_tickets, manage_tickets, send_messages)"`
	Revoke []string `flag:"revoke" desc:"permissions to turn off"`
}

func permissionsCommand() *cli.Command {
	var params permissionsParams
	const usage = "supportctl staff permissions <staff-id> [--grant NAME,...] [--revoke NAME,...]"

	return &cli.Command{
		Name:    "permissions",
		Summary: "Show or change an account's permissions",
		Description: `Without --grant or --revoke, print the account's permissions. Otherwise
start from the current permissions, apply the changes and save them.`,
		Usage: usage,
		Examples: []cli.Example{
			{Command: "supportctl staff permissions 7 --grant manage_tickets --revoke send_messages"},
		},
		Params: func() any { return &params },
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

			staff, err := session.ListStaff(ctx)
			if err != nil {
				return err
			}
			index := slices.IndexFunc(staff, func(member schema.Staff) bool { return member.ID == id })
			if index < 0 {
				return cli.NotFound("no staff account with ID %d", id)
			}
			current := staff[index].Permissions

			if len(params.Grant) == 0 && len(params.Revoke) == 0 {
				if done, err := params.EmitJSON(current); done {
					return err
				}
				fmt.Fprintf(cli.Stdout, "%s: %s\n", staff[index].Username, formatPermissions(current))
				return nil
			}

			updated, err := applyPermissions(current, params.Grant, params.Revoke)
			if err != nil {
				return err
			}
			result, err := session.SetPermissions(ctx, id, updated)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(result); done {
				return err
			}
			fmt.Fprintf(cli.Stdout, "%s: %s\n", staff[index].Username, formatPermissions(updated))
			return nil
		},
	}
}
