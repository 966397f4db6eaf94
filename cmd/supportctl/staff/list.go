// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package staff

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/supportdesk/supportdesk/cmd/supportctl/cli"
	"github.com/supportdesk/supportdesk/lib/schema"
)

type listParams struct {
	cli.ConsoleFlags
	cli.JSONOutput
	Pending bool `flag:"pending" desc:"show only accounts awaiting activation"`
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List staff accounts",
		Usage:   "supportctl staff list [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
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
			if params.Pending {
				staff = slices.DeleteFunc(staff, func(member schema.Staff) bool { return member.IsActive })
			}

			if done, err := params.EmitJSON(staff); done {
				return err
			}
			if len(staff) == 0 {
				fmt.Fprintln(cli.Stdout, "No staff accounts")
				return nil
			}
			return writeStaffTable(staff)
		},
	}
}

func writeStaffTable(staff []schema.Staff) error {
	tw := tabwriter.NewWriter(cli.Stdout, 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tNAME\tROLE\tACTIVE\tPERMISSIONS\tID DOC")
	for _, member := range staff {
		document := "no"
		if member.HasIDDocument() {
			document = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\t%s\t%s\n",
			member.ID, member.Username, member.Name, member.Role, member.IsActive,
			formatPermissions(member.Permissions), document)
	}
	return tw.Flush()
}

func formatPermissions(permissions schema.Permissions) string {
	var names []string
	for _, permission := range permissionNames {
		if *permission.field(&permissions) {
			names = append(names, permission.name)
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}
