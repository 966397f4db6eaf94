// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/supportdesk/supportdesk/cmd/supportctl/cli"
	"github.com/supportdesk/supportdesk/lib/apiclient"
	"github.com/supportdesk/supportdesk/lib/schema"
)

type registerParams struct {
	cli.ConsoleFlags
	cli.JSONOutput
	Username     string `flag:"username,u"    desc:"requested username"`
	Name         string `flag:"name"          desc:"full name"`
	FatherName   string `flag:"father-name"   desc:"father's name"`
	Address      string `flag:"address"       desc:"postal address"`
	Mobile       string `flag:"mobile"        desc:"10-digit mobile number"`
	IDDocument   string `flag:"id-document"   desc:"identity document image to upload"`
	PasswordFile string `flag:"password-file" desc:"read the password from this file (- for stdin)"`
}

func registerCommand() *cli.Command {
	var params registerParams

	return &cli.Command{
		Name:    "register",
		Summary: "Request a new staff account",
		Description: `Submit a staff self-registration. The account stays inactive until
an admin activates it with "supportctl staff activate".

The password is read like "auth login" reads it. When it comes from a
terminal it is asked for twice.`,
		Usage: "supportctl auth register --username NAME --name NAME --father-name NAME --address TEXT --mobile DIGITS [flags]",
		Examples: []cli.Example{
			{
				Description: "Register with an identity document",
				Command:     "supportctl auth register -u ravi --name 'Ravi Kumar' --father-name 'Mohan Kumar' --address 'Patna' --mobile 9876543210 --id-document aadhar.jpg",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}

			password, err := cli.ReadPassword(params.PasswordFile, "Password: ")
			if err != nil {
				return err
			}
			defer password.Close()
			confirm := password.String()
			if params.PasswordFile == "" && cli.StdinIsTerminal() {
				again, err := cli.ReadPassword("", "Confirm password: ")
				if err != nil {
					return err
				}
				confirm = again.String()
				again.Close()
			}

			registration := schema.Registration{
				Username:        params.Username,
				Password:        password.String(),
				ConfirmPassword: confirm,
				Name:            params.Name,
				FatherName:      params.FatherName,
				Address:         params.Address,
				MobileNumber:    params.Mobile,
			}
			if errs := registration.Validate(); errs != nil {
				return errs
			}

			var document *apiclient.IDDocument
			if params.IDDocument != "" {
				file, err := os.Open(params.IDDocument)
				if err != nil {
					return cli.Validation("opening identity document: %v", err)
				}
				defer file.Close()
				document = &apiclient.IDDocument{Filename: params.IDDocument, Content: file}
			}

			console, err := params.Open(ctx, logger)
			if err != nil {
				return err
			}
			defer console.Close()

			response, err := console.Client.Register(ctx, registration, document)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(response); done {
				return err
			}
			message := response.Message
			if message == "" {
				message = "Registration submitted. Wait for an admin to activate the account."
			}
			fmt.Fprintf(cli.Stdout, "%s\n  id: %d\n  username: %s\n", message, response.ID, response.Username)
			return nil
		},
	}
}
