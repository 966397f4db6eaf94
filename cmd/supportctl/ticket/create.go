// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/supportdesk/supportdesk/cmd/supportctl/cli"
	"github.com/supportdesk/supportdesk/lib/schema"
)

type createParams struct {
	cli.ConsoleFlags
	cli.JSONOutput
	File       string `flag:"file,f"      desc:"read the form from a JSON file (comments allowed); flags override it"`
	Name       string `flag:"name"        desc:"customer name"`
	FatherName string `flag:"father-name" desc:"customer's father's name"`
	Address    string `flag:"address"     desc:"postal address"`
	Pincode    string `flag:"pincode"     desc:"6-digit postal code"`
	Mobile     string `flag:"mobile"      desc:"mobile number (10-15 digits)"`
	EventDate  string `flag:"event-date"  desc:"date of the event (YYYY-MM-DD)"`
	Query      string `flag:"query,q"     desc:"description of the problem (at least 10 characters)"`
}

func createCommand() *cli.Command {
	var params createParams

	return &cli.Command{
		Name:    "create",
		Summary: "Submit a new support ticket",
		Description: `Submit a ticket on a customer's behalf. No login is needed.

The form is checked before anything is sent and every invalid field is
reported at once. The server assigns the ticket number.`,
		Usage: "supportctl ticket create [--file FORM.jsonc] [flags]",
		Examples: []cli.Example{
			{
				Description: "Submit from flags",
				Command:     "supportctl ticket create --name 'Meera Nair' --father-name 'Krishnan Nair' --address 'Kochi' --pincode 682001 --mobile 9876543210 --event-date 2026-05-01 -q 'Refund has not arrived'",
			},
			{
				Description: "Submit a prepared form",
				Command:     "supportctl ticket create --file refund.jsonc",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			request, err := params.request()
			if err != nil {
				return err
			}
			if errs := request.Validate(); errs != nil {
				return errs
			}

			console, err := params.Open(ctx, logger)
			if err != nil {
				return err
			}
			defer console.Close()

			ticket, err := console.Client.CreateTicket(ctx, request)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(ticket); done {
				return err
			}
			fmt.Fprintf(cli.Stdout, "Ticket submitted: %s\n", ticket.TicketNumber)
			return nil
		},
	}
}

// request assembles the form from --file and the field flags.
func (p *createParams) request() (schema.TicketRequest, error) {
	var request schema.TicketRequest
	if p.File != "" {
		data, err := os.ReadFile(p.File)
		if err != nil {
			return request, cli.Validation("reading form: %v", err)
		}
		if err := json.Unmarshal(jsonc.ToJSON(data), &request); err != nil {
			return request, cli.Validation("parsing form %s: %v", p.File, err)
		}
	}
	overrides := []struct {
		target *string
		value  string
	}{
		{&request.Name, p.Name},
		{&request.FatherName, p.FatherName},
		{&request.Address, p.Address},
		{&request.Pincode, p.Pincode},
		{&request.MobileNumber, p.Mobile},
		{&request.EventDate, p.EventDate},
		{&request.Query, p.Query},
	}
	for _, override := range overrides {
		if override.value != "" {
			*override.target = override.value
		}
	}
	return request, nil
}
