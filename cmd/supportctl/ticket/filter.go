// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"log/slog"
	"strings"

	"github.com/supportdesk/supportdesk/cmd/supportctl/cli"
	"github.com/supportdesk/supportdesk/lib/config"
	"github.com/supportdesk/supportdesk/lib/schema"
	"github.com/supportdesk/supportdesk/lib/ticketview"
)

// Filters select and order rows the way the ticket table does. The
// struct is exported so its flags bind when embedded.
type Filters struct {
	Status    string `flag:"status,s"   desc:"show only this status (Open, In Progress, Closed or All)"`
	Search    string `flag:"search"     desc:"match ticket number, name, mobile or pincode"`
	Number    string `flag:"number"     desc:"ticket number column filter"`
	Name      string `flag:"name"       desc:"name column filter"`
	Mobile    string `flag:"mobile"     desc:"mobile number column filter"`
	EventDate string `flag:"event-date" desc:"event date column filter"`
	Sort      string `flag:"sort"       desc:"sort by created_at, status or none (default from configuration)"`
	Direction string `flag:"direction"  desc:"asc or desc (default from configuration)"`
}

// query builds the table query, taking unset sort options from cfg.
func (f *Filters) query(cfg *config.Config) (ticketview.Query, error) {
	query := ticketview.Query{
		Search: f.Search,
		Columns: ticketview.Columns{
			TicketNumber: f.Number,
			Name:         f.Name,
			Mobile:       f.Mobile,
			EventDate:    f.EventDate,
		},
	}

	if f.Status != "" && !strings.EqualFold(f.Status, schema.StatusAll) {
		status, err := schema.ParseStatus(f.Status)
		if err != nil {
			return query, cli.Validation("--status: %v", err)
		}
		query.Status = status
	}

	sortName := f.Sort
	if sortName == "" {
		sortName = cfg.Console.DefaultSort
	}
	field, err := ticketview.ParseSortField(sortName)
	if err != nil {
		return query, cli.Validation("--sort: %v", err)
	}
	query.SortField = field

	directionName := f.Direction
	if directionName == "" {
		directionName = cfg.Console.DefaultDirection
	}
	direction, err := ticketview.ParseDirection(directionName)
	if err != nil {
		return query, cli.Validation("--direction: %v", err)
	}
	query.SortDirection = direction
	return query, nil
}

// logAlerts forwards view notifications to the command log.
func logAlerts(logger *slog.Logger) func(ticketview.Alert) {
	return func(alert ticketview.Alert) {
		switch alert.Level {
		case ticketview.LevelSuccess:
			logger.Info(alert.Message)
		case ticketview.LevelWarning:
			logger.Warn(alert.Message)
		default:
			logger.Error(alert.Message)
		}
	}
}
