// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketview

import (
	"fmt"
	"slices"
	"strings"

	"github.com/supportdesk/supportdesk/lib/schema"
)

// SortField selects the sort key. The zero value leaves rows in list
// order.
type SortField string

const (
	SortNone      SortField = ""
	SortCreatedAt SortField = "created_at"
	SortStatus    SortField = "status"
)

// ParseSortField accepts "", "none", "created_at" (or "created") and
// "status".
func ParseSortField(input string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "none":
		return SortNone, nil
	case "created_at", "created", "created-at":
		return SortCreatedAt, nil
	case "status":
		return SortStatus, nil
	}
	return "", fmt.Errorf("unknown sort field %q (valid: created_at, status)", input)
}

// Direction is the sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection accepts "asc"/"ascending" and "desc"/"descending". An
// empty input is ascending.
func ParseDirection(input string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return "", fmt.Errorf("unknown sort direction %q (valid: asc, desc)", input)
}

// Columns are the per-column substring filters. Empty fields do not
// filter.
type Columns struct {
	TicketNumber string
	Name         string
	Mobile       string
	EventDate    string
}

// Query is the full set of view inputs. The zero Query shows every
// ticket in list order.
type Query struct {
	// Status keeps only tickets with this exact status. Empty or
	// [schema.StatusAll] disables the filter.
	Status schema.Status

	// Search matches ticket number and name case-insensitively, and
	// mobile number and pincode as plain substrings.
	Search string

	Columns Columns

	SortField     SortField
	SortDirection Direction
}

// unknownStatusRank orders statuses the console does not recognize
// after the known ones in an ascending sort.
const unknownStatusRank = 999

// StatusRank is the display order used when sorting by status.
func StatusRank(status schema.Status) int {
	switch status {
	case schema.StatusOpen:
		return 1
	case schema.StatusInProgress:
		return 2
	case schema.StatusClosed:
		return 3
	}
	return unknownStatusRank
}

// Apply runs the pipeline over tickets and returns the visible rows.
// The stages always run in the same order: status filter, search,
// column filters, sort. The result is a new slice; tickets is never
// modified. Sorting is stable, so tickets with equal keys keep their
// list order in either direction.
func Apply(tickets []schema.Ticket, query Query) []schema.Ticket {
	rows := make([]schema.Ticket, 0, len(tickets))
	search := strings.ToLower(query.Search)
	for _, ticket := range tickets {
		if !matchesStatus(&ticket, query.Status) {
			continue
		}
		if !matchesSearch(&ticket, search) {
			continue
		}
		if !matchesColumns(&ticket, &query.Columns) {
			continue
		}
		rows = append(rows, ticket)
	}

	if compare := comparator(query.SortField); compare != nil {
		if query.SortDirection == Descending {
			ascending := compare
			compare = func(a, b schema.Ticket) int { return ascending(b, a) }
		}
		slices.SortStableFunc(rows, compare)
	}
	return rows
}

func matchesStatus(ticket *schema.Ticket, status schema.Status) bool {
	return status == "" || status == schema.StatusAll || ticket.Status == status
}

// matchesSearch expects search to be lowercased already.
func matchesSearch(ticket *schema.Ticket, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(ticket.TicketNumber), search) ||
		strings.Contains(strings.ToLower(ticket.Name), search) ||
		strings.Contains(ticket.MobileNumber, search) ||
		strings.Contains(ticket.Pincode, search)
}

func matchesColumns(ticket *schema.Ticket, columns *Columns) bool {
	if columns.TicketNumber != "" && !containsFold(ticket.TicketNumber, columns.TicketNumber) {
		return false
	}
	if columns.Name != "" && !containsFold(ticket.Name, columns.Name) {
		return false
	}
	if columns.Mobile != "" && !strings.Contains(ticket.MobileNumber, columns.Mobile) {
		return false
	}
	if columns.EventDate != "" && !strings.Contains(ticket.EventDate, columns.EventDate) {
		return false
	}
	return true
}

func containsFold(value, substring string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(substring))
}

// comparator returns the ascending comparison for field, or nil when
// rows stay in list order.
func comparator(field SortField) func(a, b schema.Ticket) int {
	switch field {
	case SortCreatedAt:
		return func(a, b schema.Ticket) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	case SortStatus:
		return func(a, b schema.Ticket) int {
			return StatusRank(a.Status) - StatusRank(b.Status)
		}
	}
	return nil
}
