// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/supportdesk/supportdesk/lib/schema"
)

const tableTimeLayout = "2006-01-02 15:04"

func formatTime(timestamp schema.Timestamp) string {
	if timestamp.IsZero() {
		return "-"
	}
	return timestamp.Local().Format(tableTimeLayout)
}

// writeTicketTable prints one row per ticket.
func writeTicketTable(w io.Writer, tickets []schema.Ticket) error {
	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "TICKET\tSTATUS\tNAME\tMOBILE\tEVENT DATE\tCREATED")
	for _, ticket := range tickets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			ticket.TicketNumber,
			ticket.Status,
			ticket.Name,
			ticket.MobileNumber,
			ticket.EventDate,
			formatTime(ticket.CreatedAt),
		)
	}
	return tw.Flush()
}

// writeTicket prints every field of one ticket.
func writeTicket(w io.Writer, ticket schema.Ticket) error {
	tw := tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)
	fields := []struct{ label, value string }{
		{"Ticket", ticket.TicketNumber},
		{"Status", string(ticket.Status)},
		{"Name", ticket.Name},
		{"Father's name", ticket.FatherName},
		{"Address", ticket.Address},
		{"Pincode", ticket.Pincode},
		{"Mobile", ticket.MobileNumber},
		{"Event date", ticket.EventDate},
		{"Created", formatTime(ticket.CreatedAt)},
		{"Updated", formatTime(ticket.UpdatedAt)},
	}
	for _, field := range fields {
		fmt.Fprintf(tw, "%s:\t%s\n", field.label, field.value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%s\n", indent(ticket.Query))
	return nil
}

// writeComments prints comments oldest first as they arrive.
func writeComments(w io.Writer, comments []schema.Comment) {
	if len(comments) == 0 {
		fmt.Fprintln(w, "No comments")
		return
	}
	for i, comment := range comments {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s  %s\n%s\n", comment.AuthorName, formatTime(comment.CreatedAt), indent(comment.CommentText))
	}
}

func indent(text string) string {
	return "  " + strings.ReplaceAll(strings.TrimRight(text, "\n"), "\n", "\n  ")
}

// formatAge renders how long ago a snapshot was fetched.
func formatAge(age time.Duration) string {
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(age/time.Minute))
	case age < 48*time.Hour:
		return fmt.Sprintf("%d hours ago", int(age/time.Hour))
	default:
		return fmt.Sprintf("%d days ago", int(age/(24*time.Hour)))
	}
}
