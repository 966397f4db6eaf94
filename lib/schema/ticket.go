// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Status is a ticket's lifecycle state. The backend accepts exactly the
// three declared values; transitions between them are unconstrained.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusClosed     Status = "Closed"
)

// StatusAll is the list filter value meaning "do not filter by status".
// It is never a ticket's status.
const StatusAll = "All"

// Statuses lists the valid statuses in workflow order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusClosed}

// IsKnown reports whether s is one of the three backend statuses.
func (s Status) IsKnown() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

// ParseStatus maps user input to a Status. Matching ignores case and
// treats '-', '_' and ' ' as the same separator, so "in-progress",
// "IN_PROGRESS" and "In Progress" all resolve to [StatusInProgress].
func ParseStatus(input string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	normalized = strings.NewReplacer("-", " ", "_", " ").Replace(normalized)
	for _, status := range Statuses {
		if strings.ToLower(string(status)) == normalized {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown status %q (valid: Open, In Progress, Closed)", input)
}

// Ticket is a support ticket as returned by the backend.
type Ticket struct {
	ID           int64     `json:"id"`
	TicketNumber string    `json:"ticket_number"`
	Name         string    `json:"name"`
	FatherName   string    `json:"father_name"`
	Address      string    `json:"address"`
	Pincode      string    `json:"pincode"`
	MobileNumber string    `json:"mobile_number"`
	EventDate    string    `json:"event_date"`
	Query        string    `json:"query"`
	Status       Status    `json:"status"`
	CreatedAt    Timestamp `json:"created_at"`
	UpdatedAt    Timestamp `json:"updated_at"`
}

// TicketList is the list endpoint's response envelope. Total counts
// every ticket matching the server-side filters, not just this page.
type TicketList struct {
	Total   int      `json:"total"`
	Tickets []Ticket `json:"tickets"`
}

// TicketRequest is the ticket creation form.
type TicketRequest struct {
	Name         string `json:"name"`
	FatherName   string `json:"father_name"`
	Address      string `json:"address"`
	Pincode      string `json:"pincode"`
	MobileNumber string `json:"mobile_number"`
	EventDate    string `json:"event_date"`
	Query        string `json:"query"`
}

// MinQueryLength is the shortest query text accepted at creation,
// measured after trimming surrounding whitespace.
const MinQueryLength = 10

var pincodePattern = regexp.MustCompile(`^\d{6}$`)

// Validate checks the form the way the submission screen does before
// anything is sent. A nil result means the form may be submitted.
func (r TicketRequest) Validate() FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(r.Name) == "" {
		errs["name"] = "Name is required"
	}
	if strings.TrimSpace(r.FatherName) == "" {
		errs["father_name"] = "Father's name is required"
	}
	if strings.TrimSpace(r.Address) == "" {
		errs["address"] = "Address is required"
	}

	switch {
	case strings.TrimSpace(r.Pincode) == "":
		errs["pincode"] = "Pincode is required"
	case !pincodePattern.MatchString(r.Pincode):
		errs["pincode"] = "Pincode must be 6 digits"
	}

	switch digits := DigitsOnly(r.MobileNumber); {
	case strings.TrimSpace(r.MobileNumber) == "":
		errs["mobile_number"] = "Mobile number is required"
	case len(digits) < 10 || len(digits) > 15:
		errs["mobile_number"] = "Mobile number must be 10-15 digits"
	}

	switch {
	case strings.TrimSpace(r.EventDate) == "":
		errs["event_date"] = "Event date is required"
	default:
		if _, err := time.Parse(time.DateOnly, strings.TrimSpace(r.EventDate)); err != nil {
			errs["event_date"] = "Event date must be a date (YYYY-MM-DD)"
		}
	}

	switch query := strings.TrimSpace(r.Query); {
	case query == "":
		errs["query"] = "Query is required"
	case len([]rune(query)) < MinQueryLength:
		errs["query"] = fmt.Sprintf("Query must be at least %d characters", MinQueryLength)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Normalize returns a copy with surrounding whitespace trimmed and
// separators stripped from the mobile number.
func (r TicketRequest) Normalize() TicketRequest {
	return TicketRequest{
		Name:         strings.TrimSpace(r.Name),
		FatherName:   strings.TrimSpace(r.FatherName),
		Address:      strings.TrimSpace(r.Address),
		Pincode:      strings.TrimSpace(r.Pincode),
		MobileNumber: DigitsOnly(r.MobileNumber),
		EventDate:    strings.TrimSpace(r.EventDate),
		Query:        strings.TrimSpace(r.Query),
	}
}

// Comment is a free-text note appended to a ticket. Comments are never
// edited or deleted.
type Comment struct {
	ID          int64     `json:"id"`
	TicketID    int64     `json:"ticket_id"`
	AuthorName  string    `json:"author_name"`
	CommentText string    `json:"comment_text"`
	CreatedAt   Timestamp `json:"created_at"`
}

// CommentRequest is the body of a comment append.
type CommentRequest struct {
	AuthorName  string `json:"author_name"`
	CommentText string `json:"comment_text"`
}

// DigitsOnly strips every non-digit from s.
func DigitsOnly(s string) string {
	var builder strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
