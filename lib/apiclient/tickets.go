// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/supportdesk/supportdesk/lib/schema"
	"github.com/supportdesk/supportdesk/lib/secret"
)

// ListOptions are the server-side filters of the list endpoint. Zero
// values are omitted from the query string. The server orders results
// newest first.
type ListOptions struct {
	// Status restricts results to one status. Empty and "All" mean no
	// restriction.
	Status string
	// Search matches ticket number, name, mobile number and query text.
	Search string
	// Skip and Limit page through the results; Limit 0 uses the
	// server's default page size.
	Skip  int
	Limit int
}

func (o ListOptions) values() url.Values {
	query := url.Values{}
	if o.Status != "" && o.Status != schema.StatusAll {
		query.Set("status", o.Status)
	}
	if o.Search != "" {
		query.Set("search", o.Search)
	}
	if o.Skip > 0 {
		query.Set("skip", strconv.Itoa(o.Skip))
	}
	if o.Limit > 0 {
		query.Set("limit", strconv.Itoa(o.Limit))
	}
	return query
}

// CreateTicket submits a new ticket. The request is validated and
// normalized first; an invalid form returns schema.FieldErrors without
// contacting the server. The returned ticket carries the
// server-generated ticket number.
func (c *Client) CreateTicket(ctx context.Context, request schema.TicketRequest) (*schema.Ticket, error) {
	return c.createTicket(ctx, nil, request)
}

// GetTicket looks a ticket up by its ticket number.
func (c *Client) GetTicket(ctx context.Context, ticketNumber string) (*schema.Ticket, error) {
	return c.getTicket(ctx, nil, ticketNumber)
}

// ListTickets fetches one page of tickets.
func (c *Client) ListTickets(ctx context.Context, options ListOptions) (*schema.TicketList, error) {
	return c.listTickets(ctx, nil, options)
}

func (c *Client) createTicket(ctx context.Context, token *secret.Buffer, request schema.TicketRequest) (*schema.Ticket, error) {
	if errs := request.Validate(); errs != nil {
		return nil, errs
	}
	var ticket schema.Ticket
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/tickets/create", token, request.Normalize(), nil, &ticket); err != nil {
		return nil, fmt.Errorf("apiclient: create ticket: %w", err)
	}
	c.logger.Info("ticket created", "ticket_number", ticket.TicketNumber)
	return &ticket, nil
}

func (c *Client) getTicket(ctx context.Context, token *secret.Buffer, ticketNumber string) (*schema.Ticket, error) {
	if ticketNumber == "" {
		return nil, fmt.Errorf("apiclient: ticket number is required")
	}
	var ticket schema.Ticket
	if err := c.doJSON(ctx, http.MethodGet, ticketPath(ticketNumber, ""), token, nil, nil, &ticket); err != nil {
		return nil, fmt.Errorf("apiclient: get ticket %s: %w", ticketNumber, err)
	}
	return &ticket, nil
}

func (c *Client) listTickets(ctx context.Context, token *secret.Buffer, options ListOptions) (*schema.TicketList, error) {
	var list schema.TicketList
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/tickets/list", token, nil, options.values(), &list); err != nil {
		return nil, fmt.Errorf("apiclient: list tickets: %w", err)
	}
	if list.Tickets == nil {
		list.Tickets = []schema.Ticket{}
	}
	return &list, nil
}

// UpdateStatus sets a ticket's status. Any status may follow any
// other; the server rejects values outside the three known statuses
// with 400.
func (s *Session) UpdateStatus(ctx context.Context, ticketNumber string, status schema.Status) (*schema.Ticket, error) {
	if ticketNumber == "" {
		return nil, fmt.Errorf("apiclient: ticket number is required")
	}
	if status == "" {
		return nil, fmt.Errorf("apiclient: status is required")
	}
	query := url.Values{"status": {string(status)}}
	var ticket schema.Ticket
	if err := s.client.doJSON(ctx, http.MethodPatch, ticketPath(ticketNumber, "/status"), s.accessToken, nil, query, &ticket); err != nil {
		return nil, fmt.Errorf("apiclient: update status of %s: %w", ticketNumber, err)
	}
	s.client.logger.Info("ticket status updated",
		"ticket_number", ticketNumber,
		"status", status,
	)
	return &ticket, nil
}

// AddComment appends a comment to a ticket. Blank author or text is
// rejected without a request.
func (s *Session) AddComment(ctx context.Context, ticketNumber string, request schema.CommentRequest) (*schema.Comment, error) {
	if ticketNumber == "" {
		return nil, fmt.Errorf("apiclient: ticket number is required")
	}
	request.AuthorName = strings.TrimSpace(request.AuthorName)
	request.CommentText = strings.TrimSpace(request.CommentText)
	if request.AuthorName == "" || request.CommentText == "" {
		return nil, fmt.Errorf("apiclient: comment author and text are required")
	}
	var comment schema.Comment
	if err := s.client.doJSON(ctx, http.MethodPost, ticketPath(ticketNumber, "/comments"), s.accessToken, request, nil, &comment); err != nil {
		return nil, fmt.Errorf("apiclient: add comment to %s: %w", ticketNumber, err)
	}
	return &comment, nil
}

// ListComments returns a ticket's comments in the order the server
// sends them (oldest first). Both a bare JSON array and a
// {"comments": [...]} envelope are accepted.
func (s *Session) ListComments(ctx context.Context, ticketNumber string) ([]schema.Comment, error) {
	if ticketNumber == "" {
		return nil, fmt.Errorf("apiclient: ticket number is required")
	}
	var raw json.RawMessage
	if err := s.client.doJSON(ctx, http.MethodGet, ticketPath(ticketNumber, "/comments"), s.accessToken, nil, nil, &raw); err != nil {
		return nil, fmt.Errorf("apiclient: list comments of %s: %w", ticketNumber, err)
	}

	comments := []schema.Comment{}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &comments); err != nil {
			return nil, fmt.Errorf("apiclient: decoding comments of %s: %w", ticketNumber, err)
		}
		return comments, nil
	}
	var envelope struct {
		Comments []schema.Comment `json:"comments"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("apiclient: decoding comments of %s: %w", ticketNumber, err)
	}
	if envelope.Comments != nil {
		comments = envelope.Comments
	}
	return comments, nil
}
