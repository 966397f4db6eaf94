// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/supportdesk/supportdesk/lib/apiclient"
	"github.com/supportdesk/supportdesk/lib/schema"
)

var (
	// ErrBlankAuthor rejects a comment whose author is empty after
	// trimming. No request is sent.
	ErrBlankAuthor = errors.New("author name is required")

	// ErrBlankComment rejects a comment whose text is empty after
	// trimming. No request is sent.
	ErrBlankComment = errors.New("comment text is required")

	// ErrClosed is returned by operations on a closed View, including
	// operations whose response arrived after Close.
	ErrClosed = errors.New("ticketview: view is closed")

	// ErrNotListed is returned by Select for a ticket number that is
	// not in the current list.
	ErrNotListed = errors.New("ticket is not in the current list")
)

// Backend is the part of the API a View drives. *apiclient.Session
// satisfies it.
type Backend interface {
	ListTickets(ctx context.Context, options apiclient.ListOptions) (*schema.TicketList, error)
	UpdateStatus(ctx context.Context, ticketNumber string, status schema.Status) (*schema.Ticket, error)
	AddComment(ctx context.Context, ticketNumber string, request schema.CommentRequest) (*schema.Comment, error)
	ListComments(ctx context.Context, ticketNumber string) ([]schema.Comment, error)
}

// Level is an Alert's severity.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Alert is a transient, user-facing notification.
type Alert struct {
	Level   Level
	Message string
}

// DefaultPageSize is the page size Refresh requests when ViewConfig
// leaves it unset. It matches the server's own default.
const DefaultPageSize = 100

// ViewConfig configures a View.
type ViewConfig struct {
	// Backend performs the requests. Required.
	Backend Backend

	// Logger receives fetch and discard events. If nil, logging is
	// discarded.
	Logger *slog.Logger

	// OnAlert is called for every success or failure notification.
	// It runs on the goroutine that made the call, after the View's
	// lock is released, so it may call back into the View.
	OnAlert func(Alert)

	// Query is the initial query.
	Query Query

	// PageSize is the number of tickets Refresh requests per page.
	PageSize int
}

// View holds the authoritative ticket list and the state derived from
// it. Every fetch takes a number from a monotonic epoch counter; a
// response is applied only when its epoch is newer than the last one
// applied, so superseded responses are dropped regardless of the order
// they arrive in. All methods are safe for concurrent use.
type View struct {
	backend  Backend
	logger   *slog.Logger
	onAlert  func(Alert)
	pageSize int

	mu      sync.Mutex
	closed  bool
	tickets []schema.Ticket
	query   Query

	listIssued  uint64
	listApplied uint64

	selected        *schema.Ticket
	comments        []schema.Comment
	commentIssued   uint64
	commentsApplied uint64
}

// NewView creates an empty View. Call Refresh to load tickets.
func NewView(config ViewConfig) (*View, error) {
	if config.Backend == nil {
		return nil, fmt.Errorf("ticketview: Backend is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	pageSize := config.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &View{
		backend:  config.Backend,
		logger:   logger,
		onAlert:  config.OnAlert,
		pageSize: pageSize,
		query:    config.Query,
	}, nil
}

// Refresh replaces the ticket list with a fresh copy from the server.
// A response that is superseded by a newer applied one is discarded
// and Refresh returns nil. A failure raises an error Alert and leaves
// the current list untouched.
func (v *View) Refresh(ctx context.Context) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	v.listIssued++
	epoch := v.listIssued
	v.mu.Unlock()

	tickets, err := v.fetchAll(ctx)

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		v.mu.Unlock()
		v.logger.Warn("ticket list fetch failed", "epoch", epoch, "error", err)
		v.alert(LevelError, "Failed to fetch tickets")
		return fmt.Errorf("fetching tickets: %w", err)
	}
	if epoch <= v.listApplied {
		applied := v.listApplied
		v.mu.Unlock()
		v.logger.Debug("discarding superseded ticket list", "epoch", epoch, "applied", applied)
		return nil
	}
	v.tickets = tickets
	v.listApplied = epoch
	if v.selected != nil {
		if index := indexOf(tickets, v.selected.TicketNumber); index >= 0 {
			reconciled := tickets[index]
			v.selected = &reconciled
		}
	}
	v.mu.Unlock()

	v.logger.Debug("ticket list applied", "epoch", epoch, "count", len(tickets))
	return nil
}

// fetchAll pages through the list endpoint until the server's total
// is reached or a short page arrives.
func (v *View) fetchAll(ctx context.Context) ([]schema.Ticket, error) {
	var tickets []schema.Ticket
	for {
		page, err := v.backend.ListTickets(ctx, apiclient.ListOptions{
			Skip:  len(tickets),
			Limit: v.pageSize,
		})
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, page.Tickets...)
		if len(page.Tickets) < v.pageSize || len(tickets) >= page.Total {
			break
		}
	}
	if tickets == nil {
		tickets = []schema.Ticket{}
	}
	return tickets, nil
}

// Rows returns the visible rows for the current list and query.
func (v *View) Rows() []schema.Ticket {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Apply(v.tickets, v.query)
}

// Tickets returns a copy of the unfiltered list.
func (v *View) Tickets() []schema.Ticket {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.tickets)
}

// Query returns the current query.
func (v *View) Query() Query {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query
}

// SetQuery replaces the query. Rows recomputes from the full list.
func (v *View) SetQuery(query Query) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = query
}

// Select opens a ticket from the current list and loads its comments.
// Comments are fetched on demand, never with the list.
func (v *View) Select(ctx context.Context, ticketNumber string) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	index := indexOf(v.tickets, ticketNumber)
	if index < 0 {
		v.mu.Unlock()
		v.alert(LevelError, fmt.Sprintf("Ticket %s is not in the current list", ticketNumber))
		return fmt.Errorf("%w: %s", ErrNotListed, ticketNumber)
	}
	selected := v.tickets[index]
	v.selected = &selected
	v.comments = nil
	v.mu.Unlock()

	return v.loadComments(ctx, ticketNumber)
}

// Deselect closes the detail view.
func (v *View) Deselect() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selected = nil
	v.comments = nil
}

// Selected returns the selected ticket, if any.
func (v *View) Selected() (schema.Ticket, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.selected == nil {
		return schema.Ticket{}, false
	}
	return *v.selected, true
}

// Comments returns the loaded comments of the selected ticket.
func (v *View) Comments() []schema.Comment {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.comments)
}

// loadComments fetches comments for ticketNumber. The result is applied
// only if it is the newest comment fetch and the ticket is still
// selected.
func (v *View) loadComments(ctx context.Context, ticketNumber string) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	v.commentIssued++
	epoch := v.commentIssued
	v.mu.Unlock()

	comments, err := v.backend.ListComments(ctx, ticketNumber)

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		v.mu.Unlock()
		v.logger.Warn("comment fetch failed", "ticket", ticketNumber, "error", err)
		v.alert(LevelError, "Failed to fetch comments")
		return fmt.Errorf("fetching comments for %s: %w", ticketNumber, err)
	}
	if epoch <= v.commentsApplied || v.selected == nil || v.selected.TicketNumber != ticketNumber {
		v.mu.Unlock()
		v.logger.Debug("discarding stale comments", "ticket", ticketNumber, "epoch", epoch)
		return nil
	}
	v.comments = comments
	v.commentsApplied = epoch
	v.mu.Unlock()
	return nil
}

// UpdateStatus changes a ticket's status on the server. On success the
// selected ticket, if it is the one changed, takes the new status
// immediately and the list is refetched to reconcile. A failed refetch
// does not undo the local change.
func (v *View) UpdateStatus(ctx context.Context, ticketNumber string, status schema.Status) error {
	if !status.IsKnown() {
		v.alert(LevelError, fmt.Sprintf("Invalid status %q", status))
		return fmt.Errorf("ticketview: invalid status %q", status)
	}
	if v.isClosed() {
		return ErrClosed
	}

	if _, err := v.backend.UpdateStatus(ctx, ticketNumber, status); err != nil {
		if v.isClosed() {
			return ErrClosed
		}
		v.logger.Warn("status update failed", "ticket", ticketNumber, "status", status, "error", err)
		v.alert(LevelError, "Failed to update status")
		return fmt.Errorf("updating status of %s: %w", ticketNumber, err)
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	if v.selected != nil && v.selected.TicketNumber == ticketNumber {
		v.selected.Status = status
	}
	v.mu.Unlock()

	v.logger.Info("ticket status updated", "ticket", ticketNumber, "status", status)
	v.alert(LevelSuccess, "Status updated successfully")
	return v.Refresh(ctx)
}

// AddComment appends a comment and then refetches that ticket's
// comments. Blank author or text is rejected before any request.
func (v *View) AddComment(ctx context.Context, ticketNumber, author, text string) error {
	author = strings.TrimSpace(author)
	text = strings.TrimSpace(text)
	switch {
	case author == "":
		v.alert(LevelWarning, "Please enter your name")
		return ErrBlankAuthor
	case text == "":
		v.alert(LevelWarning, "Please enter a comment")
		return ErrBlankComment
	}
	if v.isClosed() {
		return ErrClosed
	}

	request := schema.CommentRequest{AuthorName: author, CommentText: text}
	if _, err := v.backend.AddComment(ctx, ticketNumber, request); err != nil {
		if v.isClosed() {
			return ErrClosed
		}
		v.logger.Warn("comment append failed", "ticket", ticketNumber, "error", err)
		v.alert(LevelError, "Failed to add comment")
		return fmt.Errorf("adding comment to %s: %w", ticketNumber, err)
	}

	v.alert(LevelSuccess, "Comment added successfully")
	return v.loadComments(ctx, ticketNumber)
}

// Close detaches the View. Responses that arrive afterwards change
// nothing and raise no alerts.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
}

func (v *View) isClosed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

func (v *View) alert(level Level, message string) {
	if v.onAlert != nil {
		v.onAlert(Alert{Level: level, Message: message})
	}
}

func indexOf(tickets []schema.Ticket, ticketNumber string) int {
	return slices.IndexFunc(tickets, func(ticket schema.Ticket) bool {
		return ticket.TicketNumber == ticketNumber
	})
}
