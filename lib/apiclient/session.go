// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/supportdesk/supportdesk/lib/schema"
	"github.com/supportdesk/supportdesk/lib/secret"
)

// Session is an authenticated view of a Client. Every request it makes
// carries its own bearer token. The token is held in a secret.Buffer;
// call Close when the Session is no longer needed.
type Session struct {
	client      *Client
	accessToken *secret.Buffer
	user        schema.User
}

// NewSession binds an existing bearer token (for example one restored
// from disk) to the client. user is the identity the caller believes
// the token belongs to; Me confirms it against the server.
func (c *Client) NewSession(token string, user schema.User) (*Session, error) {
	if token == "" {
		return nil, fmt.Errorf("apiclient: token is required")
	}
	buffer, err := secret.NewFromString(token)
	if err != nil {
		return nil, fmt.Errorf("apiclient: storing token: %w", err)
	}
	return &Session{client: c, accessToken: buffer, user: user}, nil
}

// User returns the identity associated with the session.
func (s *Session) User() schema.User {
	return s.user
}

// AccessToken copies the bearer token onto the heap. Use only where a
// string is required, such as persisting the session.
func (s *Session) AccessToken() string {
	return s.accessToken.String()
}

// Client returns the underlying unauthenticated client.
func (s *Session) Client() *Client {
	return s.client
}

// Close releases the token memory. Idempotent.
func (s *Session) Close() error {
	if s.accessToken != nil {
		return s.accessToken.Close()
	}
	return nil
}

// Me returns the account the token belongs to, as the server sees it
// now. A revoked or expired token yields a 401 *APIError.
func (s *Session) Me(ctx context.Context) (schema.User, error) {
	var user schema.User
	if err := s.client.doJSON(ctx, http.MethodGet, "/api/v1/auth/me", s.accessToken, nil, nil, &user); err != nil {
		return schema.User{}, fmt.Errorf("apiclient: me: %w", err)
	}
	return user, nil
}

// ListTickets is [Client.ListTickets] sent with the session's token.
func (s *Session) ListTickets(ctx context.Context, options ListOptions) (*schema.TicketList, error) {
	return s.client.listTickets(ctx, s.accessToken, options)
}

// GetTicket is [Client.GetTicket] sent with the session's token.
func (s *Session) GetTicket(ctx context.Context, ticketNumber string) (*schema.Ticket, error) {
	return s.client.getTicket(ctx, s.accessToken, ticketNumber)
}

// CreateTicket is [Client.CreateTicket] sent with the session's token.
func (s *Session) CreateTicket(ctx context.Context, request schema.TicketRequest) (*schema.Ticket, error) {
	return s.client.createTicket(ctx, s.accessToken, request)
}
