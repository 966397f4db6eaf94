// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package sessiongate

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/supportdesk/supportdesk/lib/apiclient"
)

var (
	// ErrInvalidCredentials is returned when the server rejects the
	// username/password pair. The text is deliberately generic.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrLoginFailed wraps any login failure that is neither bad
	// credentials nor an inactive account: network errors, server
	// errors, malformed responses.
	ErrLoginFailed = errors.New("login failed, please try again")

	// ErrLoginInProgress is returned by Login while another Login on the
	// same Gate has not finished.
	ErrLoginInProgress = errors.New("a login is already in progress")

	// ErrAlreadyAuthenticated is returned by Login when a session is
	// active. Log out first.
	ErrAlreadyAuthenticated = errors.New("already logged in")

	// ErrNotAuthenticated is returned by operations that need a session
	// when the Gate is anonymous.
	ErrNotAuthenticated = errors.New("not logged in")

	// ErrSessionExpired is returned by a verifying Restore when the
	// server no longer accepts the persisted token. The stored session
	// has been cleared.
	ErrSessionExpired = errors.New("saved session is no longer valid")
)

// defaultInactiveMessage is used when a 403 carries no detail.
const defaultInactiveMessage = "Account is not active. Please wait for admin approval."

// InactiveError is returned when the account exists but an admin has
// not activated it (or has deactivated it). Message is the server's
// explanation, passed through unchanged.
type InactiveError struct {
	Message string
}

func (e *InactiveError) Error() string {
	return e.Message
}

// classifyLoginError maps a backend login failure onto the taxonomy.
func classifyLoginError(err error) error {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return ErrInvalidCredentials
		case http.StatusForbidden:
			message := apiErr.Detail
			if message == "" {
				message = defaultInactiveMessage
			}
			return &InactiveError{Message: message}
		}
	}
	return fmt.Errorf("%w: %w", ErrLoginFailed, err)
}

// isRejection reports whether err means the server refused the token
// itself, as opposed to being unreachable.
func isRejection(err error) bool {
	return apiclient.IsStatus(err, http.StatusUnauthorized) || apiclient.IsStatus(err, http.StatusForbidden)
}
