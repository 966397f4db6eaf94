// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/supportdesk/supportdesk/lib/apiclient"
	"github.com/supportdesk/supportdesk/lib/netutil"
	"github.com/supportdesk/supportdesk/lib/schema"
	"github.com/supportdesk/supportdesk/lib/sessiongate"
	"github.com/supportdesk/supportdesk/lib/ticketstore"
	"github.com/supportdesk/supportdesk/lib/ticketview"
)

// ErrorCategory classifies command failures.
type ErrorCategory string

const (
	// CategoryValidation means the input was wrong; fix it and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound means a referenced ticket or account does not
	// exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden means the session is missing, expired or lacks
	// the role the operation needs.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryConflict means the request clashes with existing state,
	// such as a taken username.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryTransient means the backend was unreachable or
	// overloaded. Retrying may succeed.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal is everything else.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized command error. Error returns the wrapped
// message unchanged.
type ToolError struct {
	Category ErrorCategory
	Err      error
}

func (e *ToolError) Error() string { return e.Err.Error() }

func (e *ToolError) Unwrap() error { return e.Err }

// Validation creates a validation error.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a forbidden error.
func Forbidden(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// Conflict creates a conflict error.
func Conflict(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// CategoryOf returns err's category, or "" when err is nil.
func CategoryOf(err error) ErrorCategory {
	if err == nil {
		return ""
	}
	var toolErr *ToolError
	if errors.As(Classify(err), &toolErr) {
		return toolErr.Category
	}
	return CategoryInternal
}

// Classify wraps err in a ToolError chosen from what it carries: an
// existing ToolError, a session or view error, form field errors, an
// HTTP status, or a transport failure. ExitError and nil pass through.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return err
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &ToolError{Category: classify(err), Err: err}
}

func classify(err error) ErrorCategory {
	var inactive *sessiongate.InactiveError
	var fieldErrs schema.FieldErrors
	switch {
	case errors.Is(err, sessiongate.ErrInvalidCredentials),
		errors.Is(err, sessiongate.ErrNotAuthenticated),
		errors.Is(err, sessiongate.ErrSessionExpired),
		errors.As(err, &inactive):
		return CategoryForbidden
	case errors.Is(err, sessiongate.ErrAlreadyAuthenticated),
		errors.Is(err, sessiongate.ErrLoginInProgress),
		errors.Is(err, ticketstore.ErrLocked):
		return CategoryConflict
	case errors.Is(err, ticketview.ErrBlankAuthor),
		errors.Is(err, ticketview.ErrBlankComment),
		errors.As(err, &fieldErrs):
		return CategoryValidation
	case errors.Is(err, ticketview.ErrNotListed):
		return CategoryNotFound
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return categoryForStatus(apiErr.StatusCode)
	}
	if netutil.IsUnreachable(err) {
		return CategoryTransient
	}
	return CategoryInternal
}

func categoryForStatus(statusCode int) ErrorCategory {
	switch {
	case statusCode == http.StatusBadRequest, statusCode == http.StatusUnprocessableEntity:
		return CategoryValidation
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		return CategoryForbidden
	case statusCode == http.StatusNotFound:
		return CategoryNotFound
	case statusCode == http.StatusConflict:
		return CategoryConflict
	case statusCode == http.StatusTooManyRequests, statusCode >= 500:
		return CategoryTransient
	default:
		return CategoryInternal
	}
}
