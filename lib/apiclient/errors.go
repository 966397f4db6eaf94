// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError is a non-2xx response from the backend. Callers inspect it
// with errors.As:
//
//	var apiErr *APIError
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden {
//	    fmt.Println(apiErr.Detail)
//	}
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Detail is the server's human-readable message, taken from the
	// "detail" field when present, otherwise the raw body text.
	Detail string
	// Method and Path identify the failed request.
	Method string
	Path   string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("apiclient: %s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("apiclient: %s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, statusCode int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == statusCode
}

// maxDetailLength caps raw non-JSON bodies copied into an error.
const maxDetailLength = 512

// validationIssue is one entry of a 422 response's detail array.
type validationIssue struct {
	Location []any  `json:"loc"`
	Message  string `json:"msg"`
}

// parseDetail extracts the message from an error body. The backend
// sends {"detail": "text"} for handled errors and {"detail": [...]} for
// request validation failures.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return truncateDetail(strings.TrimSpace(string(body)))
	}

	if len(envelope.Detail) > 0 {
		var text string
		if err := json.Unmarshal(envelope.Detail, &text); err == nil {
			return text
		}
		var issues []validationIssue
		if err := json.Unmarshal(envelope.Detail, &issues); err == nil && len(issues) > 0 {
			parts := make([]string, 0, len(issues))
			for _, issue := range issues {
				parts = append(parts, formatIssue(issue))
			}
			return strings.Join(parts, "; ")
		}
		return truncateDetail(string(envelope.Detail))
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return truncateDetail(strings.TrimSpace(string(body)))
}

func formatIssue(issue validationIssue) string {
	var location []string
	for _, element := range issue.Location {
		part := fmt.Sprint(element)
		if part == "body" || part == "query" || part == "path" {
			continue
		}
		location = append(location, part)
	}
	if len(location) == 0 {
		return issue.Message
	}
	return strings.Join(location, ".") + ": " + issue.Message
}

func truncateDetail(text string) string {
	if len(text) <= maxDetailLength {
		return text
	}
	return text[:maxDetailLength] + "..."
}
