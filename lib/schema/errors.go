// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"slices"
	"strings"
)

// FieldErrors maps a form field's wire name to the message describing
// why it was rejected.
type FieldErrors map[string]string

// Error joins every message in field-name order so the text is stable.
func (e FieldErrors) Error() string {
	fields := e.Fields()
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Fields returns the rejected field names, sorted.
func (e FieldErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	slices.Sort(fields)
	return fields
}
