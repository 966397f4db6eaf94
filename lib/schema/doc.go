// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the wire types exchanged with the support
// backend and the client-side checks applied to forms before they are
// submitted.
//
// JSON field names follow the backend exactly (snake_case). Timestamps
// use [Timestamp], which tolerates the backend's zone-less ISO 8601
// output. Form types ([TicketRequest], [Registration]) carry a Validate
// method returning [FieldErrors] keyed by wire field name, so a caller
// can show each message next to the field it belongs to.
package schema
