// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package consoletest runs supportctl commands against an in-memory
// backend.
//
// [NewBackend] serves the ticket, comment, auth and admin endpoints from
// process memory over httptest. [Setup] writes a configuration file
// pointing at it, points $SUPPORTDESK_CONFIG there and redirects the
// command output streams, so a test can call Command().Execute and
// inspect both what was printed and what the backend saw.
package consoletest
