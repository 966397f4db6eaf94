// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package apiclient is a client for the support backend's REST API.
//
// A [Client] holds the base URL and HTTP transport and serves the
// endpoints that need no identity: login, staff registration, ticket
// creation and ticket reads. A [Session] wraps a Client with one bearer
// token and serves everything else. The token travels with each
// request built by that Session; nothing is installed on the shared
// transport, so two Sessions on one Client never see each other's
// identity.
//
// Non-2xx responses become [*APIError], which carries the HTTP status
// and the backend's "detail" message. No request is retried and no
// timeout is imposed beyond the caller's context.
package apiclient
