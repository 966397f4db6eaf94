// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package sessiongate tracks whether the console has a logged-in staff
// member and decides which surfaces they may reach.
//
// A [Gate] moves between three states:
//
//	Anonymous --Login--> Authenticating --success--> Authenticated
//	                                    --failure--> Anonymous
//	Authenticated --Logout--> Anonymous
//
// The bearer token and the user record are persisted together through a
// [Store] and are only ever set or cleared as a pair, so a Gate is
// authenticated exactly when both are present. [Gate.Restore] reloads a
// persisted session at startup and can confirm it with the server
// before trusting it.
//
// The Gate never installs credentials on a shared HTTP client. Callers
// take a [Session] snapshot (or an apiclient.Session via
// [Gate.OpenSession]) and pass it explicitly to each request.
package sessiongate
