// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil holds shared test helpers.
//
// [RequireReceive], [RequireSend] and [RequireClosed] wrap a channel
// operation in a select with a wall-clock timeout so a wedged test
// fails with a message instead of hanging the run. They are the only
// helpers that touch the real clock; production code under test takes
// a lib/clock.Clock.
//
// [WriteFile] drops a fixture file into a test directory.
//
// Helpers call t.Fatalf on failure; setup failures are not recoverable.
package testutil
