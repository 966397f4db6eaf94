// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock lets time-dependent code run against a controllable
// clock in tests. Production code takes a [Clock] and receives [Real];
// tests pass a [FakeClock] and move it forward with Advance.
package clock
