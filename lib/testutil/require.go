// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"time"
)

// TB is the part of testing.TB the channel helpers use.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// RequireReceive returns the next value on ch. The test fails when ch
// is closed or nothing arrives within timeout.
func RequireReceive[T any](t TB, ch <-chan T, timeout time.Duration, context ...any) T {
	t.Helper()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	select {
	case value, ok := <-ch:
		if !ok {
			t.Fatalf("%s: channel closed", describe(context))
		}
		return value
	case <-deadline.C:
		t.Fatalf("%s: nothing received within %v", describe(context), timeout)
	}
	var zero T
	return zero
}

// RequireSend delivers value on ch within timeout or fails the test.
func RequireSend[T any](t TB, ch chan<- T, value T, timeout time.Duration, context ...any) {
	t.Helper()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	select {
	case ch <- value:
	case <-deadline.C:
		t.Fatalf("%s: send blocked for %v", describe(context), timeout)
	}
}

// RequireClosed waits up to timeout for ch to close or deliver.
func RequireClosed(t TB, ch <-chan struct{}, timeout time.Duration, context ...any) {
	t.Helper()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	select {
	case <-ch:
	case <-deadline.C:
		t.Fatalf("%s: still open after %v", describe(context), timeout)
	}
}

// describe renders the optional trailing arguments: a format string
// with its operands, or plain values.
func describe(context []any) string {
	if len(context) == 0 {
		return "channel operation"
	}
	if format, ok := context[0].(string); ok && len(context) > 1 {
		return fmt.Sprintf(format, context[1:]...)
	}
	return fmt.Sprint(context...)
}
