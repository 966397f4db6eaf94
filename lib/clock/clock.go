// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock reads the time and schedules periodic refreshes.
type Clock interface {
	Now() time.Time

	// NewTicker returns a Ticker firing every interval. It panics when
	// interval is not positive, as time.NewTicker does.
	NewTicker(interval time.Duration) *Ticker
}

// Ticker sends the current time on C once per interval. C holds at
// most one pending tick; a slow reader loses the others.
type Ticker struct {
	C <-chan time.Time

	stop func()
}

// Stop halts the ticker. C stays open.
func (t *Ticker) Stop() { t.stop() }
