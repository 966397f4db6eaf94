// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

type wallClock struct{}

// Real returns a Clock backed by the time package.
func Real() Clock { return wallClock{} }

func (wallClock) Now() time.Time { return time.Now() }

func (wallClock) NewTicker(interval time.Duration) *Ticker {
	inner := time.NewTicker(interval)
	return &Ticker{C: inner.C, stop: inner.Stop}
}
