// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"slices"
	"sync"
	"time"
)

// FakeClock is a manually driven Clock for tests. Time stands still
// until Advance.
type FakeClock struct {
	mu         sync.Mutex
	now        time.Time
	tickers    []*fakeTicker
	registered *sync.Cond
}

type fakeTicker struct {
	next     time.Time
	interval time.Duration
	channel  chan time.Time
}

// Fake returns a FakeClock set to initial.
func Fake(initial time.Time) *FakeClock {
	fake := &FakeClock{now: initial}
	fake.registered = sync.NewCond(&fake.mu)
	return fake
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		panic("clock: NewTicker interval must be positive")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	ticker := &fakeTicker{
		next:     c.now.Add(interval),
		interval: interval,
		channel:  make(chan time.Time, 1),
	}
	c.tickers = append(c.tickers, ticker)
	c.registered.Broadcast()
	return &Ticker{C: ticker.channel, stop: func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.tickers = slices.DeleteFunc(c.tickers, func(other *fakeTicker) bool { return other == ticker })
	}}
}

// Advance moves the clock forward by d. Each live ticker fires once
// for every interval boundary crossed; a tick that finds C full is
// dropped.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
	for _, ticker := range c.tickers {
		for !ticker.next.After(c.now) {
			select {
			case ticker.channel <- ticker.next:
			default:
			}
			ticker.next = ticker.next.Add(ticker.interval)
		}
	}
}

// WaitForTimers blocks until n tickers are live. Call it before
// Advance when another goroutine creates the ticker.
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.tickers) < n {
		c.registered.Wait()
	}
}

// PendingCount returns the number of live tickers.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}
