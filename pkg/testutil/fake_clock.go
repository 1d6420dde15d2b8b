package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/fathomchat/fathom/pkg/reveal"
)

// FakeClock is a deterministic reveal.Clock for tests. Time only moves
// when Advance is called; due timers fire synchronously, in order.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *FakeClock
	at      time.Time
	fn      func()
	stopped bool
}

// NewFakeClock creates a fake clock starting at a fixed instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now implements reveal.Clock.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc implements reveal.Clock.
func (c *FakeClock) AfterFunc(d time.Duration, fn func()) reveal.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Stop implements reveal.Timer.
func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	wasPending := !t.stopped
	t.stopped = true
	return wasPending
}

// Advance moves the clock forward, firing every timer due along the way.
// Callbacks run without the clock lock held so they may arm new timers.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	deadline := c.now.Add(d)

	for {
		next := c.nextDueLocked(deadline)
		if next == nil {
			break
		}
		if next.at.After(c.now) {
			c.now = next.at
		}
		next.stopped = true
		fn := next.fn
		c.mu.Unlock()
		fn()
		c.mu.Lock()
	}

	c.now = deadline
	c.mu.Unlock()
}

// nextDueLocked returns the earliest pending timer at or before deadline.
func (c *FakeClock) nextDueLocked(deadline time.Time) *fakeTimer {
	pending := c.timers[:0]
	for _, t := range c.timers {
		if !t.stopped {
			pending = append(pending, t)
		}
	}
	c.timers = pending

	sort.Slice(c.timers, func(i, j int) bool {
		return c.timers[i].at.Before(c.timers[j].at)
	})

	for _, t := range c.timers {
		if !t.at.After(deadline) {
			return t
		}
	}
	return nil
}
