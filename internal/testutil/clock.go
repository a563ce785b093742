package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/tambolist/tambola/internal/peer"
)

// FakeClock is a controllable peer.Clock. Time only moves when a test
// calls Advance, which fires due callbacks in deadline order on the
// calling goroutine, so the whole timer-driven protocol runs
// deterministically.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *FakeClock
	when    time.Duration
	fn      func()
	stopped bool
	fired   bool
}

// NewFakeClock starts at time zero.
func NewFakeClock() *FakeClock {
	return &FakeClock{}
}

// AfterFunc schedules fn at now+d.
func (c *FakeClock) AfterFunc(d time.Duration, fn func()) peer.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTimer{clock: c, when: c.now + d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Stop cancels the timer if it has not fired.
func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward by d, firing every callback that
// comes due, including ones scheduled by earlier callbacks within the
// same window.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		t := c.popDue(target)
		if t == nil {
			break
		}
		t.fn()
	}

	c.mu.Lock()
	c.now = target
	c.mu.Unlock()
}

// popDue removes and returns the earliest pending timer at or before
// target, moving now to its deadline. Callbacks run outside the mutex
// so they can schedule or stop timers freely.
func (c *FakeClock) popDue(target time.Duration) *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	pending := c.timers[:0]
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			pending = append(pending, t)
		}
	}
	c.timers = pending

	sort.SliceStable(c.timers, func(i, j int) bool { return c.timers[i].when < c.timers[j].when })

	if len(c.timers) == 0 || c.timers[0].when > target {
		return nil
	}

	t := c.timers[0]
	t.fired = true
	c.now = t.when
	c.timers = c.timers[1:]
	return t
}

// Pending returns the number of armed timers.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
