package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeClock_FiresInDeadlineOrder(t *testing.T) {
	t.Parallel()

	c := NewFakeClock()
	var order []string
	c.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	c.AfterFunc(time.Second, func() { order = append(order, "a") })

	c.Advance(3 * time.Second)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Zero(t, c.Pending())
}

func TestFakeClock_StopPreventsFiring(t *testing.T) {
	t.Parallel()

	c := NewFakeClock()
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	c.Advance(2 * time.Second)
	assert.False(t, fired)
	assert.False(t, timer.Stop(), "second stop reports nothing to cancel")
}

func TestFakeClock_CallbackMayReschedule(t *testing.T) {
	t.Parallel()

	// Self-rescheduling timers (the ready poll, the draw loop) must
	// keep firing within one Advance window.
	c := NewFakeClock()
	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		c.AfterFunc(time.Second, tick)
	}
	c.AfterFunc(time.Second, tick)

	c.Advance(5 * time.Second)
	assert.Equal(t, 5, ticks)
	assert.Equal(t, 1, c.Pending())
}
