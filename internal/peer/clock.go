package peer

import "time"

// Timer is an owned handle on one pending callback. Stop reports
// whether the callback was prevented from running; a false return
// means it already fired or was already stopped.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. The production clock delegates to the
// runtime; tests substitute a controllable fake so every timeout in
// the protocol can be driven deterministically.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// SystemClock is the real-time clock.
var SystemClock Clock = systemClock{}

// stopTimer cancels a pending timer handle and clears it. Safe on nil.
func stopTimer(t *Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
