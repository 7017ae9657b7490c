// Package clock abstracts wall-clock scheduling so round timers,
// results delays and disconnect grace windows can run on a
// deterministic clock in tests.
package clock

import "time"

// Timer is a handle on a scheduled callback. Stop reports whether
// the call was prevented from firing; stopping an already fired or
// stopped timer is a safe no-op.
type Timer interface {
	Stop() bool
}

// Clock schedules delayed, cancellable callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// System is the production clock, backed by the time package.
// Callbacks fire on their own goroutine, exactly like time.AfterFunc.
type System struct{}

func (System) Now() time.Time { return time.Now() }

func (System) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
