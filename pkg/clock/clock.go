// Package clock schedules the delayed callbacks the puzzle engine relies on.
package clock

import (
	"time"
)

// Timer is a pending callback.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the call
	// stopped the timer, false if it had already fired or been stopped.
	Stop() bool
}

// Scheduler runs f once d has elapsed. AfterFunc must not block.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Real schedules on wall-clock time. Callbacks run on their own goroutine,
// so callers sharing state with them must serialise access themselves.
type Real struct{}

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Queued waits on wall-clock time, then hands f to Queue instead of running
// it directly. Point Queue at an event loop (tview's QueueUpdateDraw, a
// channel drain) to keep every callback on that loop's goroutine.
type Queued struct {
	Queue func(func())
}

func (q Queued) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, func() {
		q.Queue(f)
	})
}
