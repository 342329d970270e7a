package clock

import (
	"sort"
	"time"
)

// Fake is a virtual clock for tests. Nothing fires until Advance is called,
// and callbacks run synchronously on the caller's goroutine.
type Fake struct {
	now     time.Duration
	seq     int
	pending []*fakeTimer
}

type fakeTimer struct {
	clock    *Fake
	deadline time.Duration
	seq      int
	f        func()
	done     bool
}

// NewFake returns a clock at virtual time zero.
func NewFake() *Fake {
	return &Fake{}
}

func (c *Fake) AfterFunc(d time.Duration, f func()) Timer {
	c.seq++
	t := &fakeTimer{clock: c, deadline: c.now + d, seq: c.seq, f: f}
	c.pending = append(c.pending, t)
	return t
}

// Now is the virtual time elapsed since the clock was created.
func (c *Fake) Now() time.Duration {
	return c.now
}

// Pending counts timers that have neither fired nor been stopped.
func (c *Fake) Pending() int {
	n := 0
	for _, t := range c.pending {
		if !t.done {
			n++
		}
	}
	return n
}

// Advance moves virtual time forward by d, firing every timer whose
// deadline is reached in deadline order (ties in scheduling order).
// Timers scheduled by a callback fire too if they fall inside the window.
func (c *Fake) Advance(d time.Duration) {
	target := c.now + d
	for {
		next := c.next(target)
		if next == nil {
			break
		}
		c.now = next.deadline
		next.done = true
		next.f()
	}
	c.now = target
	c.compact()
}

func (c *Fake) next(target time.Duration) *fakeTimer {
	live := make([]*fakeTimer, 0, len(c.pending))
	for _, t := range c.pending {
		if !t.done && t.deadline <= target {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return nil
	}
	sort.Slice(live, func(i, j int) bool {
		if live[i].deadline != live[j].deadline {
			return live[i].deadline < live[j].deadline
		}
		return live[i].seq < live[j].seq
	})
	return live[0]
}

func (c *Fake) compact() {
	kept := c.pending[:0]
	for _, t := range c.pending {
		if !t.done {
			kept = append(kept, t)
		}
	}
	c.pending = kept
}

func (t *fakeTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	return true
}
