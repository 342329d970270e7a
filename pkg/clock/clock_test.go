package clock

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestFakeFiresInDeadlineOrder(t *testing.T) {
	c := NewFake()
	var got []string
	c.AfterFunc(300*time.Millisecond, func() { got = append(got, "c") })
	c.AfterFunc(100*time.Millisecond, func() { got = append(got, "a") })
	c.AfterFunc(100*time.Millisecond, func() { got = append(got, "b") })

	c.Advance(99 * time.Millisecond)
	if len(got) != 0 {
		t.Fatalf("fired early: %v", got)
	}
	c.Advance(time.Millisecond)
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Errorf("after 100ms mismatch (-want +got):\n%s", diff)
	}
	if c.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", c.Pending())
	}
	c.Advance(time.Second)
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("after 1.1s mismatch (-want +got):\n%s", diff)
	}
	if c.Now() != 1100*time.Millisecond {
		t.Errorf("Now() = %v, want 1.1s", c.Now())
	}
}

func TestFakeStop(t *testing.T) {
	c := NewFake()
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })
	if !timer.Stop() {
		t.Error("first Stop() = false")
	}
	if timer.Stop() {
		t.Error("second Stop() = true")
	}
	c.Advance(2 * time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
	if c.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", c.Pending())
	}
}

func TestFakeChainedTimers(t *testing.T) {
	c := NewFake()
	var at []time.Duration
	c.AfterFunc(100*time.Millisecond, func() {
		at = append(at, c.Now())
		c.AfterFunc(200*time.Millisecond, func() { at = append(at, c.Now()) })
	})
	c.Advance(250 * time.Millisecond)
	if diff := cmp.Diff([]time.Duration{100 * time.Millisecond}, at); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	c.Advance(50 * time.Millisecond)
	want := []time.Duration{100 * time.Millisecond, 300 * time.Millisecond}
	if diff := cmp.Diff(want, at); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestQueuedRoutesThroughQueue(t *testing.T) {
	queued := make(chan func(), 1)
	q := Queued{Queue: func(f func()) { queued <- f }}
	ran := false
	q.AfterFunc(time.Millisecond, func() { ran = true })

	select {
	case f := <-queued:
		if ran {
			t.Fatal("callback ran before the queue drained it")
		}
		f()
	case <-time.After(5 * time.Second):
		t.Fatal("callback never reached the queue")
	}
	if !ran {
		t.Error("drained callback did not run")
	}
}
