// Package stats keeps running solve statistics by watching session
// snapshots. Nothing is persisted.
package stats

import (
	"fmt"

	"github.com/qnkhuat/chesspuzzle/pkg/session"
)

// Tracker is a session.Observer. Each attempt counts once towards the
// total; a solve extends the streak and a wrong move breaks it.
type Tracker struct {
	Attempted  int
	Solved     int
	Streak     int
	BestStreak int
	Hints      int

	attempt string
	last    session.Status
	counted bool
	hints   int
}

// OnState implements session.Observer.
func (t *Tracker) OnState(s session.State) {
	if s.Attempt == "" {
		return
	}
	if s.Attempt != t.attempt {
		t.attempt = s.Attempt
		t.last = session.Loading
		t.counted = false
		t.hints = 0
	}
	if s.Status == session.Playing && !t.counted {
		t.counted = true
		t.Attempted++
	}
	if s.Status != t.last {
		switch s.Status {
		case session.Solved:
			if t.counted {
				t.Solved++
				t.Streak++
				if t.Streak > t.BestStreak {
					t.BestStreak = t.Streak
				}
			}
		case session.Wrong:
			t.Streak = 0
		}
	}
	if s.HintsUsed > t.hints {
		t.Hints += s.HintsUsed - t.hints
		t.hints = s.HintsUsed
	}
	t.last = s.Status
}

// Accuracy is the solved percentage, rounded to the nearest whole number.
func (t *Tracker) Accuracy() int {
	if t.Attempted == 0 {
		return 0
	}
	return (t.Solved*100 + t.Attempted/2) / t.Attempted
}

func (t *Tracker) String() string {
	return fmt.Sprintf("solved %d/%d (%d%%)  streak %d  best %d",
		t.Solved, t.Attempted, t.Accuracy(), t.Streak, t.BestStreak)
}
