package session

import (
	"github.com/notnil/chess"

	"github.com/qnkhuat/chesspuzzle/pkg/puzzle"
)

// Status is the phase of a solving attempt.
type Status int

const (
	Loading Status = iota
	Playing
	Correct
	Wrong
	Solved
	Failed // reserved for abandonment, never entered
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Correct:
		return "correct"
	case Wrong:
		return "wrong"
	case Solved:
		return "solved"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further moves will be accepted.
func (s Status) Terminal() bool {
	return s == Solved || s == Failed
}

// Status messages shown to the solver.
const (
	MsgYourTurn    = "Your turn"
	MsgBestMove    = "Best move!"
	MsgWrongMove   = "That's not the move!"
	MsgTryAgain    = "Try again"
	MsgSolved      = "Puzzle solved!"
	MsgInvalidData = "Puzzle data is invalid"
)

// State is a read-only snapshot of the session, published after every
// change. Puzzle points at the engine's private copy and must not be
// modified.
type State struct {
	Attempt      string // unique per Load, Retry included
	Puzzle       *puzzle.Puzzle
	FEN          string
	Turn         chess.Color
	Cursor       int
	SolvingColor chess.Color
	LastMove     *puzzle.Move
	Status       Status
	Message      string
	HintsUsed    int
	OpponentTurn bool
	InCheck      bool
}

// Hint is the next expected solving move in presentable form.
type Hint struct {
	From chess.Square
	To   chess.Square
	SAN  string
}

// Observer receives every published State, synchronously.
type Observer interface {
	OnState(State)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(State)

func (f ObserverFunc) OnState(s State) { f(s) }

// Observers fans a snapshot out to several observers in order.
type Observers []Observer

func (o Observers) OnState(s State) {
	for _, obs := range o {
		obs.OnState(s)
	}
}
