// Package session drives a single puzzle attempt: it applies the setup
// move, judges the solver's moves against the scripted line, plays the
// opponent's replies, and pushes a State snapshot to its observer after
// every change.
package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/notnil/chess"

	"github.com/qnkhuat/chesspuzzle/pkg/board"
	"github.com/qnkhuat/chesspuzzle/pkg/clock"
	"github.com/qnkhuat/chesspuzzle/pkg/puzzle"
)

const (
	DefaultReplyDelay  = 400 * time.Millisecond
	DefaultRevertDelay = 1500 * time.Millisecond
)

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler sets where delayed replies and reverts are scheduled.
func WithScheduler(s clock.Scheduler) Option {
	return func(e *Engine) { e.sched = s }
}

// WithLogger sets the logger used for data defects and transitions.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithDelays overrides the opponent reply and wrong-move revert delays.
// Non-positive values keep the defaults.
func WithDelays(reply, revert time.Duration) Option {
	return func(e *Engine) {
		if reply > 0 {
			e.replyDelay = reply
		}
		if revert > 0 {
			e.revertDelay = revert
		}
	}
}

// Engine owns exactly one live attempt. It is not safe for concurrent use:
// calls and timer callbacks must arrive on one goroutine, which is what
// clock.Queued and clock.Fake provide.
type Engine struct {
	obs         Observer
	sched       clock.Scheduler
	log         *slog.Logger
	replyDelay  time.Duration
	revertDelay time.Duration

	cur   *attempt
	timer clock.Timer // at most one reply or revert is ever pending
}

// attempt is replaced wholesale on every Load; the timer holds a pointer to
// the attempt they were scheduled for and compare it with Engine.cur.
type attempt struct {
	id       string
	puzzle   *puzzle.Puzzle
	board    *board.Board
	cursor   int
	solving  chess.Color
	lastMove *puzzle.Move
	status   Status
	message  string
	hints    int
	locked   bool
	epoch    int
}

// New returns an engine in the loading state. obs may be nil.
func New(obs Observer, opts ...Option) *Engine {
	e := &Engine{
		obs:         obs,
		sched:       clock.Real{},
		log:         slog.Default(),
		replyDelay:  DefaultReplyDelay,
		revertDelay: DefaultRevertDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.cur = &attempt{board: board.Start(), solving: chess.White, status: Loading}
	return e
}

// State returns the current snapshot.
func (e *Engine) State() State {
	return e.snapshot(e.cur)
}

// Load starts a fresh attempt at p. Malformed setup data is logged and
// leaves the attempt in Loading, refusing every move.
func (e *Engine) Load(p puzzle.Puzzle) {
	e.stopTimers()
	p.Moves = append([]puzzle.Move(nil), p.Moves...)
	a := &attempt{
		id:      uuid.NewString(),
		puzzle:  &p,
		solving: chess.White,
		status:  Loading,
	}
	e.cur = a
	log := e.log.With("puzzle", p.ID, "attempt", a.id)

	b, err := board.New(p.FEN)
	if err != nil {
		log.Error("bad starting position", "fen", p.FEN, "err", err)
		a.board = board.Start()
		e.set(a, Loading, MsgInvalidData)
		e.publish(a)
		return
	}
	a.board = b
	a.solving = b.Turn()
	if len(p.Moves) == 0 {
		log.Error("puzzle has no setup move", "err", puzzle.ErrNoMoves)
		e.set(a, Loading, MsgInvalidData)
		e.publish(a)
		return
	}

	setup := p.Moves[0]
	if _, err := b.Apply(setup); err != nil {
		log.Error("setup move failed", "ply", 0, "move", setup.String(), "err", err)
		e.set(a, Loading, MsgInvalidData)
		e.publish(a)
		return
	}
	// the solver is whoever moves after the opponent's setup move
	a.solving = b.Turn()
	a.cursor = 1
	a.lastMove = &setup

	if a.cursor >= len(p.Moves) {
		// nothing left to solve
		log.Warn("puzzle has no solving moves", "err", puzzle.ErrNoSolution)
		e.set(a, Solved, MsgSolved)
	} else {
		e.set(a, Playing, MsgYourTurn)
	}
	log.Debug("puzzle loaded", "solving", a.solving.String(), "rating", p.Rating)
	e.publish(a)
}

// Retry restarts the current puzzle from its starting position.
func (e *Engine) Retry() {
	if e.cur.puzzle == nil {
		return
	}
	e.Load(*e.cur.puzzle)
}

// AttemptMove submits a solver move and reports whether it was the
// expected solving move. Illegal moves are rejected silently; legal but
// wrong moves flash the Wrong status. promo may be chess.NoPieceType, in
// which case a pawn reaching the last rank promotes to a queen.
func (e *Engine) AttemptMove(from, to chess.Square, promo chess.PieceType) bool {
	a := e.cur
	if !a.accepting() || a.board.Turn() != a.solving {
		return false
	}
	if a.board.NeedsPromotion(from, to) {
		if promo == chess.NoPieceType {
			promo = chess.Queen
		}
	} else {
		promo = chess.NoPieceType
	}
	move := puzzle.Move{From: from, To: to, Promo: promo}
	expected := a.puzzle.Moves[a.cursor]

	if !expected.Matches(move) {
		if _, err := a.board.Copy().Apply(move); err != nil {
			return false
		}
		e.set(a, Wrong, MsgWrongMove)
		e.publish(a)
		e.scheduleRevert(a)
		return false
	}

	if _, err := a.board.Apply(move); err != nil {
		// the expected move is always legal in sound puzzle data
		e.log.Error("expected move rejected by the board",
			"puzzle", a.puzzle.ID, "ply", a.cursor, "move", move.String(), "err", err)
		return false
	}
	a.cursor++
	a.lastMove = &move

	if a.cursor >= len(a.puzzle.Moves) {
		a.locked = false
		e.set(a, Solved, MsgSolved)
		e.publish(a)
		return true
	}
	a.locked = true
	e.set(a, Correct, MsgBestMove)
	e.publish(a)
	e.scheduleReply(a)
	return true
}

// AttemptUCI is AttemptMove for a UCI string such as "e7e8q".
func (e *Engine) AttemptUCI(s string) bool {
	m, err := puzzle.ParseMove(s)
	if err != nil {
		return false
	}
	return e.AttemptMove(m.From, m.To, m.Promo)
}

func (e *Engine) scheduleReply(a *attempt) {
	epoch := a.epoch
	e.after(e.replyDelay, func() {
		if e.cur != a || a.epoch != epoch || a.status != Correct {
			return
		}
		e.playOpponentReply(a)
	})
}

func (e *Engine) scheduleRevert(a *attempt) {
	epoch := a.epoch
	e.after(e.revertDelay, func() {
		if e.cur != a || a.epoch != epoch || a.status != Wrong {
			return
		}
		e.set(a, Playing, MsgTryAgain)
		e.publish(a)
	})
}

// playOpponentReply plays the scripted move at the cursor. A reply the
// board refuses is a data defect; the attempt stalls in Correct.
func (e *Engine) playOpponentReply(a *attempt) {
	if a.cursor >= len(a.puzzle.Moves) {
		return
	}
	reply := a.puzzle.Moves[a.cursor]
	if _, err := a.board.Apply(reply); err != nil {
		e.log.Error("scripted reply failed",
			"puzzle", a.puzzle.ID, "ply", a.cursor, "move", reply.String(), "err", err)
		return
	}
	a.cursor++
	a.lastMove = &reply
	a.locked = false
	if a.cursor >= len(a.puzzle.Moves) {
		e.set(a, Solved, MsgSolved)
	} else {
		e.set(a, Playing, MsgYourTurn)
	}
	e.publish(a)
}

// Hint returns the expected solving move and counts it against the
// attempt. It returns false when there is nothing for the solver to play.
func (e *Engine) Hint() (Hint, bool) {
	a := e.cur
	if !a.accepting() || a.cursor >= len(a.puzzle.Moves) {
		return Hint{}, false
	}
	m := a.puzzle.Moves[a.cursor]
	san, err := a.board.SAN(m)
	if err != nil {
		san = fmt.Sprintf("%s-%s", m.From, m.To)
	}
	a.hints++
	e.publish(a)
	return Hint{From: m.From, To: m.To, SAN: san}, true
}

// LegalMovesFrom lists the destinations reachable from sq in the live
// position. It knows nothing about the solution.
func (e *Engine) LegalMovesFrom(sq chess.Square) []chess.Square {
	return e.cur.board.Destinations(sq)
}

// IsSolvingSideToMove reports whether the engine is waiting on the solver.
func (e *Engine) IsSolvingSideToMove() bool {
	a := e.cur
	return a.accepting() && a.board.Turn() == a.solving
}

func (a *attempt) accepting() bool {
	if a.puzzle == nil || a.locked {
		return false
	}
	return a.status != Loading && !a.status.Terminal()
}

func (e *Engine) set(a *attempt, status Status, msg string) {
	if a.status != status {
		e.log.Debug("status", "attempt", a.id, "from", a.status.String(), "to", status.String())
		if status == Solved {
			e.log.Info("puzzle solved", "puzzle", a.puzzle.ID, "attempt", a.id,
				"hints", a.hints, "outcome", string(a.board.Outcome()))
		}
	}
	a.status = status
	a.message = msg
	a.epoch++
}

// after replaces the pending timer, if any, with f.
func (e *Engine) after(d time.Duration, f func()) {
	e.stopTimers()
	e.timer = e.sched.AfterFunc(d, f)
}

func (e *Engine) stopTimers() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Engine) publish(a *attempt) {
	if e.obs == nil {
		return
	}
	e.obs.OnState(e.snapshot(a))
}

func (e *Engine) snapshot(a *attempt) State {
	st := State{
		Attempt:      a.id,
		Puzzle:       a.puzzle,
		FEN:          a.board.FEN(),
		Turn:         a.board.Turn(),
		Cursor:       a.cursor,
		SolvingColor: a.solving,
		Status:       a.status,
		Message:      a.message,
		HintsUsed:    a.hints,
		OpponentTurn: a.locked,
		InCheck:      a.board.InCheck(),
	}
	if a.lastMove != nil {
		m := *a.lastMove
		st.LastMove = &m
	}
	return st
}
