package catalog

import (
	"errors"

	"github.com/qnkhuat/chesspuzzle/pkg/board"
	"github.com/qnkhuat/chesspuzzle/pkg/puzzle"
)

// VerifyPuzzle replays p's whole line and reports the first defect: an
// unparsable position, a move the position does not allow, or a line
// that is nothing but the setup move.
func VerifyPuzzle(p puzzle.Puzzle) error {
	if len(p.Moves) == 0 {
		return &puzzle.Error{ID: p.ID, Ply: -1, Err: puzzle.ErrNoMoves}
	}
	b, err := board.New(p.FEN)
	if err != nil {
		return &puzzle.Error{ID: p.ID, Ply: -1, Err: err}
	}
	for ply, m := range p.Moves {
		if _, err := b.Apply(m); err != nil {
			return &puzzle.Error{ID: p.ID, Ply: ply, Move: m.String(), Err: puzzle.ErrIllegalMove}
		}
	}
	if len(p.Moves) < 2 {
		return &puzzle.Error{ID: p.ID, Ply: -1, Err: puzzle.ErrNoSolution}
	}
	return nil
}

// Verify checks every puzzle and returns one error per defective puzzle,
// in catalog order.
func Verify(c *Catalog) []error {
	var errs []error
	for _, p := range c.puzzles {
		if err := VerifyPuzzle(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Verified returns the sound subset of c together with the defects that
// were dropped. It fails only when nothing survives.
func Verified(c *Catalog) (*Catalog, []error, error) {
	errs := Verify(c)
	if len(errs) == 0 {
		return c, nil, nil
	}
	bad := make(map[string]bool, len(errs))
	for _, err := range errs {
		var perr *puzzle.Error
		if errors.As(err, &perr) {
			bad[perr.ID] = true
		}
	}
	sound, err := c.Filter(func(p puzzle.Puzzle) bool { return !bad[p.ID] })
	if err != nil {
		return nil, errs, err
	}
	return sound, errs, nil
}
