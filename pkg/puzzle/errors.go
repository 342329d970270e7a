package puzzle

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for puzzle data defects. Use errors.Is to test for them.
var (
	// ErrInvalidMove indicates a move string that is not UCI coordinate notation.
	ErrInvalidMove = errors.New("invalid move notation")

	// ErrInvalidFEN indicates a starting position that cannot be parsed.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrIllegalMove indicates a scripted move that the position does not allow.
	ErrIllegalMove = errors.New("illegal move")

	// ErrNoMoves indicates a puzzle without even a setup move.
	ErrNoMoves = errors.New("puzzle has no moves")

	// ErrNoSolution indicates a puzzle made of the setup move only.
	ErrNoSolution = errors.New("puzzle has no solving moves")

	// ErrDuplicateID indicates two catalog entries sharing an identifier.
	ErrDuplicateID = errors.New("duplicate puzzle id")

	// ErrEmptyCatalog indicates a catalog with nothing to serve.
	ErrEmptyCatalog = errors.New("empty puzzle catalog")
)

// Error ties a data defect to the puzzle and ply it was found at.
type Error struct {
	ID   string // puzzle identifier
	Ply  int    // index into Moves, -1 when the defect is not move specific
	Move string // UCI text of the offending move, if any
	Err  error
}

func (e *Error) Error() string {
	parts := []string{fmt.Sprintf("puzzle %q", e.ID)}
	if e.Ply >= 0 {
		parts = append(parts, fmt.Sprintf("ply %d", e.Ply))
	}
	if e.Move != "" {
		parts = append(parts, fmt.Sprintf("move %q", e.Move))
	}
	context := strings.Join(parts, ", ")
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", context, e.Err)
	}
	return context
}

func (e *Error) Unwrap() error {
	return e.Err
}
