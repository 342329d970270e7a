// Package board adapts github.com/notnil/chess to the handful of rules
// operations the puzzle engine needs.
package board

import (
	"fmt"

	"github.com/notnil/chess"

	"github.com/qnkhuat/chesspuzzle/pkg/puzzle"
)

// Board is a live, mutable position.
type Board struct {
	game *chess.Game
}

// New builds a board from a FEN string.
func New(fen string) (*Board, error) {
	game, err := gameFromFEN(fen)
	if err != nil {
		return nil, err
	}
	return &Board{game: game}, nil
}

// Start returns the standard initial position.
func Start() *Board {
	return &Board{game: chess.NewGame(chess.UseNotation(chess.UCINotation{}))}
}

func gameFromFEN(fen string) (*chess.Game, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", puzzle.ErrInvalidFEN, err)
	}
	return chess.NewGame(opt, chess.UseNotation(chess.UCINotation{})), nil
}

// FEN serialises the current position.
func (b *Board) FEN() string {
	return b.game.Position().String()
}

// Turn is the side to move.
func (b *Board) Turn() chess.Color {
	return b.game.Position().Turn()
}

// Piece returns the piece on sq, chess.NoPiece when empty.
func (b *Board) Piece(sq chess.Square) chess.Piece {
	return b.game.Position().Board().Piece(sq)
}

// Copy returns an independent board at the same position.
func (b *Board) Copy() *Board {
	game, err := gameFromFEN(b.FEN())
	if err != nil {
		// a position we produced always serialises back
		panic(err)
	}
	return &Board{game: game}
}

// Find returns the legal move matching m exactly, promotion included.
func (b *Board) Find(m puzzle.Move) (*chess.Move, bool) {
	for _, valid := range b.game.ValidMoves() {
		if valid.S1() == m.From && valid.S2() == m.To && valid.Promo() == m.Promo {
			return valid, true
		}
	}
	return nil, false
}

// Apply plays m in place. Illegal moves leave the board untouched.
func (b *Board) Apply(m puzzle.Move) (*chess.Move, error) {
	valid, ok := b.Find(m)
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", puzzle.ErrIllegalMove, m, b.FEN())
	}
	if err := b.game.Move(valid); err != nil {
		return nil, fmt.Errorf("%w: %v", puzzle.ErrIllegalMove, err)
	}
	return valid, nil
}

// SAN renders m in standard algebraic notation without playing it.
func (b *Board) SAN(m puzzle.Move) (string, error) {
	valid, ok := b.Find(m)
	if !ok {
		return "", fmt.Errorf("%w: %s in %s", puzzle.ErrIllegalMove, m, b.FEN())
	}
	return chess.AlgebraicNotation{}.Encode(b.game.Position(), valid), nil
}

// Destinations lists the squares the piece on sq can legally reach.
func (b *Board) Destinations(sq chess.Square) []chess.Square {
	var out []chess.Square
	seen := make(map[chess.Square]bool)
	for _, valid := range b.game.ValidMoves() {
		// promotions repeat the same destination once per piece
		if valid.S1() == sq && !seen[valid.S2()] {
			seen[valid.S2()] = true
			out = append(out, valid.S2())
		}
	}
	return out
}

// NeedsPromotion reports whether from→to moves a pawn onto its last rank.
func (b *Board) NeedsPromotion(from, to chess.Square) bool {
	p := b.Piece(from)
	if p.Type() != chess.Pawn {
		return false
	}
	return (p.Color() == chess.White && to.Rank() == chess.Rank8) ||
		(p.Color() == chess.Black && to.Rank() == chess.Rank1)
}

// InCheck reports whether the last move played gave check.
func (b *Board) InCheck() bool {
	moves := b.game.Moves()
	if len(moves) == 0 {
		return false
	}
	return moves[len(moves)-1].HasTag(chess.Check)
}

// Outcome is the game result, chess.NoOutcome while play continues.
func (b *Board) Outcome() chess.Outcome {
	return b.game.Outcome()
}
