// Package puzzle holds the immutable puzzle records served by the catalog
// and the UCI coordinate moves they are scripted in.
package puzzle

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// Puzzle is a tactical position plus the line that solves it. FEN is the
// position before the setup move; Moves[0] is the setup move played by the
// opponent, the rest alternate between the solver and the scripted replies.
type Puzzle struct {
	ID      string   `json:"id"`
	FEN     string   `json:"fen"`
	Moves   []Move   `json:"moves"`
	Rating  int      `json:"rating"`
	Themes  []string `json:"themes,omitempty"`
	GameURL string   `json:"gameUrl,omitempty"`
}

// Solving reports how many moves remain after the setup move.
func (p Puzzle) Solving() int {
	if len(p.Moves) == 0 {
		return 0
	}
	return len(p.Moves) - 1
}

// HasTheme reports whether the puzzle is tagged with theme.
func (p Puzzle) HasTheme(theme string) bool {
	for _, t := range p.Themes {
		if t == theme {
			return true
		}
	}
	return false
}

// Move is a move in UCI coordinate form: source, destination and an
// optional promotion piece (chess.NoPieceType when absent).
type Move struct {
	From  chess.Square
	To    chess.Square
	Promo chess.PieceType
}

var promoLetters = map[chess.PieceType]string{
	chess.Queen:  "q",
	chess.Rook:   "r",
	chess.Bishop: "b",
	chess.Knight: "n",
}

// ParseMove decodes "e2e4" or "e7e8q".
func ParseMove(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	m := Move{From: from, To: to, Promo: chess.NoPieceType}
	if len(s) == 5 {
		promo, ok := ParsePromo(s[4])
		if !ok {
			return Move{}, fmt.Errorf("%w: bad promotion in %q", ErrInvalidMove, s)
		}
		m.Promo = promo
	}
	return m, nil
}

// MustParseMove is ParseMove for literals known to be valid.
func MustParseMove(s string) Move {
	m, err := ParseMove(s)
	if err != nil {
		panic(err)
	}
	return m
}

// ParseMoves decodes a whole line.
func ParseMoves(ss ...string) ([]Move, error) {
	moves := make([]Move, 0, len(ss))
	for _, s := range ss {
		m, err := ParseMove(s)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// ParseSquare decodes algebraic square names such as "e4".
func ParseSquare(s string) (chess.Square, error) {
	if len(s) != 2 {
		return chess.NoSquare, fmt.Errorf("bad square %q", s)
	}
	f, r := s[0], s[1]
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return chess.NoSquare, fmt.Errorf("bad square %q", s)
	}
	// A1 is square 0
	return chess.Square(int(r-'1')*8 + int(f-'a')), nil
}

// ParsePromo maps a UCI promotion letter to its piece type.
func ParsePromo(c byte) (chess.PieceType, bool) {
	switch c {
	case 'q', 'Q':
		return chess.Queen, true
	case 'r', 'R':
		return chess.Rook, true
	case 'b', 'B':
		return chess.Bishop, true
	case 'n', 'N':
		return chess.Knight, true
	}
	return chess.NoPieceType, false
}

// HasPromo reports whether the move names a promotion piece.
func (m Move) HasPromo() bool {
	return m.Promo != chess.NoPieceType
}

// String renders the move in UCI form.
func (m Move) String() string {
	return m.From.String() + m.To.String() + promoLetters[m.Promo]
}

// Matches compares an attempted move with m. Squares must be equal; the
// promotion piece only counts when m specifies one.
func (m Move) Matches(attempt Move) bool {
	if m.From != attempt.From || m.To != attempt.To {
		return false
	}
	if m.HasPromo() {
		return m.Promo == attempt.Promo
	}
	return true
}

func (m Move) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Move) UnmarshalText(b []byte) error {
	parsed, err := ParseMove(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
