package puzzle

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/notnil/chess"
)

func TestParseMove(t *testing.T) {
	tests := []struct {
		in   string
		want Move
	}{
		{"e2e4", Move{From: chess.E2, To: chess.E4, Promo: chess.NoPieceType}},
		{"a1h8", Move{From: chess.A1, To: chess.H8, Promo: chess.NoPieceType}},
		{"e7e8q", Move{From: chess.E7, To: chess.E8, Promo: chess.Queen}},
		{"b2b1n", Move{From: chess.B2, To: chess.B1, Promo: chess.Knight}},
		{" G1F3 ", Move{From: chess.G1, To: chess.F3, Promo: chess.NoPieceType}},
	}
	for _, tc := range tests {
		got, err := ParseMove(tc.in)
		if err != nil {
			t.Errorf("ParseMove(%q) error: %v", tc.in, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("ParseMove(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestParseMoveRejects(t *testing.T) {
	for _, in := range []string{"", "e2", "e2e9", "i2e4", "e7e8k", "e7e8qq", "e2-e4"} {
		if _, err := ParseMove(in); !errors.Is(err, ErrInvalidMove) {
			t.Errorf("ParseMove(%q) = %v, want ErrInvalidMove", in, err)
		}
	}
}

func TestMoveString(t *testing.T) {
	for _, s := range []string{"e2e4", "h7h8r", "a2a1b", "c7c8n", "d7d8q"} {
		if got := MustParseMove(s).String(); got != s {
			t.Errorf("String() = %q, want %q", got, s)
		}
	}
}

func TestMoveMatches(t *testing.T) {
	tests := []struct {
		expected, attempt string
		want              bool
	}{
		{"e2e4", "e2e4", true},
		{"e2e4", "e2e3", false},
		{"e7e8q", "e7e8q", true},
		{"e7e8n", "e7e8q", false},
		// promotion on the attempt is ignored when the line does not name one
		{"e7e8", "e7e8q", true},
	}
	for _, tc := range tests {
		got := MustParseMove(tc.expected).Matches(MustParseMove(tc.attempt))
		if got != tc.want {
			t.Errorf("%s.Matches(%s) = %v, want %v", tc.expected, tc.attempt, got, tc.want)
		}
	}
}

func TestPuzzleJSON(t *testing.T) {
	raw := `{"id":"x1","fen":"8/8/8/8/8/8/8/8 w - - 0 1","moves":["e2e4","e7e8q"],"rating":1500,"themes":["mate"]}`
	var p Puzzle
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := Puzzle{
		ID:     "x1",
		FEN:    "8/8/8/8/8/8/8/8 w - - 0 1",
		Moves:  []Move{MustParseMove("e2e4"), MustParseMove("e7e8q")},
		Rating: 1500,
		Themes: []string{"mate"},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("decoded mismatch (-want +got):\n%s", diff)
	}
	if !p.HasTheme("mate") || p.HasTheme("fork") {
		t.Errorf("HasTheme reported wrong membership for %v", p.Themes)
	}
	if p.Solving() != 1 {
		t.Errorf("Solving() = %d, want 1", p.Solving())
	}

	var bad Puzzle
	err := json.Unmarshal([]byte(`{"id":"x2","moves":["zz99"]}`), &bad)
	if !errors.Is(err, ErrInvalidMove) {
		t.Errorf("Unmarshal bad move = %v, want ErrInvalidMove", err)
	}
}

func TestErrorFormatting(t *testing.T) {
	err := &Error{ID: "abc", Ply: 2, Move: "g1g5", Err: ErrIllegalMove}
	want := `puzzle "abc", ply 2, move "g1g5": illegal move`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrIllegalMove) {
		t.Error("errors.Is should see through *Error")
	}
	noPly := &Error{ID: "abc", Ply: -1, Err: ErrNoMoves}
	if got := noPly.Error(); got != `puzzle "abc": puzzle has no moves` {
		t.Errorf("Error() = %q", got)
	}
}
