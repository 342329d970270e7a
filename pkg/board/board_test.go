package board

import (
	"errors"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/notnil/chess"

	"github.com/qnkhuat/chesspuzzle/pkg/puzzle"
)

const (
	startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	// 1.e4 e5 2.Bc4 Nc6 3.Qh5, black to move
	scholarFEN = "r1bqkbnr/pppp1ppp/2n5/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 3 3"
	// lone white pawn on e7, black to move
	promoFEN = "8/4P3/8/8/8/8/k7/4K3 b - - 0 1"
)

func mustBoard(t *testing.T, fen string) *Board {
	t.Helper()
	b, err := New(fen)
	if err != nil {
		t.Fatalf("New(%q): %v", fen, err)
	}
	return b
}

func TestNewRejectsGarbage(t *testing.T) {
	if _, err := New("not a fen"); !errors.Is(err, puzzle.ErrInvalidFEN) {
		t.Errorf("New(garbage) = %v, want ErrInvalidFEN", err)
	}
}

func TestApply(t *testing.T) {
	b := mustBoard(t, startFEN)
	if b.Turn() != chess.White {
		t.Fatalf("Turn() = %v, want white", b.Turn())
	}
	if _, err := b.Apply(puzzle.MustParseMove("e2e4")); err != nil {
		t.Fatalf("Apply(e2e4): %v", err)
	}
	if b.Turn() != chess.Black {
		t.Errorf("Turn() after e2e4 = %v, want black", b.Turn())
	}
	if b.Piece(chess.E4) != chess.WhitePawn {
		t.Errorf("Piece(e4) = %v, want white pawn", b.Piece(chess.E4))
	}

	before := b.FEN()
	_, err := b.Apply(puzzle.MustParseMove("e7e4"))
	if !errors.Is(err, puzzle.ErrIllegalMove) {
		t.Errorf("Apply(e7e4) = %v, want ErrIllegalMove", err)
	}
	if b.FEN() != before {
		t.Errorf("illegal move changed the position: %s -> %s", before, b.FEN())
	}
}

func TestCopyIsIndependent(t *testing.T) {
	b := mustBoard(t, startFEN)
	c := b.Copy()
	if _, err := c.Apply(puzzle.MustParseMove("d2d4")); err != nil {
		t.Fatalf("Apply on copy: %v", err)
	}
	if b.FEN() != startFEN {
		t.Errorf("original changed after playing on the copy: %s", b.FEN())
	}
}

func TestDestinations(t *testing.T) {
	b := mustBoard(t, startFEN)
	tests := []struct {
		sq   chess.Square
		want []chess.Square
	}{
		{chess.G1, []chess.Square{chess.F3, chess.H3}},
		{chess.E2, []chess.Square{chess.E3, chess.E4}},
		{chess.D1, nil},
		{chess.E5, nil},
	}
	for _, tc := range tests {
		got := b.Destinations(tc.sq)
		sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("Destinations(%s) mismatch (-want +got):\n%s", tc.sq, diff)
		}
	}
}

func TestDestinationsCollapsePromotions(t *testing.T) {
	b := mustBoard(t, promoFEN)
	if _, err := b.Apply(puzzle.MustParseMove("a2a3")); err != nil {
		t.Fatalf("Apply(a2a3): %v", err)
	}
	got := b.Destinations(chess.E7)
	if diff := cmp.Diff([]chess.Square{chess.E8}, got); diff != "" {
		t.Errorf("Destinations(e7) mismatch (-want +got):\n%s", diff)
	}
	if !b.NeedsPromotion(chess.E7, chess.E8) {
		t.Error("NeedsPromotion(e7, e8) = false")
	}
	if b.NeedsPromotion(chess.E1, chess.E2) {
		t.Error("NeedsPromotion(e1, e2) = true for a king move")
	}
	if _, ok := b.Find(puzzle.MustParseMove("e7e8")); ok {
		t.Error("Find(e7e8) without promotion piece should not match")
	}
	if _, ok := b.Find(puzzle.MustParseMove("e7e8n")); !ok {
		t.Error("Find(e7e8n) should match the knight promotion")
	}
}

func TestSAN(t *testing.T) {
	b := mustBoard(t, startFEN)
	tests := []struct {
		move string
		want string
	}{
		{"e2e4", "e4"},
		{"g1f3", "Nf3"},
	}
	for _, tc := range tests {
		got, err := b.SAN(puzzle.MustParseMove(tc.move))
		if err != nil {
			t.Errorf("SAN(%s): %v", tc.move, err)
			continue
		}
		if got != tc.want {
			t.Errorf("SAN(%s) = %q, want %q", tc.move, got, tc.want)
		}
	}
	if b.FEN() != startFEN {
		t.Errorf("SAN mutated the board: %s", b.FEN())
	}
	if _, err := b.SAN(puzzle.MustParseMove("e2e5")); !errors.Is(err, puzzle.ErrIllegalMove) {
		t.Errorf("SAN(e2e5) = %v, want ErrIllegalMove", err)
	}
}

func TestMateAndCheck(t *testing.T) {
	b := mustBoard(t, scholarFEN)
	if _, err := b.Apply(puzzle.MustParseMove("g8f6")); err != nil {
		t.Fatalf("Apply(g8f6): %v", err)
	}
	if b.InCheck() {
		t.Error("InCheck() after Nf6 = true")
	}
	san, err := b.SAN(puzzle.MustParseMove("h5f7"))
	if err != nil {
		t.Fatalf("SAN(h5f7): %v", err)
	}
	if san != "Qxf7#" {
		t.Errorf("SAN(h5f7) = %q, want Qxf7#", san)
	}
	if _, err := b.Apply(puzzle.MustParseMove("h5f7")); err != nil {
		t.Fatalf("Apply(h5f7): %v", err)
	}
	if !b.InCheck() {
		t.Error("InCheck() after Qxf7 = false")
	}
	if b.Outcome() != chess.WhiteWon {
		t.Errorf("Outcome() = %v, want 1-0", b.Outcome())
	}
}
