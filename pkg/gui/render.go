package gui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/notnil/chess"
	"github.com/rivo/tview"
)

const (
	numrows = 8
	numcols = 8
)

// marks are the square highlights drawn over the plain board colours.
type marks struct {
	last     [2]chess.Square
	hint     [2]chess.Square
	selected chess.Square
	targets  map[chess.Square]bool
	check    chess.Square
}

func noMarks() marks {
	return marks{
		last:     [2]chess.Square{chess.NoSquare, chess.NoSquare},
		hint:     [2]chess.Square{chess.NoSquare, chess.NoSquare},
		selected: chess.NoSquare,
		check:    chess.NoSquare,
	}
}

// background picks the square colour. Later rules win: last move, hint,
// legal targets, the selected piece, then a checked king.
func (m marks) background(sq chess.Square, t Theme) tcell.Color {
	bg := squareBg(sq, t)
	if sq == m.last[0] || sq == m.last[1] {
		bg = t.SquareHigh
	}
	if sq == m.hint[0] || sq == m.hint[1] {
		bg = t.SquareHint
	}
	if m.targets[sq] {
		bg = t.SquareTarget
	}
	if sq == m.selected {
		bg = t.SquareSelect
	}
	if sq == m.check {
		bg = t.SquareCheck
	}
	return bg
}

func getSquare(f chess.File, r chess.Rank) chess.Square {
	return chess.Square((int(r) * 8) + int(f))
}

// squareColor is the colour of the square itself, a1 being dark.
func squareColor(sq chess.Square) chess.Color {
	if (int(sq.File())+int(sq.Rank()))%2 == 0 {
		return chess.Black
	}
	return chess.White
}

// squareBg returns the theme's color corresponding to the square
func squareBg(sq chess.Square, t Theme) tcell.Color {
	if squareColor(sq) == chess.Black {
		return t.SquareDark
	}
	return t.SquareLight
}

// cellToSquare maps a table cell to a square. Column 0 holds the rank
// labels and row 8 the file labels; the board is drawn from the
// perspective of orient.
func cellToSquare(row, col int, orient chess.Color) (chess.Square, bool) {
	if row < 0 || row >= numrows || col < 1 || col > numcols {
		return chess.NoSquare, false
	}
	rank, file := numrows-row-1, col-1
	if orient == chess.Black {
		rank, file = row, numcols-col
	}
	return getSquare(chess.File(file), chess.Rank(rank)), true
}

// squareToCell is the inverse of cellToSquare.
func squareToCell(sq chess.Square, orient chess.Color) (row, col int) {
	rank, file := int(sq.Rank()), int(sq.File())
	if orient == chess.Black {
		return rank, numcols - file
	}
	return numrows - rank - 1, file + 1
}

// position is what drawBoard needs from a board.
type position interface {
	Piece(sq chess.Square) chess.Piece
}

// kingSquare finds the king of color c, or NoSquare.
func kingSquare(b position, c chess.Color) chess.Square {
	king := chess.WhiteKing
	if c == chess.Black {
		king = chess.BlackKing
	}
	for sq := chess.A1; sq <= chess.H8; sq++ {
		if b.Piece(sq) == king {
			return sq
		}
	}
	return chess.NoSquare
}

// drawBoard fills table with the position, labels included.
func drawBoard(table *tview.Table, b position, orient chess.Color, m marks, t Theme) {
	for row := 0; row < numrows; row++ {
		sq, _ := cellToSquare(row, 1, orient)
		table.SetCell(row, 0, tview.NewTableCell(sq.Rank().String()+" ").
			SetTextColor(t.Rank).
			SetAlign(tview.AlignCenter).
			SetSelectable(false))

		for col := 1; col <= numcols; col++ {
			sq, _ := cellToSquare(row, col, orient)
			p := b.Piece(sq)
			fg := t.White
			if p.Color() == chess.Black {
				fg = t.Black
			}
			table.SetCell(row, col, tview.NewTableCell(fmt.Sprintf(" %s ", p.String())).
				SetAlign(tview.AlignCenter).
				SetTextColor(fg).
				SetBackgroundColor(m.background(sq, t)))
		}
	}

	table.SetCell(numrows, 0, tview.NewTableCell("").SetSelectable(false))
	for col := 1; col <= numcols; col++ {
		sq, _ := cellToSquare(0, col, orient)
		table.SetCell(numrows, col, tview.NewTableCell(sq.File().String()).
			SetTextColor(t.File).
			SetAlign(tview.AlignCenter).
			SetSelectable(false))
	}
}
