// Package gui is the terminal front end of the puzzle trainer: a rating
// prompt followed by the board, a status line and the puzzle controls.
package gui

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/notnil/chess"
	"github.com/rivo/tview"

	"github.com/qnkhuat/chesspuzzle/pkg/board"
	"github.com/qnkhuat/chesspuzzle/pkg/catalog"
	"github.com/qnkhuat/chesspuzzle/pkg/clock"
	"github.com/qnkhuat/chesspuzzle/pkg/config"
	"github.com/qnkhuat/chesspuzzle/pkg/session"
	"github.com/qnkhuat/chesspuzzle/pkg/stats"
)

const (
	pageRating = "rating"
	pageBoard  = "board"

	DefaultHintDuration = 3 * time.Second
)

var promoCycle = []chess.PieceType{chess.Queen, chess.Rook, chess.Bishop, chess.Knight}

// Options configures a Trainer. Zero values fall back to defaults.
type Options struct {
	// Rating skips the rating prompt when set.
	Rating int
	Theme  Theme
	// Themes are cycled with the t key; defaults to the built in ones.
	Themes       []Theme
	ReplyDelay   time.Duration
	RevertDelay  time.Duration
	HintDuration time.Duration
	Logger       *slog.Logger
	// Scheduler defaults to wall-clock timers queued on the app's event loop.
	Scheduler clock.Scheduler
}

// Trainer owns the tview application and the puzzle engine behind it.
// Everything, timer callbacks included, runs on the tview event loop.
type Trainer struct {
	App    *tview.Application
	pages  *tview.Pages
	Board  *tview.Table
	input  *tview.InputField
	prompt *tview.TextView
	info   *tview.TextView
	status *tview.TextView
	score  *tview.TextView
	help   *tview.TextView

	engine       *session.Engine
	catalog      *catalog.Catalog
	tracker      *stats.Tracker
	theme        Theme
	themes       []Theme
	log          *slog.Logger
	sched        clock.Scheduler
	hintDuration time.Duration

	rating   int
	onBoard  bool
	state    session.State
	selected chess.Square
	targets  map[chess.Square]bool
	promo    int
	hint     *session.Hint
	hintSeq  int
}

// New builds the trainer screens. Nothing is drawn until Run.
func New(cat *catalog.Catalog, opts Options) *Trainer {
	app := tview.NewApplication()
	t := &Trainer{
		App:          app,
		catalog:      cat,
		tracker:      &stats.Tracker{},
		theme:        opts.Theme,
		themes:       opts.Themes,
		log:          opts.Logger,
		sched:        opts.Scheduler,
		hintDuration: opts.HintDuration,
		selected:     chess.NoSquare,
	}
	if t.theme.Name == "" {
		t.theme = ThemeBasic
	}
	if len(t.themes) == 0 {
		t.themes = Themes
	}
	if t.log == nil {
		t.log = slog.Default()
	}
	if t.sched == nil {
		t.sched = clock.Queued{Queue: func(f func()) { app.QueueUpdateDraw(f) }}
	}
	if t.hintDuration <= 0 {
		t.hintDuration = DefaultHintDuration
	}
	t.engine = session.New(
		session.Observers{t.tracker, session.ObserverFunc(t.onState)},
		session.WithScheduler(t.sched),
		session.WithLogger(t.log),
		session.WithDelays(opts.ReplyDelay, opts.RevertDelay),
	)
	t.state = t.engine.State()

	t.initRatingPage()
	t.initBoardPage()
	app.SetInputCapture(t.handleKey)

	if opts.Rating > 0 {
		t.Start(opts.Rating)
	}
	return t
}

// Run blocks until the user quits.
func (t *Trainer) Run() error {
	return t.App.SetRoot(t.pages, true).EnableMouse(true).Run()
}

// Stop ends Run.
func (t *Trainer) Stop() {
	t.App.Stop()
}

// Engine exposes the puzzle engine driving the board.
func (t *Trainer) Engine() *session.Engine {
	return t.engine
}

// Stats returns the running statistics for this sitting.
func (t *Trainer) Stats() *stats.Tracker {
	return t.tracker
}

func (t *Trainer) initRatingPage() {
	t.prompt = tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetText("Enter your rating to get matched puzzles")
	t.input = tview.NewInputField().
		SetLabel("Your rating: ").
		SetText("1500").
		SetFieldWidth(6).
		SetAcceptanceFunc(tview.InputFieldInteger)
	t.input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			t.submitRating(t.input.GetText())
		case tcell.KeyEscape:
			t.Stop()
		}
	})

	form := tview.NewGrid().
		SetRows(-1, 2, 1, -1).
		SetColumns(-1, 40, -1).
		AddItem(tview.NewBox(), 0, 0, 1, 3, 0, 0, false).
		AddItem(t.prompt, 1, 1, 1, 1, 0, 0, false).
		AddItem(t.input, 2, 1, 1, 1, 0, 0, true).
		AddItem(tview.NewBox(), 3, 0, 1, 3, 0, 0, false)

	t.pages = tview.NewPages().AddPage(pageRating, form, true, true)
}

func (t *Trainer) initBoardPage() {
	t.Board = tview.NewTable()
	t.Board.SetSelectable(true, true)
	t.Board.Select(0, 1).SetSelectedFunc(func(row, col int) {
		if sq, ok := cellToSquare(row, col, t.state.SolvingColor); ok {
			t.press(sq)
		}
	})

	t.info = tview.NewTextView()
	t.status = tview.NewTextView()
	t.score = tview.NewTextView()
	t.help = tview.NewTextView()

	hintBtn := tview.NewButton("Hint").SetSelectedFunc(t.ShowHint)
	retryBtn := tview.NewButton("Retry").SetSelectedFunc(t.Retry)
	nextBtn := tview.NewButton("Next").SetSelectedFunc(t.Next)
	exitBtn := tview.NewButton("Exit").SetSelectedFunc(t.Stop)

	controls := tview.NewGrid().
		SetColumns(8, 8, 8, 8).
		SetRows(1).
		SetGap(0, 1).
		AddItem(hintBtn, 0, 0, 1, 1, 0, 0, false).
		AddItem(retryBtn, 0, 1, 1, 1, 0, 0, false).
		AddItem(nextBtn, 0, 2, 1, 1, 0, 0, false).
		AddItem(exitBtn, 0, 3, 1, 1, 0, 0, false)

	side := tview.NewGrid().
		SetRows(3, 3, 1, 1, 1, -1).
		SetColumns(-1).
		AddItem(t.info, 0, 0, 1, 1, 0, 0, false).
		AddItem(t.status, 1, 0, 1, 1, 0, 0, false).
		AddItem(t.score, 2, 0, 1, 1, 0, 0, false).
		AddItem(tview.NewBox(), 3, 0, 1, 1, 0, 0, false).
		AddItem(controls, 4, 0, 1, 1, 0, 0, false).
		AddItem(t.help, 5, 0, 1, 1, 0, 0, false)

	layout := tview.NewGrid().
		SetRows(-1, 10, -1).
		SetColumns(-1, 30, 40, -1).
		AddItem(tview.NewBox(), 0, 0, 1, 4, 0, 0, false).
		AddItem(tview.NewBox(), 1, 0, 1, 1, 0, 0, false).
		AddItem(t.Board, 1, 1, 1, 1, 0, 0, true).
		AddItem(side, 1, 2, 1, 1, 0, 0, false).
		AddItem(tview.NewBox(), 1, 3, 1, 1, 0, 0, false).
		AddItem(tview.NewBox(), 2, 0, 1, 4, 0, 0, false)

	t.pages.AddPage(pageBoard, layout, true, false)
	t.render()
}

// submitRating is the rating prompt's Enter handler.
func (t *Trainer) submitRating(text string) {
	r, err := parseRating(text)
	if err != nil {
		t.prompt.SetTextColor(t.theme.Bad).SetText(err.Error())
		return
	}
	t.Start(r)
}

func parseRating(text string) (int, error) {
	r, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%q is not a rating", text)
	}
	if r < config.MinRating || r > config.MaxRating {
		return 0, fmt.Errorf("rating must be between %d and %d", config.MinRating, config.MaxRating)
	}
	return r, nil
}

// Start switches to the board and loads the first puzzle near rating.
func (t *Trainer) Start(rating int) {
	t.rating = rating
	t.onBoard = true
	t.pages.SwitchToPage(pageBoard)
	t.App.SetFocus(t.Board)
	t.log.Info("training started", "rating", rating, "puzzles", t.catalog.Len())
	t.Next()
}

// Next loads a fresh puzzle, avoiding an immediate repeat when the
// candidate pool allows it.
func (t *Trainer) Next() {
	if !t.onBoard {
		return
	}
	p := t.catalog.Pick(t.rating)
	if cur := t.state.Puzzle; cur != nil {
		for i := 0; i < 3 && p.ID == cur.ID; i++ {
			p = t.catalog.Pick(t.rating)
		}
	}
	t.clearSelection()
	t.clearHint()
	t.engine.Load(p)
}

// Retry restarts the current puzzle.
func (t *Trainer) Retry() {
	t.clearSelection()
	t.clearHint()
	t.engine.Retry()
}

// ShowHint highlights the expected move until the hint fades.
func (t *Trainer) ShowHint() {
	h, ok := t.engine.Hint()
	if !ok {
		return
	}
	t.hint = &h
	t.hintSeq++
	seq := t.hintSeq
	t.sched.AfterFunc(t.hintDuration, func() {
		if t.hintSeq != seq {
			return
		}
		t.hint = nil
		t.render()
	})
	t.render()
}

// press handles a board square being chosen. The first press selects one
// of the solver's pieces and marks where it can go; the second press
// either deselects it or plays the move.
func (t *Trainer) press(sq chess.Square) {
	if !t.engine.IsSolvingSideToMove() {
		t.clearSelection()
		t.render()
		return
	}
	if t.selected != chess.NoSquare {
		if sq == t.selected {
			t.clearSelection()
			t.render()
			return
		}
		if t.targets[sq] {
			from := t.selected
			t.clearSelection()
			t.engine.AttemptMove(from, sq, promoCycle[t.promo])
			t.render()
			return
		}
	}

	dests := t.engine.LegalMovesFrom(sq)
	if len(dests) == 0 {
		t.clearSelection()
		t.render()
		return
	}
	t.selected = sq
	t.targets = make(map[chess.Square]bool, len(dests))
	for _, d := range dests {
		t.targets[d] = true
	}
	t.render()
}

func (t *Trainer) handleKey(ev *tcell.EventKey) *tcell.EventKey {
	if !t.onBoard {
		return ev
	}
	switch ev.Key() {
	case tcell.KeyEscape:
		t.Stop()
		return nil
	case tcell.KeyRune:
		switch unicode.ToLower(ev.Rune()) {
		case 'h':
			t.ShowHint()
		case 'r':
			t.Retry()
		case 'n':
			t.Next()
		case 'p':
			t.promo = (t.promo + 1) % len(promoCycle)
			t.render()
		case 't':
			t.cycleTheme()
		case 'q':
			t.Stop()
		default:
			return ev
		}
		return nil
	}
	return ev
}

// onState receives every engine snapshot, after the tracker.
func (t *Trainer) onState(st session.State) {
	if st.Attempt != t.state.Attempt || st.Status != session.Playing {
		t.clearHint()
	}
	t.state = st
	if !t.engine.IsSolvingSideToMove() {
		t.clearSelection()
	}
	t.render()
}

// cycleTheme switches to the theme after the current one.
func (t *Trainer) cycleTheme() {
	next := 0
	for i, th := range t.themes {
		if th.Name == t.theme.Name {
			next = (i + 1) % len(t.themes)
			break
		}
	}
	t.theme = t.themes[next]
	t.log.Debug("theme changed", "theme", t.theme.Name)
	t.render()
}

func (t *Trainer) clearSelection() {
	t.selected = chess.NoSquare
	t.targets = nil
}

func (t *Trainer) clearHint() {
	t.hint = nil
	t.hintSeq++
}

func (t *Trainer) marks(b position) marks {
	m := noMarks()
	st := t.state
	if st.LastMove != nil {
		m.last = [2]chess.Square{st.LastMove.From, st.LastMove.To}
	}
	if t.hint != nil {
		m.hint = [2]chess.Square{t.hint.From, t.hint.To}
	}
	m.selected = t.selected
	m.targets = t.targets
	if st.InCheck {
		m.check = kingSquare(b, st.Turn)
	}
	return m
}

func (t *Trainer) render() {
	b, err := board.New(t.state.FEN)
	if err != nil {
		b = board.Start()
	}
	drawBoard(t.Board, b, t.state.SolvingColor, t.marks(b), t.theme)

	st := t.state
	if st.Puzzle != nil {
		played := st.Cursor - 1
		if played < 0 {
			played = 0
		}
		t.info.SetText(fmt.Sprintf("Puzzle %s  rating %d\nYou play %s  line %d/%d\nYour rating %d",
			st.Puzzle.ID, st.Puzzle.Rating, colorName(st.SolvingColor), played, st.Puzzle.Solving(), t.rating))
	} else {
		t.info.SetText("Loading puzzle...")
	}

	color := t.theme.Msg
	switch st.Status {
	case session.Correct, session.Solved:
		color = t.theme.Good
	case session.Wrong, session.Failed:
		color = t.theme.Bad
	}
	msg := st.Message
	if t.hint != nil {
		msg += "\nHint: " + t.hint.SAN
	}
	t.status.SetTextColor(color).SetText(msg)
	t.score.SetText(t.tracker.String())
	t.help.SetTextColor(t.theme.Rank).SetText(fmt.Sprintf("h hint  r retry  n next  q quit\np promotion: %s  t theme: %s",
		pieceName(promoCycle[t.promo]), t.theme.Name))
}

func colorName(c chess.Color) string {
	if c == chess.Black {
		return "Black"
	}
	return "White"
}

func pieceName(p chess.PieceType) string {
	switch p {
	case chess.Rook:
		return "rook"
	case chess.Bishop:
		return "bishop"
	case chess.Knight:
		return "knight"
	}
	return "queen"
}
