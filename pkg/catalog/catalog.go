// Package catalog serves puzzles from a fixed collection, matched to a
// requested rating with a widening fallback so a request always finds one.
package catalog

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/qnkhuat/chesspuzzle/pkg/puzzle"
)

// Rating bands tried in order before falling back to the nearest puzzles.
var Bands = []int{100, 150, 200}

// Nearest is how many puzzles the last-resort fallback returns.
const Nearest = 5

// Catalog is an immutable, ordered puzzle collection.
type Catalog struct {
	puzzles []puzzle.Puzzle
	rnd     *rand.Rand
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithRand fixes the random source used by Pick.
func WithRand(r *rand.Rand) Option {
	return func(c *Catalog) { c.rnd = r }
}

// New validates the collection's shape and builds a catalog. A catalog
// must hold at least one puzzle, identifiers must be unique and every
// puzzle needs its setup move. Chess legality is checked by Verify.
func New(puzzles []puzzle.Puzzle, opts ...Option) (*Catalog, error) {
	if len(puzzles) == 0 {
		return nil, puzzle.ErrEmptyCatalog
	}
	seen := make(map[string]bool, len(puzzles))
	for _, p := range puzzles {
		if seen[p.ID] {
			return nil, &puzzle.Error{ID: p.ID, Ply: -1, Err: puzzle.ErrDuplicateID}
		}
		seen[p.ID] = true
		if len(p.Moves) == 0 {
			return nil, &puzzle.Error{ID: p.ID, Ply: -1, Err: puzzle.ErrNoMoves}
		}
	}
	c := &Catalog{
		puzzles: append([]puzzle.Puzzle(nil), puzzles...),
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Len is the number of puzzles.
func (c *Catalog) Len() int {
	return len(c.puzzles)
}

// All returns the puzzles in catalog order.
func (c *Catalog) All() []puzzle.Puzzle {
	return append([]puzzle.Puzzle(nil), c.puzzles...)
}

// Candidates returns the puzzles within 100 rating points of rating,
// widening to 150 and then 200 when a band is empty. If all bands are
// empty it returns the Nearest closest puzzles, ties in catalog order.
// The result is never empty.
func (c *Catalog) Candidates(rating int) []puzzle.Puzzle {
	for _, band := range Bands {
		var matched []puzzle.Puzzle
		for _, p := range c.puzzles {
			if distance(p.Rating, rating) <= band {
				matched = append(matched, p)
			}
		}
		if len(matched) > 0 {
			return matched
		}
	}

	sorted := c.All()
	sort.SliceStable(sorted, func(i, j int) bool {
		return distance(sorted[i].Rating, rating) < distance(sorted[j].Rating, rating)
	})
	if len(sorted) > Nearest {
		sorted = sorted[:Nearest]
	}
	return sorted
}

// Pick returns one of Candidates(rating) uniformly at random.
func (c *Catalog) Pick(rating int) puzzle.Puzzle {
	candidates := c.Candidates(rating)
	return candidates[c.rnd.Intn(len(candidates))]
}

// Find looks a puzzle up by identifier.
func (c *Catalog) Find(id string) (puzzle.Puzzle, bool) {
	for _, p := range c.puzzles {
		if p.ID == id {
			return p, true
		}
	}
	return puzzle.Puzzle{}, false
}

// Filter returns a catalog restricted to the puzzles keep accepts, sharing
// the random source.
func (c *Catalog) Filter(keep func(puzzle.Puzzle) bool) (*Catalog, error) {
	var kept []puzzle.Puzzle
	for _, p := range c.puzzles {
		if keep(p) {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("filtering %d puzzles: %w", len(c.puzzles), puzzle.ErrEmptyCatalog)
	}
	return &Catalog{puzzles: kept, rnd: c.rnd}, nil
}

// distance is |a-b|, saturating at math.MaxInt.
func distance(a, b int) int {
	if a < b {
		a, b = b, a
	}
	if d := a - b; d >= 0 {
		return d
	}
	return math.MaxInt
}
