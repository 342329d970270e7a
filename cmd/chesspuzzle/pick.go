package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/qnkhuat/chesspuzzle/pkg/config"
	"github.com/qnkhuat/chesspuzzle/pkg/logging"
	"github.com/qnkhuat/chesspuzzle/pkg/puzzle"
)

var (
	pickJSON  bool
	pickTheme string
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Print a puzzle matched to a rating",
	Args:  cobra.NoArgs,
	RunE:  runPick,
}

func init() {
	pickCmd.Flags().IntVar(&cfg.Rating, "rating", cfg.Rating, "rating to match")
	pickCmd.Flags().BoolVar(&pickJSON, "json", false, "print the puzzle as JSON")
	pickCmd.Flags().StringVar(&pickTheme, "theme", "", "only puzzles tagged with this theme, e.g. mateIn2")
	pickCmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "fix the selection (0 picks from the clock)")
	pickCmd.Flags().BoolVar(&cfg.StrictCatalog, "strict", cfg.StrictCatalog, "skip puzzles whose lines do not replay")
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
	if cfg.Rating < config.MinRating || cfg.Rating > config.MaxRating {
		return fmt.Errorf("rating %d outside [%d, %d]", cfg.Rating, config.MinRating, config.MaxRating)
	}
	log, closer, err := logging.New(cfg.LogPath, cfg.LogLevel, "pick")
	if err != nil {
		return err
	}
	defer closer.Close()

	cat, err := openCatalog(log, cfg.StrictCatalog)
	if err != nil {
		return err
	}
	if pickTheme != "" {
		if cat, err = cat.Filter(func(p puzzle.Puzzle) bool { return p.HasTheme(pickTheme) }); err != nil {
			return fmt.Errorf("no puzzles tagged %q: %w", pickTheme, err)
		}
	}
	p := cat.Pick(cfg.Rating)
	log.Debug("picked puzzle", "rating", cfg.Rating, "puzzle", p.ID, "candidates", len(cat.Candidates(cfg.Rating)))

	out := cmd.OutOrStdout()
	if pickJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}
	return printPuzzle(out, p)
}

func printPuzzle(out io.Writer, p puzzle.Puzzle) error {
	moves := make([]string, len(p.Moves))
	for i, m := range p.Moves {
		moves[i] = m.String()
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\t%s\n", p.ID)
	fmt.Fprintf(w, "RATING\t%d\n", p.Rating)
	fmt.Fprintf(w, "FEN\t%s\n", p.FEN)
	fmt.Fprintf(w, "MOVES\t%s\n", strings.Join(moves, " "))
	if len(p.Themes) > 0 {
		fmt.Fprintf(w, "THEMES\t%s\n", strings.Join(p.Themes, ", "))
	}
	if p.GameURL != "" {
		fmt.Fprintf(w, "GAME\t%s\n", p.GameURL)
	}
	return w.Flush()
}
