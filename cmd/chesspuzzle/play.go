package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/qnkhuat/chesspuzzle/pkg/gui"
	"github.com/qnkhuat/chesspuzzle/pkg/logging"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Train in the terminal",
	Long: `Opens the trainer. Without --rating (or CHESSPUZZLE_RATING) it asks
for your rating first.

Keys: h hint, r retry, n next puzzle, p promotion piece, q or Esc quit.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	flags := playCmd.Flags()
	flags.IntVar(&cfg.Rating, "rating", cfg.Rating, "your rating")
	flags.StringVar(&cfg.Theme, "theme", cfg.Theme, "board theme: basic, green or one from --theme-file")
	flags.StringVar(&cfg.ThemeFile, "theme-file", cfg.ThemeFile, "JSON file of extra hex themes")
	flags.DurationVar(&cfg.ReplyDelay, "reply-delay", cfg.ReplyDelay, "pause before the opponent replies")
	flags.DurationVar(&cfg.RevertDelay, "revert-delay", cfg.RevertDelay, "how long a wrong move is shown")
	flags.DurationVar(&cfg.HintDuration, "hint-duration", cfg.HintDuration, "how long a hint stays on the board")
	flags.BoolVar(&cfg.StrictCatalog, "strict", cfg.StrictCatalog, "skip puzzles whose lines do not replay")
	flags.Int64Var(&cfg.Seed, "seed", cfg.Seed, "fix puzzle selection (0 picks from the clock)")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("play needs an interactive terminal")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, closer, err := logging.New(cfg.LogPath, cfg.LogLevel, "trainer")
	if err != nil {
		return err
	}
	defer closer.Close()

	cat, err := openCatalog(log, cfg.StrictCatalog)
	if err != nil {
		return err
	}
	theme, themes, err := resolveTheme()
	if err != nil {
		return err
	}

	rating := cfg.Rating
	if !cmd.Flags().Changed("rating") && os.Getenv("CHESSPUZZLE_RATING") == "" {
		rating = 0
	}
	trainer := gui.New(cat, gui.Options{
		Rating:       rating,
		Theme:        theme,
		Themes:       themes,
		ReplyDelay:   cfg.ReplyDelay,
		RevertDelay:  cfg.RevertDelay,
		HintDuration: cfg.HintDuration,
		Logger:       log,
	})
	if err := trainer.Run(); err != nil {
		log.Error("trainer stopped", "err", err)
		return err
	}
	st := trainer.Stats()
	log.Info("training finished", "attempted", st.Attempted, "solved", st.Solved, "best_streak", st.BestStreak)
	if st.Attempted > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), st.String())
	}
	return nil
}

// resolveTheme imports the theme file, if any, and picks cfg.Theme from it
// or from the built in themes.
func resolveTheme() (gui.Theme, []gui.Theme, error) {
	var custom []gui.ThemeHex
	if cfg.ThemeFile != "" {
		var err error
		if custom, err = gui.LoadThemes(cfg.ThemeFile); err != nil {
			return gui.Theme{}, nil, err
		}
	}
	theme, err := gui.ImportThemes(cfg.Theme, custom)
	if err != nil {
		return gui.Theme{}, nil, err
	}
	return theme, gui.AvailableThemes(custom), nil
}
