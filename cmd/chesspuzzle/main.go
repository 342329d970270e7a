// chesspuzzle trains chess tactics in the terminal: enter a rating, get a
// puzzle near it, find the moves.
package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/qnkhuat/chesspuzzle/pkg/catalog"
	"github.com/qnkhuat/chesspuzzle/pkg/config"
)

var (
	version = "dev"
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "chesspuzzle",
	Short: "Rated chess puzzles in your terminal",
	Long: `chesspuzzle serves chess puzzles matched to your rating.

  chesspuzzle play                     Train in the terminal
  chesspuzzle pick --rating 1800       Print a puzzle near 1800
  chesspuzzle validate                 Check the puzzle catalog`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	var err error
	if cfg, err = config.Load(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "puzzle catalog JSON file (default: bundled catalog)")
	flags.StringVar(&cfg.LogPath, "log", cfg.LogPath, `log file, "-" for stderr`)
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openCatalog loads the configured catalog. With strict set, puzzles whose
// lines do not replay are logged and left out.
func openCatalog(log *slog.Logger, strict bool) (*catalog.Catalog, error) {
	var opts []catalog.Option
	if cfg.Seed != 0 {
		opts = append(opts, catalog.WithRand(rand.New(rand.NewSource(cfg.Seed))))
	}
	cat, err := catalog.Open(cfg.CatalogPath, opts...)
	if err != nil {
		return nil, err
	}
	if !strict {
		return cat, nil
	}
	sound, dropped, err := catalog.Verified(cat)
	for _, d := range dropped {
		log.Warn("skipping puzzle", "err", d)
	}
	if err != nil {
		return nil, err
	}
	return sound, nil
}
