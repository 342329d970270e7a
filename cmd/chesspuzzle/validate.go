package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/qnkhuat/chesspuzzle/pkg/catalog"
	"github.com/qnkhuat/chesspuzzle/pkg/logging"
	"github.com/qnkhuat/chesspuzzle/pkg/puzzle"
)

var validateQuiet bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Replay every puzzle in the catalog and report broken lines",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVarP(&validateQuiet, "quiet", "q", false, "only list defective puzzles")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	log, closer, err := logging.New(cfg.LogPath, cfg.LogLevel, "validate")
	if err != nil {
		return err
	}
	defer closer.Close()

	cat, err := openCatalog(log, false)
	if err != nil {
		return err
	}

	defects := make(map[string]error)
	for _, err := range catalog.Verify(cat) {
		var perr *puzzle.Error
		if errors.As(err, &perr) {
			defects[perr.ID] = err
		}
	}

	out := cmd.OutOrStdout()
	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	for _, p := range cat.All() {
		if err, found := defects[p.ID]; found {
			fmt.Fprintf(out, "%s %-8s %4d  %v\n", bad("FAIL"), p.ID, p.Rating, err)
			continue
		}
		if !validateQuiet {
			fmt.Fprintf(out, "%s %-8s %4d  %s\n", ok(" ok "), p.ID, p.Rating, dim(fmt.Sprintf("%d moves", len(p.Moves))))
		}
	}

	fmt.Fprintf(out, "\n%d puzzles, %d defective\n", cat.Len(), len(defects))
	log.Info("catalog validated", "puzzles", cat.Len(), "defective", len(defects))
	if len(defects) > 0 {
		return fmt.Errorf("%d of %d puzzles are defective", len(defects), cat.Len())
	}
	return nil
}
