// server lets players train over SSH: ssh -p 2222 host.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qnkhuat/chesspuzzle/pkg/config"
	"github.com/qnkhuat/chesspuzzle/pkg/logging"
	"github.com/qnkhuat/chesspuzzle/pkg/server"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "server",
	Short:         "Serve the chess puzzle trainer over SSH",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	var err error
	if cfg, err = config.Load(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	flags := rootCmd.Flags()
	flags.StringVar(&cfg.SSHAddr, "addr", cfg.SSHAddr, "SSH listen address")
	flags.StringVar(&cfg.HostKeyPath, "host-key", cfg.HostKeyPath, "host key file, generated when missing (default: throwaway key)")
	flags.StringVar(&cfg.PlayBinary, "binary", cfg.PlayBinary, "trainer binary run for each session")
	flags.DurationVar(&cfg.IdleTimeout, "idle-timeout", cfg.IdleTimeout, "disconnect idle sessions after")
	flags.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "puzzle catalog JSON file for the trainer")
	flags.StringVar(&cfg.ThemeFile, "theme-file", cfg.ThemeFile, "JSON file of extra hex themes for the trainer")
	flags.StringVar(&cfg.LogPath, "log", cfg.LogPath, `log file, "-" for stderr`)
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, closer, err := logging.New(cfg.LogPath, cfg.LogLevel, "server")
	if err != nil {
		return err
	}
	defer closer.Close()

	srv, err := server.New(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", cfg.SSHAddr)
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Error("server stopped", "err", err)
		return err
	}
	log.Info("server stopped")
	return nil
}
