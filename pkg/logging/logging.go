// Package logging sets up the slog logger. The trainer owns the terminal,
// so logs normally go to a file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel maps debug|info|warn|error to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// New opens dest for appending and returns a text logger tagged with
// component. dest "-" logs to stderr. Close the returned closer on exit.
func New(dest, level, component string) (*slog.Logger, io.Closer, error) {
	var (
		w      io.Writer = os.Stderr
		closer io.Closer = io.NopCloser(nil)
	)
	if dest != "-" && dest != "" {
		f, err := os.OpenFile(dest, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w, closer = f, f
	}
	return NewWriter(w, level, component), closer, nil
}

// NewWriter is New for an already open writer.
func NewWriter(w io.Writer, level, component string) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	logger := slog.New(h)
	if component != "" {
		logger = logger.With("component", component)
	}
	return logger
}
