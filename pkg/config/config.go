// Package config provides configuration management for chesspuzzle.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	MinRating = 100
	MaxRating = 3500
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all configuration for the trainer and the SSH server.
type Config struct {
	// Rating is the skill rating puzzles are matched against.
	Rating int

	// ReplyDelay is how long a correct move shows before the opponent replies.
	ReplyDelay time.Duration
	// RevertDelay is how long the wrong-move flash stays up.
	RevertDelay time.Duration
	// HintDuration is how long a hint stays highlighted on the board.
	HintDuration time.Duration

	// CatalogPath is a JSON puzzle file; empty means the bundled catalog.
	CatalogPath string
	// StrictCatalog drops puzzles whose lines fail to replay.
	StrictCatalog bool
	// Seed fixes puzzle selection; 0 seeds from the clock.
	Seed int64

	// LogPath is the log file; "-" logs to stderr.
	LogPath  string
	LogLevel string

	// Theme names the board palette, built in or defined in ThemeFile.
	// The GUI resolves it; Validate only checks it is set.
	Theme string
	// ThemeFile is an optional JSON array of hex themes.
	ThemeFile string

	// SSH front door.
	SSHAddr     string
	HostKeyPath string
	// PlayBinary is executed with "play" for every SSH session.
	PlayBinary  string
	IdleTimeout time.Duration
}

// Load creates a Config from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Rating:        envOrInt("CHESSPUZZLE_RATING", 1500),
		ReplyDelay:    envOrDuration("CHESSPUZZLE_REPLY_DELAY", 400*time.Millisecond),
		RevertDelay:   envOrDuration("CHESSPUZZLE_REVERT_DELAY", 1500*time.Millisecond),
		HintDuration:  envOrDuration("CHESSPUZZLE_HINT_DURATION", 3*time.Second),
		CatalogPath:   os.Getenv("CHESSPUZZLE_CATALOG"),
		StrictCatalog: envOrBool("CHESSPUZZLE_STRICT_CATALOG", true),
		Seed:          int64(envOrInt("CHESSPUZZLE_SEED", 0)),
		LogPath:       envOr("CHESSPUZZLE_LOG", filepath.Join(os.TempDir(), "chesspuzzle.log")),
		LogLevel:      envOr("CHESSPUZZLE_LOG_LEVEL", "info"),
		Theme:         envOr("CHESSPUZZLE_THEME", "basic"),
		ThemeFile:     os.Getenv("CHESSPUZZLE_THEME_FILE"),
		SSHAddr:       envOr("CHESSPUZZLE_SSH_ADDR", ":2222"),
		HostKeyPath:   os.Getenv("CHESSPUZZLE_HOST_KEY"),
		PlayBinary:    envOr("CHESSPUZZLE_PLAY_BINARY", "chesspuzzle"),
		IdleTimeout:   envOrDuration("CHESSPUZZLE_IDLE_TIMEOUT", 5*time.Minute),
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Rating < MinRating || c.Rating > MaxRating {
		errs = append(errs, fmt.Errorf("rating %d outside [%d, %d]", c.Rating, MinRating, MaxRating))
	}
	if c.ReplyDelay <= 0 {
		errs = append(errs, fmt.Errorf("reply delay must be positive, got %v", c.ReplyDelay))
	}
	if c.RevertDelay <= 0 {
		errs = append(errs, fmt.Errorf("revert delay must be positive, got %v", c.RevertDelay))
	}
	if c.HintDuration <= 0 {
		errs = append(errs, fmt.Errorf("hint duration must be positive, got %v", c.HintDuration))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	if strings.TrimSpace(c.Theme) == "" {
		errs = append(errs, errors.New("no theme set"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envOrDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
