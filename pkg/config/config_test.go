package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"CHESSPUZZLE_RATING", "CHESSPUZZLE_REPLY_DELAY", "CHESSPUZZLE_REVERT_DELAY",
		"CHESSPUZZLE_THEME", "CHESSPUZZLE_LOG_LEVEL", "CHESSPUZZLE_STRICT_CATALOG",
	} {
		t.Setenv(key, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rating != 1500 || cfg.ReplyDelay != 400*time.Millisecond || cfg.RevertDelay != 1500*time.Millisecond {
		t.Errorf("defaults = rating %d reply %v revert %v", cfg.Rating, cfg.ReplyDelay, cfg.RevertDelay)
	}
	if !cfg.StrictCatalog {
		t.Error("StrictCatalog defaults to false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CHESSPUZZLE_RATING", "2100")
	t.Setenv("CHESSPUZZLE_REPLY_DELAY", "250ms")
	t.Setenv("CHESSPUZZLE_REVERT_DELAY", "not a duration")
	t.Setenv("CHESSPUZZLE_STRICT_CATALOG", "false")
	t.Setenv("CHESSPUZZLE_THEME", "green")
	t.Setenv("CHESSPUZZLE_THEME_FILE", "/etc/chesspuzzle/themes.json")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rating != 2100 || cfg.ReplyDelay != 250*time.Millisecond {
		t.Errorf("env not applied: rating %d reply %v", cfg.Rating, cfg.ReplyDelay)
	}
	if cfg.RevertDelay != 1500*time.Millisecond {
		t.Errorf("unparsable duration should fall back, got %v", cfg.RevertDelay)
	}
	if cfg.StrictCatalog || cfg.Theme != "green" || cfg.ThemeFile != "/etc/chesspuzzle/themes.json" {
		t.Errorf("strict %v theme %q file %q", cfg.StrictCatalog, cfg.Theme, cfg.ThemeFile)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Rating: 1500, ReplyDelay: time.Millisecond, RevertDelay: time.Millisecond,
			HintDuration: time.Second, LogLevel: "info", Theme: "basic",
		}
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"low rating", func(c *Config) { c.Rating = 99 }, "rating 99"},
		{"high rating", func(c *Config) { c.Rating = 3501 }, "rating 3501"},
		{"zero reply", func(c *Config) { c.ReplyDelay = 0 }, "reply delay"},
		{"negative revert", func(c *Config) { c.RevertDelay = -time.Second }, "revert delay"},
		{"level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
		{"theme", func(c *Config) { c.Theme = " " }, "theme"},
	}
	for _, tc := range tests {
		cfg := valid()
		tc.mutate(cfg)
		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidConfig) || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: Validate = %v, want ErrInvalidConfig mentioning %q", tc.name, err, tc.want)
		}
	}
	// theme names come from the GUI or a theme file, not from here
	custom := valid()
	custom.Theme = "midnight"
	custom.ThemeFile = "themes.json"
	if err := custom.Validate(); err != nil {
		t.Errorf("custom theme name rejected: %v", err)
	}
	for _, r := range []int{MinRating, MaxRating} {
		cfg := valid()
		cfg.Rating = r
		if err := cfg.Validate(); err != nil {
			t.Errorf("rating %d rejected: %v", r, err)
		}
	}
}
