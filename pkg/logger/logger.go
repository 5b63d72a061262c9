package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config describes the process logger.
type Config struct {
	// Output receives the JSON log stream. Defaults to os.Stdout.
	Output io.Writer `yaml:"-"`

	// Level is one of debug, info, warn, error. Defaults to info.
	Level string `yaml:"level" env:"LOG_LEVEL" envDefault:"info"`

	Sentry SentryConfig `yaml:"sentry"`
}

// ParseLevel converts a level name into a slog.Level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("logger: invalid level %q", s)
	}
	return lvl, nil
}

// New creates a JSON logger. When cfg.Sentry.DSN is set, warnings and errors
// are also forwarded to Sentry. Context extractors apply to both destinations.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	lvl, err := ParseLevel(cfg.Level)
	stdout := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: lvl})
	if err != nil {
		slog.New(stdout).Warn("falling back to info level", slog.String("level", cfg.Level))
	}

	handler := slog.Handler(stdout)
	if cfg.Sentry.DSN != "" {
		sh, err := newSentryHandler(cfg.Sentry)
		if err != nil {
			// Keep logging locally when Sentry cannot start.
			slog.New(stdout).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		} else {
			handler = newFanout(stdout, sh)
		}
	}

	return slog.New(WithContextExtractors(handler, extractors...))
}

// NewNope creates a logger that discards everything.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
